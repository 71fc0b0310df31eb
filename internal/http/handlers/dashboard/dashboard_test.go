package dashboard

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bank-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bank-portal/internal/http/response"
	"github.com/magabrotheeeer/bank-portal/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type envelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Data   View   `json:"data"`
}

func TestDashboardHandler_RoleDispatch(t *testing.T) {
	tests := []struct {
		name         string
		role         models.Role
		wantKind     string
		wantUser     string
		wantMerchant string
	}{
		{name: "regular user", role: models.RoleRegular, wantKind: KindUser, wantUser: "Alice Smith"},
		{name: "merchant", role: models.RoleMerchant, wantKind: KindMerchant, wantMerchant: "Alice Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &models.Account{ID: 1, FirstName: "Alice", LastName: "Smith", Role: tt.role, PasswordHash: "secret-hash"}
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req = req.WithContext(middlewarectx.WithAccount(req.Context(), acc))
			rec := httptest.NewRecorder()

			New(newNoopLogger()).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.NotContains(t, rec.Body.String(), "secret-hash")

			var got envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, response.StatusOK, got.Status)
			assert.Equal(t, tt.wantKind, got.Data.Kind)
			assert.Equal(t, tt.wantUser, got.Data.UserName)
			assert.Equal(t, tt.wantMerchant, got.Data.MerchantName)
			assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, got.Data.Weeks)
			assert.Equal(t, []int{120, 150, 180, 90, 200, 170, 220}, got.Data.Income)
			assert.Equal(t, 75, got.Data.Percentage)
			assert.Len(t, got.Data.Transactions, 7)
		})
	}
}

func TestDashboardHandler_NoAccount(t *testing.T) {
	rec := httptest.NewRecorder()
	New(newNoopLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
