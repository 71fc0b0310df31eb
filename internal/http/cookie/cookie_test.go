package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Set(t *testing.T) {
	cfg := Config{Name: "bank_session", Secure: true}

	tests := []struct {
		name       string
		persistent bool
		wantMaxAge bool
	}{
		{name: "browser session cookie", persistent: false, wantMaxAge: false},
		{name: "remembered cookie", persistent: true, wantMaxAge: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			cfg.Set(rec, "tok", time.Now().Add(24*time.Hour), tt.persistent)

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, "bank_session", c.Name)
			assert.Equal(t, "tok", c.Value)
			assert.True(t, c.HttpOnly)
			assert.True(t, c.Secure)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			if tt.wantMaxAge {
				assert.Greater(t, c.MaxAge, 0)
				assert.False(t, c.Expires.IsZero())
			} else {
				assert.Zero(t, c.MaxAge)
				assert.True(t, c.Expires.IsZero())
			}
		})
	}
}

func TestConfig_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	Config{Name: "bank_session"}.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "bank_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
