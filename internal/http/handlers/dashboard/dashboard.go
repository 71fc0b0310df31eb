// Package dashboard отдаёт данные дашборда в зависимости от роли учётной записи.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bank-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bank-portal/internal/http/response"
	"github.com/magabrotheeeer/bank-portal/internal/models"
)

// Transaction — строка таблицы последних операций.
type Transaction struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
}

// View — данные дашборда. Заполнено ровно одно из полей UserName и MerchantName.
type View struct {
	Kind         string          `json:"kind"`
	Account      *models.Account `json:"account"`
	UserName     string          `json:"user_name,omitempty"`
	MerchantName string          `json:"merchant_name,omitempty"`
	Weeks        []string        `json:"weeks"`
	Income       []int           `json:"income"`
	Percentage   int             `json:"percentage"`
	Transactions []Transaction   `json:"transactions"`
}

const (
	// KindUser — дашборд обычного пользователя.
	KindUser = "user_dashboard"
	// KindMerchant — дашборд мерчанта.
	KindMerchant = "merchant_dashboard"
)

// Handler отдаёт дашборд аутентифицированному клиенту.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Дашборд
// @Description Возвращает дашборд пользователя или мерчанта в зависимости от роли.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response{data=View}
// @Success 303 "Нет сессии, переход на страницу входа"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	acc, ok := middlewarectx.AccountFromContext(r.Context())
	if !ok {
		log.Error("account missing in context")
		response.JSONError(w, r, http.StatusInternalServerError, "internal service error")
		return
	}

	view := View{
		Account:      acc,
		Weeks:        []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Income:       []int{120, 150, 180, 90, 200, 170, 220},
		Percentage:   75,
		Transactions: recentTransactions(),
	}

	switch acc.Role {
	case models.RoleMerchant:
		view.Kind = KindMerchant
		view.MerchantName = acc.FullName()
	case models.RoleRegular:
		view.Kind = KindUser
		view.UserName = acc.FullName()
	default:
		log.Error("unknown role", slog.String("role", string(acc.Role)))
		response.JSONError(w, r, http.StatusInternalServerError, "internal service error")
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}

func recentTransactions() []Transaction {
	return []Transaction{
		{ID: 1, Amount: 150.00, Status: "Success", Date: "2024-10-01", Time: "10:30 AM"},
		{ID: 2, Amount: 200.00, Status: "Pending", Date: "2024-10-02", Time: "09:45 AM"},
		{ID: 3, Amount: 120.00, Status: "Failed", Date: "2024-10-03", Time: "11:15 AM"},
		{ID: 4, Amount: 300.00, Status: "Success", Date: "2024-10-04", Time: "02:20 PM"},
		{ID: 5, Amount: 250.00, Status: "Success", Date: "2024-10-05", Time: "01:10 PM"},
		{ID: 6, Amount: 180.00, Status: "Pending", Date: "2024-10-06", Time: "03:30 PM"},
		{ID: 7, Amount: 220.00, Status: "Success", Date: "2024-10-07", Time: "12:00 PM"},
	}
}
