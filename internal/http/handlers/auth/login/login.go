// Package login реализует HTTP-обработчик входа по e-mail и паролю.
//
// При успехе выставляет куку сессии и возвращает путь дашборда и роль. Неизвестный
// e-mail и неверный пароль дают одинаковый ответ 401. Клиент, уже имеющий
// действующую сессию, сразу перенаправляется на дашборд.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bank-portal/internal/http/cookie"
	"github.com/magabrotheeeer/bank-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bank-portal/internal/http/request"
	"github.com/magabrotheeeer/bank-portal/internal/http/response"
	"github.com/magabrotheeeer/bank-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/bank-portal/internal/lib/sl"
	"github.com/magabrotheeeer/bank-portal/internal/models"
	services "github.com/magabrotheeeer/bank-portal/internal/services/auth"
)

const (
	// LoginPath — путь страницы входа.
	LoginPath = "/login"
	// DashboardPath — куда клиент отправляется после входа.
	DashboardPath = "/dashboard"
)

// Request — входные данные для входа.
type Request struct {
	Email    string           `json:"email" form:"email" validate:"required"`
	Password string           `json:"password" form:"password" validate:"required"`
	Remember request.Checkbox `json:"remember" form:"remember" swaggertype:"boolean"`
}

// Service описывает операции, нужные обработчику входа.
type Service interface {
	Login(ctx context.Context, email, password string, remember bool) (*services.Session, error)
	Resolve(ctx context.Context, token string) (*models.Account, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookie   cookie.Config
	metrics  *metrics.Auth
	validate *validator.Validate
}

// New создает новый экземпляр Handler. metrics может быть nil.
func New(log *slog.Logger, service Service, ck cookie.Config, m *metrics.Auth) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookie:   ck,
		metrics:  m,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в учётную запись
// @Description Проверяет e-mail и пароль, выставляет куку сессии. С remember=true кука переживает закрытие браузера.
// @Tags Auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response "Успешный вход"
// @Success 303 "Сессия уже активна, переход на дашборд"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Неверный e-mail или пароль"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if token := middlewarectx.SessionToken(r, h.cookie.Name); token != "" {
		if acc, err := h.service.Resolve(r.Context(), token); err == nil {
			log.Debug("already authenticated", slog.Int64("account_id", acc.ID))
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
	}

	var req Request
	if err := render.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.JSONError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.metrics.Login(metrics.ResultInvalid)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sess, err := h.service.Login(r.Context(), req.Email, req.Password, bool(req.Remember))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.metrics.Login(metrics.ResultInvalid)
			response.JSONError(w, r, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
			return
		}
		log.Error("login failed", sl.Err(err))
		h.metrics.Login(metrics.ResultUnavailable)
		response.JSONError(w, r, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.cookie.Set(w, sess.Token, sess.ExpiresAt, sess.Remember)
	h.metrics.Login(metrics.ResultSuccess)
	log.Info("login success", slog.Int64("account_id", sess.AccountID))

	render.JSON(w, r, response.OKWithData(map[string]any{
		"redirect": DashboardPath,
		"role":     sess.Role,
	}))
}
