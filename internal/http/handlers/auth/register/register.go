// Package register реализует HTTP-обработчик регистрации учётной записи.
//
// Принимает JSON или form-urlencoded тело, ограничивает длину полей валидатором
// и делегирует проверку e-mail, пароля, имени и уникальности сервису аутентификации.
// Ошибки ввода возвращаются как 422 с сообщением, пригодным для повторного показа формы.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bank-portal/internal/http/request"
	"github.com/magabrotheeeer/bank-portal/internal/http/response"
	"github.com/magabrotheeeer/bank-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/bank-portal/internal/lib/sl"
	"github.com/magabrotheeeer/bank-portal/internal/models"
	services "github.com/magabrotheeeer/bank-portal/internal/services/auth"
)

// LoginPath — куда клиент отправляется после успешной регистрации.
const LoginPath = "/login"

// Request — входные данные формы регистрации.
type Request struct {
	Email      string           `json:"email" form:"email" validate:"max=254"`
	FirstName  string           `json:"first_name" form:"first_name" validate:"max=100"`
	LastName   string           `json:"last_name" form:"last_name" validate:"max=100"`
	Password   string           `json:"password" form:"password"`
	IsMerchant request.Checkbox `json:"is_merchant" form:"is_merchant" swaggertype:"boolean"`
}

// Service описывает операцию регистрации.
type Service interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	metrics  *metrics.Auth
	validate *validator.Validate
}

// New создает новый экземпляр Handler. metrics может быть nil.
func New(log *slog.Logger, service Service, m *metrics.Auth) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		metrics:  m,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация учётной записи
// @Description Создаёт учётную запись обычного пользователя или мерчанта и направляет на страницу входа.
// @Tags Auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body Request true "Данные регистрации"
// @Success 201 {object} response.Response "Учётная запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или e-mail занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.JSONError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.metrics.Registration(metrics.ResultInvalid)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	acc, err := h.service.Register(r.Context(), services.RegisterInput{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   req.Password,
		IsMerchant: bool(req.IsMerchant),
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrEmailTaken):
		log.Info("registration rejected", sl.Email(req.Email), sl.Err(err))
		h.metrics.Registration(metrics.ResultConflict)
		response.JSONError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case services.IsValidationError(err):
		log.Info("registration rejected", sl.Err(err))
		h.metrics.Registration(metrics.ResultInvalid)
		response.JSONError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		log.Error("failed to register account", sl.Err(err))
		h.metrics.Registration(metrics.ResultUnavailable)
		response.JSONError(w, r, http.StatusInternalServerError, "failed to register account")
		return
	}

	h.metrics.Registration(metrics.ResultSuccess)
	log.Info("account created", slog.Int64("account_id", acc.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account":  acc,
		"redirect": LoginPath,
	}))
}
