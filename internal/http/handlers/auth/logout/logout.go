// Package logout реализует HTTP-обработчик завершения сессии.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/bank-portal/internal/http/cookie"
	"github.com/magabrotheeeer/bank-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bank-portal/internal/lib/sl"
)

// HomePath — куда клиент отправляется после выхода.
const HomePath = "/"

// Service описывает операцию отзыва сессии.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// Handler обрабатывает выход из учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
	cookie  cookie.Config
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, ck cookie.Config) *Handler {
	return &Handler{log: log, service: service, cookie: ck}
}

// ServeHTTP godoc
// @Summary Выход из учётной записи
// @Description Отзывает сессию, сбрасывает куку и перенаправляет на главную. Повторный вызов безопасен.
// @Tags Auth
// @Success 303 "Переход на главную"
// @Router /logout [post]
// @Router /logout [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context(), middlewarectx.SessionToken(r, h.cookie.Name)); err != nil {
		// кука всё равно сбрасывается, запись в реестре истечёт по TTL
		log.Error("failed to revoke session", sl.Err(err))
	}

	h.cookie.Clear(w)
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}
