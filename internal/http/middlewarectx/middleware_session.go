// Package middlewarectx содержит HTTP middleware для проверки сессии и ограничения частоты запросов.
//
// SessionMiddleware читает куку сессии, определяет владельца через Resolver и кладёт
// учётную запись в контекст запроса. Анонимный запрос перенаправляется на страницу входа,
// обёрнутый обработчик при этом не вызывается.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/bank-portal/internal/http/response"
	"github.com/magabrotheeeer/bank-portal/internal/lib/sl"
	"github.com/magabrotheeeer/bank-portal/internal/models"
	services "github.com/magabrotheeeer/bank-portal/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// AccountKey — ключ для учётной записи владельца сессии в контексте.
const AccountKey Key = "account"

// Resolver определяет владельца токена сессии.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.Account, error)
}

// WithAccount возвращает копию контекста с учётной записью.
func WithAccount(ctx context.Context, acc *models.Account) context.Context {
	return context.WithValue(ctx, AccountKey, acc)
}

// AccountFromContext извлекает учётную запись, положенную SessionMiddleware.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	acc, ok := ctx.Value(AccountKey).(*models.Account)
	return acc, ok && acc != nil
}

// SessionToken возвращает значение куки сессии или пустую строку.
func SessionToken(r *http.Request, cookieName string) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SessionMiddleware пропускает запрос дальше только для аутентифицированного клиента.
//
// Анонимный клиент получает 303 See Other на loginPath. Недоступность хранилища
// даёт 500 с JSON-ошибкой.
func SessionMiddleware(resolver Resolver, cookieName, loginPath string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			acc, err := resolver.Resolve(r.Context(), SessionToken(r, cookieName))
			if err != nil {
				if errors.Is(err, services.ErrNoIdentity) {
					log.Debug("anonymous request redirected", slog.String("path", r.URL.Path))
					http.Redirect(w, r, loginPath, http.StatusSeeOther)
					return
				}
				log.Error("failed to resolve session", sl.Err(err))
				response.JSONError(w, r, http.StatusInternalServerError, "internal service error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), acc)))
		})
	}
}
