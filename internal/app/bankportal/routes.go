// Package bankportal собирает HTTP-приложение банковского портала: маршруты,
// middleware и зависимости.
package bankportal

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/magabrotheeeer/bank-portal/docs" // swagger-документация
	"github.com/magabrotheeeer/bank-portal/internal/http/cookie"
	"github.com/magabrotheeeer/bank-portal/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/bank-portal/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/bank-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/bank-portal/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/bank-portal/internal/http/handlers/pages"
	"github.com/magabrotheeeer/bank-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bank-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/bank-portal/internal/models"
	services "github.com/magabrotheeeer/bank-portal/internal/services/auth"
)

// AuthService объединяет операции аутентификации, нужные маршрутам.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, email, password string, remember bool) (*services.Session, error)
	Resolve(ctx context.Context, token string) (*models.Account, error)
	Logout(ctx context.Context, token string) error
}

// Deps — зависимости маршрутов.
type Deps struct {
	Auth    AuthService
	Cookie  cookie.Config
	Metrics *metrics.Auth
	Limiter *rate.Limiter // nil отключает ограничение частоты
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые страницы
	r.Get("/", pages.Home())
	r.Get("/about", pages.About())
	r.Get("/widget", pages.Widget())
	r.Get("/health", pages.Health())
	r.Get(login.LoginPath, pages.LoginForm())
	r.Get("/register", pages.RegisterForm())

	// Вход и регистрация с ограничением частоты
	r.Group(func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(middlewarectx.RateLimitMiddleware(deps.Limiter, logger))
		}
		r.Post("/register", register.New(logger, deps.Auth, deps.Metrics).ServeHTTP)
		r.Post("/login", login.New(logger, deps.Auth, deps.Cookie, deps.Metrics).ServeHTTP)
	})

	logoutHandler := logout.New(logger, deps.Auth, deps.Cookie)
	r.Get("/logout", logoutHandler.ServeHTTP)
	r.Post("/logout", logoutHandler.ServeHTTP)

	// Группа с проверкой сессии
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(deps.Auth, deps.Cookie.Name, login.LoginPath, logger))
		r.Get("/dashboard", dashboard.New(logger).ServeHTTP)
		r.Post("/upi_sender", pages.UPISender())
		r.Post("/upi_receiver", pages.UPIReceiver())
		r.Post("/chatbot", pages.Chatbot())
		r.Get("/analytics", pages.Analytics())
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
