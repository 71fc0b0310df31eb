package bankportal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bank-portal/internal/cache"
	"github.com/magabrotheeeer/bank-portal/internal/config"
	"github.com/magabrotheeeer/bank-portal/internal/http/cookie"
	"github.com/magabrotheeeer/bank-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/bank-portal/internal/lib/metrics"
	"github.com/magabrotheeeer/bank-portal/internal/lib/password"
	"github.com/magabrotheeeer/bank-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bank-portal/internal/lib/sl"
	"github.com/magabrotheeeer/bank-portal/internal/migrations"
	services "github.com/magabrotheeeer/bank-portal/internal/services/auth"
	"github.com/magabrotheeeer/bank-portal/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-приложение банковского портала со всеми подключениями.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *storage.Storage
	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher
}

// New подключает хранилище, реестр сессий и брокер, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	jwtMaker := jwt.NewJWTMaker(cfg.SecretKey, cfg.TTL, cfg.RememberTTL)
	authService := services.NewAuthService(db, cacheRedis, password.NewHasher(cfg.Cost), jwtMaker, logger)

	if cfg.RabbitMQ.URL != "" {
		if err := app.connectBroker(cfg.RabbitMQ); err != nil {
			app.close()
			return nil, err
		}
		authService.WithEvents(app.publisher, cfg.RabbitMQ.RoutingKey)
	} else {
		logger.Info("rabbitmq url is empty, account events are disabled")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:    authService,
		Cookie:  cookie.Config{Name: cfg.CookieName, Secure: cfg.CookieSecure},
		Metrics: metrics.NewAuth(prometheus.DefaultRegisterer),
		Limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) connectBroker(cfg config.RabbitMQ) error {
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.AccountQueues(cfg.RoutingKey))
	if err != nil {
		_ = conn.Close()
		return err
	}
	a.amqpConn = conn
	a.publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
	return nil
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
}
