package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/salesapi/accounts/internal/command"
	"github.com/salesapi/accounts/internal/config"
	"github.com/salesapi/accounts/internal/handler"
	"github.com/salesapi/accounts/internal/query"
	"github.com/salesapi/accounts/internal/repository"
	"github.com/salesapi/accounts/shared/events"
	sharedredis "github.com/salesapi/accounts/shared/redis"
)

// App is the application context built once at process start and handed to
// whatever needs it. Redis is nil when no address is configured.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	DB      *sql.DB
	Redis   *sharedredis.Client
	Reads   *repository.AccountReadRepository
	Queries *query.AccountQueryService
}

// New opens the accounts database described by dsn and, when configured,
// connects to Redis and enables the account view cache.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, dsn string) (*App, error) {
	db, err := repository.Open(cfg.Database.Dialect, dsn)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db}
	a.Reads = repository.NewAccountReadRepository(db, cfg.Database.Dialect)

	if cfg.Redis.Enabled() {
		rc, err := sharedredis.NewClient(ctx, sharedredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.Redis = rc
		a.Reads.WithViewCache(rc.Client, cfg.Redis.CacheTTL)
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("account view cache enabled")
	}

	a.Queries = query.NewAccountQueryService(a.Reads)
	return a, nil
}

// Router returns the gin engine for the lookup API.
func (a *App) Router() *gin.Engine {
	return handler.NewRouter(a.Logger, a.Queries)
}

// Handler is Router with CORS applied for the configured origins.
func (a *App) Handler() http.Handler {
	return handler.WithCORS(a.Config.Server.AllowedOrigins, a.Router())
}

// Importer returns the bulk import service. Events are published only when
// Redis is available.
func (a *App) Importer() *command.AccountImportService {
	var publisher command.EventPublisher
	if a.Redis != nil {
		publisher = events.NewPublisher(a.Redis.Client)
	}
	return command.NewAccountImportService(repository.NewAccountWriteRepository(a.DB), publisher)
}

// ImportSubscriber returns the consumer that invalidates cached views after
// an import, or nil without Redis.
func (a *App) ImportSubscriber(consumer string) *events.Subscriber {
	if a.Redis == nil {
		return nil
	}
	return events.NewSubscriber(a.Redis.Client, events.SubscriberConfig{
		Group:    "account-service-group",
		Consumer: consumer,
		Stream:   events.AccountEventsStream,
		Handler:  command.NewAccountEventHandler(a.Reads).HandleAccountEvent,
		Logger:   a.Logger,
	})
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	return errors.Join(errs...)
}
