// Package app wires configuration, datastores, services and the HTTP router
// into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/eventhall/booking-api/internal/api"
	"github.com/eventhall/booking-api/internal/api/handler"
	"github.com/eventhall/booking-api/internal/api/metrics"
	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/service"
	mongodb "github.com/eventhall/booking-api/internal/infrastructure/db/mongo"
	"github.com/eventhall/booking-api/internal/infrastructure/db/redis"
	"github.com/eventhall/booking-api/internal/infrastructure/security"
	"github.com/eventhall/booking-api/internal/infrastructure/storage"
	"github.com/eventhall/booking-api/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived connections and the HTTP server.
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	mongo  *mongo.Client
	redis  *goredis.Client
	server *http.Server
}

// New connects to MongoDB and Redis, ensures indexes and builds the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	a := &App{cfg: cfg, log: log, mongo: client, redis: rdb}

	deps, err := a.dependencies(ctx, db)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return a, nil
}

func (a *App) dependencies(ctx context.Context, db *mongo.Database) (api.Dependencies, error) {
	codec, err := security.NewJWTCodec(security.TokenConfig{
		AccessSecret:  a.cfg.JWT.AccessSecret,
		RefreshSecret: a.cfg.JWT.RefreshSecret,
		AccessTTL:     a.cfg.JWT.AccessExpires.Std(),
		RefreshTTL:    a.cfg.JWT.RefreshExpires.Std(),
	})
	if err != nil {
		return api.Dependencies{}, err
	}

	admins := mongodb.NewAdminRepository(db)
	users := mongodb.NewUserRepository(db)
	history := mongodb.NewHistoryRepository(db)
	packages := mongodb.NewPackageRepository(db)
	if err := mongodb.EnsureIndexes(ctx, admins, users, history, packages); err != nil {
		return api.Dependencies{}, err
	}

	hasher := security.NewBcryptHasher(a.cfg.BcryptCost)
	images := storage.NewImageStore(a.cfg.UploadDir, a.log)
	cache := metrics.InstrumentPackageCache(redis.NewPackageCache(a.redis))

	return api.Dependencies{
		Log:       a.log,
		BasePath:  a.cfg.BasePath(),
		Tokens:    codec,
		AdminAuth: service.NewAuthService(domain.AdminKind, admins, hasher, codec, a.log),
		UserAuth:  service.NewAuthService(domain.UserKind, users, hasher, codec, a.log),
		Admins:    service.NewAdminService(admins, history, hasher, images, a.log),
		Users:     service.NewAccountService(domain.UserKind, users, hasher, images, a.log),
		History:   service.NewHistoryService(history),
		Packages:  service.NewPackageService(packages, cache, a.cfg.PackageCacheTTL.Std(), a.log),
		HealthChecks: []handler.DependencyCheck{
			handler.MongoCheck(db),
			handler.RedisCheck(a.redis),
		},
		UploadDir: images.Root(),
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", a.server.Addr).Str("base_path", a.cfg.BasePath()).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases the datastore connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo disconnect: %w", err))
		}
	}
	return errors.Join(errs...)
}
