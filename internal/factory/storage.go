package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/config"
	storepkg "github.com/chillpill/chillpill/internal/store"
	"github.com/chillpill/chillpill/internal/store/memstore"
	storemongo "github.com/chillpill/chillpill/internal/store/mongo"
	storepg "github.com/chillpill/chillpill/internal/store/postgres"
	storesqlite "github.com/chillpill/chillpill/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver.
// Network backends are retried with exponential backoff for up to
// BootstrapTimeoutSeconds so the service survives a database that starts slower.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	log = log.With().Str("driver", cfg.DBDriver).Logger()

	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; entries are lost on exit")
		return memstore.New(), nil

	case config.DriverSQLite:
		return storesqlite.New(ctx, cfg.SQLitePath)

	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("CHILLPILL_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		return withRetry(ctx, cfg, log, func(ctx context.Context) (storepkg.Store, error) {
			db, err := storepg.Open(ctx, cfg.PostgresDSN)
			if err != nil {
				return nil, err
			}
			s, err := storepg.NewWithDB(ctx, db)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			return s, nil
		})

	case config.DriverMongo:
		return withRetry(ctx, cfg, log, func(ctx context.Context) (storepkg.Store, error) {
			return storemongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		})
	}
	return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
}

func withRetry(ctx context.Context, cfg *config.Config, log zerolog.Logger, open func(context.Context) (storepkg.Store, error)) (storepkg.Store, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 250 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second

	var s storepkg.Store
	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		var err error
		s, err = open(attemptCtx)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("store not reachable yet")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(exp, ctx), notify); err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	log.Debug().Msg("store connection established")
	return s, nil
}
