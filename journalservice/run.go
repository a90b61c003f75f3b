package journalservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/affirmation"
	"github.com/chillpill/chillpill/internal/api"
	"github.com/chillpill/chillpill/internal/config"
	"github.com/chillpill/chillpill/internal/factory"
	"github.com/chillpill/chillpill/internal/health"
	"github.com/chillpill/chillpill/internal/journal"
	"github.com/chillpill/chillpill/internal/logger"
	"github.com/chillpill/chillpill/internal/mood"
	"github.com/chillpill/chillpill/internal/sentiment"
	"github.com/chillpill/chillpill/internal/services"
	"github.com/chillpill/chillpill/internal/store"
)

// Run starts the journal HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("chillpill-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log = logger.WithLevel(log, cfg.LogLevel)

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("sentiment_url", cfg.SentimentURL).
		Msg("Journal service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.store.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	svcHealth := startHealthCheckers(ctx, cfg, log, deps)
	router := buildRouter(deps, svcHealth, log)

	// Block startup until the store reports healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

type dependencies struct {
	store   store.Store
	scorer  *sentiment.RemoteScorer
	service *services.JournalService
	mood    *mood.Analytics
}

// initDependencies constructs the store and the domain components on top of it.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}

	classifier, scorer := factory.NewClassifier(cfg, log)
	manager := journal.NewManager(st.Entries(), clockwork.NewRealClock(), log)

	return &dependencies{
		store:   st,
		scorer:  scorer,
		service: services.NewJournalService(manager, classifier, affirmation.New(), log),
		mood:    mood.NewAnalytics(manager, log, cfg.RankingSize, cfg.RecentWindow),
	}, nil
}

func buildRouter(deps *dependencies, svcHealth *health.ServiceHealthChecker, log zerolog.Logger) *mux.Router {
	return api.NewRouter(api.Deps{
		Journal: deps.service,
		Mood:    deps.mood,
		Health:  svcHealth,
		Log:     log,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
// The scorer is optional: entries are still saved, unscored, while it is down.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies) *health.ServiceHealthChecker {
	interval := cfg.HealthInterval()
	if interval <= 0 {
		interval = 30 * time.Second
	}

	storeChecker := store.NewStoreHealthChecker(deps.store, log, cfg.HealthProbeTimeout())
	go storeChecker.Start(ctx, interval)

	scorerChecker := sentiment.NewScorerHealthChecker(deps.scorer)
	go scorerChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, scorerChecker).Optional(scorerChecker.Name())
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// a submit may wait on the remote scorer for its full timeout
		WriteTimeout: cfg.SentimentTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// serviceHealth is the part of ServiceHealthChecker startup waits on.
type serviceHealth interface {
	IsHealthy() bool
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth serviceHealth) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
