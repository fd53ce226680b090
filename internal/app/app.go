package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-forecast/external/predictor"
	"github.com/riskibarqy/league-forecast/internal/config"
	"github.com/riskibarqy/league-forecast/internal/coordinator"
	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	"github.com/riskibarqy/league-forecast/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-forecast/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-forecast/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-forecast/internal/observability"
	idgen "github.com/riskibarqy/league-forecast/internal/platform/id"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
	"github.com/riskibarqy/league-forecast/internal/platform/resilience"
	"github.com/riskibarqy/league-forecast/internal/reconcile"
	"github.com/riskibarqy/league-forecast/internal/synthetic"
	"github.com/riskibarqy/league-forecast/internal/usecase"
)

// App owns the HTTP server and every long-lived dependency behind it.
type App struct {
	cfg        config.Config
	logger     *logging.Logger
	server     *http.Server
	metrics    *observability.Metrics
	sessions   *coordinator.Registry
	dispatcher *coordinator.PoolDispatcher
	db         *sqlx.DB
}

// New builds the service graph. ctx bounds the startup work (database ping)
// and is not retained.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}
	if cfg.MetricsEnabled {
		a.metrics = observability.NewMetrics()
	}

	archive, err := a.openArchive(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := config.LoadTierProfile(cfg.TierProfilePath)
	if err != nil {
		a.closeDB()
		return nil, err
	}
	var genOpts []synthetic.Option
	if cfg.SyntheticSeed != 0 {
		genOpts = append(genOpts, synthetic.WithSeed(cfg.SyntheticSeed))
	}

	client := predictor.NewClient(predictor.ClientConfig{
		BaseURL:      cfg.PredictorBaseURL,
		Timeout:      cfg.PredictorTimeout,
		MaxRetries:   cfg.PredictorMaxRetries,
		RetryBackoff: cfg.PredictorRetryBackoff,
		Logger:       logger,
		Observer:     a.upstreamObserver(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PredictorCircuitEnabled,
			FailureThreshold: cfg.PredictorCircuitFailureCount,
			OpenTimeout:      cfg.PredictorCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PredictorCircuitHalfOpenMaxReq,
		},
	})

	views := usecase.NewViewService(usecase.ViewServiceConfig{
		Provider:       client,
		Normalizer:     reconcile.NewNormalizer(reconcile.NewResolver()),
		Generator:      synthetic.NewGenerator(profile, genOpts...),
		Archive:        archive,
		Recorder:       a.metrics,
		Logger:         logger,
		DefaultSeasons: cfg.DefaultSeasons,
		TableTTL:       cfg.RosterCacheTTL,
	})

	a.dispatcher, err = coordinator.NewPoolDispatcher(cfg.WorkerPoolSize)
	if err != nil {
		a.closeDB()
		return nil, err
	}

	a.sessions = coordinator.NewRegistry(coordinator.RegistryConfig{
		Loader:        views,
		Dispatcher:    a.dispatcher,
		Stale:         a.metrics,
		Gauge:         a.metrics,
		IDs:           idgen.NewUUIDGenerator(),
		Logger:        logger,
		TTL:           cfg.SessionTTL,
		DefaultSeason: cfg.DefaultSeason,
	})

	routerCfg := httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalAPIToken:   cfg.InternalAPIToken,
	}
	if a.metrics != nil {
		routerCfg.Metrics = a.metrics.Handler()
		routerCfg.Observer = a.metrics
	}
	handler := httpapi.NewHandler(views, a.sessions, archive, logger)

	a.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, logger, routerCfg),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"predictor", client.BaseURL(),
		"archive", cfg.RawArchiveDriver,
		"metrics", cfg.MetricsEnabled,
		"worker_pool_size", cfg.WorkerPoolSize,
		"session_ttl", cfg.SessionTTL.String(),
	)
	return a, nil
}

func (a *App) Metrics() *observability.Metrics {
	return a.metrics
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and sweeps expired sessions until ctx ends or the
// listener fails. It returns nil after a clean shutdown.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.sessions.RunSweeper(sweepCtx, a.cfg.SessionSweepInterval)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Shutdown drains the HTTP server, then stops the worker pool and closes
// the archive database.
func (a *App) Shutdown(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	workers := 0
	if a.dispatcher != nil {
		workers = a.dispatcher.Running()
		a.dispatcher.Release()
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info("http server stopped", "active_sessions", a.sessions.Len(), "pool_workers", workers)
	return errors.Join(errs...)
}

func (a *App) openArchive(ctx context.Context) (rawdata.Repository, error) {
	switch a.cfg.RawArchiveDriver {
	case config.ArchiveMemory:
		return memory.NewRawPayloadRepository(a.cfg.RawArchiveCapacity), nil
	case config.ArchivePostgres:
		db, err := openDatabase(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		return postgres.NewRawPayloadRepository(db), nil
	default:
		return nil, nil
	}
}

// upstreamObserver avoids handing the client a typed nil.
func (a *App) upstreamObserver() predictor.Observer {
	if a.metrics == nil {
		return nil
	}
	return a.metrics
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
