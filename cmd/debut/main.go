package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/debut/internal/adapters/http/api"
	"github.com/okian/debut/internal/adapters/http/swagger"
	"github.com/okian/debut/internal/adapters/media"
	"github.com/okian/debut/internal/adapters/mq/queue"
	"github.com/okian/debut/internal/adapters/mq/worker"
	"github.com/okian/debut/internal/adapters/remote"
	"github.com/okian/debut/internal/adapters/repository"
	"github.com/okian/debut/internal/adapters/sqlite"
	app "github.com/okian/debut/internal/app"
	"github.com/okian/debut/internal/config"
	"github.com/okian/debut/internal/domain/judging"
	"github.com/okian/debut/pkg/logger"
	"github.com/okian/debut/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 30 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 15 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "debut exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.InitWith(os.Stdout, logger.Format(strings.ToLower(cfg.LogFormat))); err != nil {
		return err
	}
	log := logger.Named("debut")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// application is the wired process: service, routes, and what to release.
type application struct {
	svc *app.Service
	mux *http.ServeMux
	db  *sqlite.Store
	log logger.Logger

	pool       *worker.Pool
	stopSyncer context.CancelFunc
}

// build wires storage, judging, the remote client and HTTP routes from cfg.
// An empty DataPath keeps all state in memory.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	var (
		kv      repository.KV
		backend media.Backend
		db      *sqlite.Store
		pool    *worker.Pool
	)
	if cfg.DataPath != "" {
		var err error
		db, err = sqlite.Open(cfg.DataPath)
		if err != nil {
			return nil, fmt.Errorf("open data store: %w", err)
		}
		kv, backend = db.KV(), db.Media()
		log.Info(ctx, "using sqlite storage", logger.String("path", cfg.DataPath))
	} else {
		kv, backend = repository.NewMemoryKV(cfg.MemoryQuotaBytes), media.NewMemoryBackend()
		log.Info(ctx, "using in-memory storage", logger.Int("quotaBytes", cfg.MemoryQuotaBytes))
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithStateStore(repository.NewStateStore(kv, repository.WithLogger(log.Named("state")))),
		app.WithMedia(media.NewStore(backend, media.WithLogger(log.Named("media")))),
		app.WithScorer(judging.NewEngine(judging.WithSeed(cfg.RandomSeed))),
	}
	if cfg.RemoteURL != "" {
		client, err := remote.NewHTTPClient(cfg.RemoteURL,
			remote.WithTimeout(cfg.RemoteTimeout()),
			remote.WithBearerToken(cfg.RemoteToken),
		)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		opts = append(opts, app.WithRemote(client))
		log.Info(ctx, "remote profile sync enabled", logger.String("url", cfg.RemoteURL))

		if cfg.SyncWorkers > 0 {
			outbox := queue.NewInMemoryQueue(queue.WithCapacity(cfg.SyncQueueSize))
			pool = worker.NewPool(cfg.SyncWorkers, outbox, remote.NewSyncer(client),
				worker.WithLogger(log.Named("sync")),
				worker.WithTaskTimeout(cfg.RemoteTimeout()),
			)
			opts = append(opts, app.WithOutbox(outbox))
		}
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(svc, svc, api.WithMaxMediaBytes(cfg.MaxMediaBytes)).Register(mux)

	a := &application{svc: svc, mux: mux, db: db, log: log, pool: pool}
	if pool != nil {
		// Workers outlive the signal context so Shutdown can drain the outbox.
		syncCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		a.stopSyncer = cancel
		pool.Start(syncCtx)
		log.Info(ctx, "remote sync outbox started",
			logger.Int("workers", pool.Size()),
			logger.Int("queueSize", cfg.SyncQueueSize),
		)
	}
	return a, nil
}

func (a *application) close(ctx context.Context) {
	a.svc.Stop()
	if a.pool != nil {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		if err := a.pool.Shutdown(drainCtx); err != nil {
			a.log.Warn(ctx, "remote sync outbox not drained", logger.Error(err))
		}
		cancel()
		a.stopSyncer()
	}
	if err := a.db.Close(); err != nil {
		a.log.Error(ctx, "failed to close data store", logger.Error(err))
	}
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond)
	}
}
