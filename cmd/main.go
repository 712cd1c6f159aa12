package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/playerscore/internal/adapters/cache"
	"github.com/okian/playerscore/internal/adapters/http/api"
	"github.com/okian/playerscore/internal/adapters/http/site"
	"github.com/okian/playerscore/internal/adapters/http/swagger"
	"github.com/okian/playerscore/internal/adapters/source"
	"github.com/okian/playerscore/internal/adapters/workbook"
	app "github.com/okian/playerscore/internal/app"
	"github.com/okian/playerscore/internal/config"
	"github.com/okian/playerscore/pkg/logger"
	"github.com/okian/playerscore/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("invalid log_format; using text: " + err.Error() + "\n")
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "player score service failed", logger.Error(err))
		os.Exit(1)
	}
}

// run starts the service and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	src, closeSource, err := buildSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	svc := newService(cfg, src, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}

	go startSystemMetricsUpdater(ctx)
	if interval := cfg.ReloadInterval(); interval > 0 {
		go startReloader(ctx, svc, interval, log)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
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

// buildSource resolves the dataset location and wraps it with the configured
// cache. An unreachable cache is logged and skipped.
func buildSource(ctx context.Context, cfg *config.Config, log logger.Logger) (source.Source, func(), error) {
	noop := func() {}
	src, err := source.New(cfg.Dataset,
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithS3Config(source.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}),
	)
	if err != nil {
		return nil, noop, err
	}

	c, err := cache.New(ctx, cfg.CacheBackend, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		metrics.RecordCacheError()
		log.Warn(ctx, "dataset cache unavailable; loading without cache",
			logger.String("backend", cfg.CacheBackend),
			logger.Error(err),
		)
		return src, noop, nil
	}
	if c == nil {
		return src, noop, nil
	}

	closeFn := noop
	if rc, ok := c.(*cache.RedisCache); ok {
		closeFn = func() { _ = rc.Close() }
	}
	log.Info(ctx, "dataset cache enabled",
		logger.String("backend", cfg.CacheBackend),
		logger.Duration("ttl", cfg.CacheTTL()),
	)
	return cache.NewCachedSource(src, c, cfg.CacheTTL(), log.Named("cache")), closeFn, nil
}

func newService(cfg *config.Config, src source.Source, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log),
		app.WithSource(src),
		app.WithDecodeOptions(workbook.DecodeOptions{Sheet: cfg.Sheet, ScoreMarker: cfg.ScoreMarker}),
		app.WithAllSentinel(cfg.AllSentinel),
		app.WithDisplayColumns(cfg.DisplayColumns),
		app.WithMaxResultLimit(cfg.MaxResultLimit),
		app.WithUsageBounds(cfg.UsageMin, cfg.UsageMax),
	)
}

// newHandler registers every route and applies the request id and CORS wrappers.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(mux)
	site.Register(ctx, mux)
	return api.RequestID(api.CORS(cfg.CORSAllowedOrigins)(mux))
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
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

// startReloader re-reads the dataset every interval. Failures keep the
// current dataset.
func startReloader(ctx context.Context, svc *app.Service, interval time.Duration, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Reload(ctx); err != nil {
				log.Warn(ctx, "periodic reload failed; keeping current dataset", logger.Error(err))
			}
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
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
