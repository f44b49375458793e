package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interiorai/internal/infra"
	"interiorai/internal/infra/credentials"
	"interiorai/internal/metrics"
	"interiorai/internal/providers/replicate"
)

// watcher periodically compares pinned model versions with the registry.
type watcher struct {
	ctx      context.Context
	lookup   replicate.VersionLookup
	logger   infra.Logger
	metrics  *metrics.Collector
	interval time.Duration
}

func main() {
	infra.LoadDotEnv()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "versionwatch")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey := cfg.ReplicateAPIKey
	if apiKey == "" && cfg.DatabaseURL != "" {
		apiKey = storedKey(ctx, cfg.DatabaseURL, &logger)
	}
	if apiKey == "" {
		logger.Fatal().Msg("versionwatch: REPLICATE_API_KEY is required")
	}

	m := metrics.NewCollector()
	client := replicate.NewClient(replicate.Options{
		APIKey:  apiKey,
		BaseURL: cfg.ReplicateBaseURL,
		Logger:  &logger,
		Metrics: m,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := infra.NewMetricsServer(cfg, mux)
	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("versionwatch: serving metrics")
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("versionwatch: metrics server failed")
		}
	}()

	w := &watcher{ctx: ctx, lookup: client, logger: logger, metrics: m, interval: cfg.VersionWatchInterval}
	if err := w.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("versionwatch: stopped with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info().Msg("versionwatch: stopped")
}

// storedKey reads the Replicate key from the credentials table. Any failure
// is logged and yields "".
func storedKey(ctx context.Context, databaseURL string, logger *infra.Logger) string {
	pool, err := infra.NewDBPool(ctx, databaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("versionwatch: database unavailable")
		return ""
	}
	defer pool.Close()
	key, err := credentials.NewStore(infra.NewSQLRunner(pool, logger)).Token(ctx, credentials.ProviderReplicate)
	if err != nil {
		logger.Warn().Err(err).Msg("versionwatch: failed to load replicate key from store")
		return ""
	}
	return key
}

func (w *watcher) Run() error {
	w.logger.Info().Dur("interval", w.interval).Msg("versionwatch: started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.check()
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *watcher) check() {
	for _, d := range replicate.CheckDrift(w.ctx, w.lookup, replicate.Catalog) {
		if d.Err != nil {
			w.logger.Error().Err(d.Err).Str("model", d.Ref.Key()).Msg("versionwatch: lookup failed")
			continue
		}
		w.metrics.SetVersionDrift(d.Ref.Key(), d.Drifted())
		if d.Drifted() {
			w.logger.Warn().
				Str("model", d.Ref.Key()).
				Str("pinned", d.Ref.Pinned).
				Str("latest", d.Latest).
				Bool("dynamic", d.Ref.Dynamic).
				Msg("versionwatch: pinned version is behind the registry")
			continue
		}
		w.logger.Debug().Str("model", d.Ref.Key()).Msg("versionwatch: pinned version current")
	}
}
