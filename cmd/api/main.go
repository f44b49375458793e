package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"interiorai/internal/design"
	"interiorai/internal/http/handlers"
	httpapi "interiorai/internal/http/httpapi"
	"interiorai/internal/infra"
	"interiorai/internal/infra/geoip"
	"interiorai/internal/infra/google"
	"interiorai/internal/metrics"
	"interiorai/internal/middleware"
)

func main() {
	infra.LoadDotEnv()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewCollector()

	backends := openBackends(ctx, cfg, &logger)
	defer backends.Close()

	stack, err := design.Wire(ctx, design.WireOptions{
		Config:      cfg,
		Logger:      &logger,
		Metrics:     m,
		Store:       backends.store,
		Credentials: backends.creds,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("api: pipeline setup failed")
	}

	var limiter middleware.Limiter = middleware.NewLocalLimiter(cfg.RateLimitPerMin)
	if cfg.RedisAddr != "" {
		rdb, err := infra.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn().Err(err).Msg("api: redis unavailable, rate limiting per instance")
		} else {
			defer func(c *redis.Client) { _ = c.Close() }(rdb)
			limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitPerMin)
		}
	}

	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("api: geoip disabled")
	}
	defer countries.Close()

	var verifiers []middleware.TokenVerifier
	if cfg.JWTSecret != "" {
		verifiers = append(verifiers, middleware.HMACVerifier{Secret: cfg.JWTSecret})
	}
	if cfg.FirebaseProjectID != "" {
		firebase := google.NewFirebaseVerifier(cfg.FirebaseProjectID)
		verifiers = append(verifiers, middleware.VerifierFunc(func(ctx context.Context, token string) (middleware.Principal, error) {
			id, err := firebase.VerifyIDToken(ctx, token)
			if err != nil {
				return middleware.Principal{}, err
			}
			return middleware.Principal{Subject: id.Subject}, nil
		}))
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Warn().Err(err).Msg("api: ignoring TRUSTED_PROXIES, forwarded headers are not trusted")
		proxies = nil
	}

	app := handlers.NewApp(stack.Service, cfg, &logger, m)
	router := httpapi.NewRouter(app, httpapi.Options{
		CORSOrigins:   cfg.CORSOrigins,
		Verifiers:     verifiers,
		DefaultLocale: "en",
		CountryLookup: countries.Lookup(),
		Limiter:       limiter,

		TrustedProxies: proxies,
	})

	server := infra.NewHTTPServer(cfg, router)
	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("api: listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: shutdown failed")
	}
	logger.Info().Msg("api: stopped")
}
