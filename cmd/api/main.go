package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/quote-api/internal/audit"
	"github.com/noah-isme/quote-api/internal/auth"
	"github.com/noah-isme/quote-api/internal/common"
	"github.com/noah-isme/quote-api/internal/config"
	"github.com/noah-isme/quote-api/internal/health"
	"github.com/noah-isme/quote-api/internal/lock"
	"github.com/noah-isme/quote-api/internal/obs"
	"github.com/noah-isme/quote-api/internal/promo"
	"github.com/noah-isme/quote-api/internal/ratelimit"
	"github.com/noah-isme/quote-api/internal/rates"
	"github.com/noah-isme/quote-api/internal/security"
	"github.com/noah-isme/quote-api/internal/shipping"
	"github.com/noah-isme/quote-api/internal/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "quotes")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "quote-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "quote-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	if envBool("DB_MIGRATE_ON_START", true) {
		source := envOrDefault("DB_MIGRATIONS_SOURCE", "file://db/migrations")
		if err := runMigrations(source, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	rateTables := rates.Default()

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authMiddleware := auth.Middleware{Service: authService}

	promoService := &promo.Service{
		Store:  promo.NewStore(pool),
		Cache:  promo.NewCache(redisClient, cfg.PromoCacheTTL),
		Lock:   &lock.Locker{R: redisClient},
		Logger: logger,
	}
	promoHandler := &promo.Handler{Svc: promoService, Logger: logger}
	promoAdmin := &promo.AdminHandler{
		Svc:         promoService,
		Validate:    validator.New(),
		Logger:      logger,
		DefaultPage: cfg.AdminDefaultPage,
	}

	auditStore := audit.NewStore(pool)
	auditRecorder := audit.HTTPRecorder{
		Service: audit.Service{Store: auditStore, Enabled: envBool("AUDIT_ENABLED", true)},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("record audit entry")
		},
	}
	auditHandler := &audit.Handler{Store: auditStore, DefaultPage: cfg.AdminDefaultPage}

	carriers := make([]shipping.Client, 0, len(cfg.Carriers))
	for _, carrier := range cfg.Carriers {
		carriers = append(carriers, shipping.NewHTTPCarrier(
			carrier.Name, carrier.BaseURL, carrier.APIKey,
			cfg.CarrierTimeout, cfg.CarrierAttempts,
		))
	}
	resolver := &shipping.Resolver{
		Carriers: carriers,
		Origin: shipping.Address{
			Street:     cfg.OriginStreet,
			City:       cfg.OriginCity,
			State:      cfg.OriginState,
			PostalCode: cfg.OriginPostal,
			Country:    cfg.OriginCountry,
		},
		Rates:   rateTables,
		Timeout: cfg.CarrierTimeout,
		Logger:  logger,
	}
	shippingHandler := &shipping.Handler{Resolver: resolver, Rates: rateTables, Logger: logger}
	taxHandler := &tax.Handler{Calc: tax.Calculator{Rates: rateTables}, Logger: logger}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	quoteLimiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "quotes:"},
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.QuoteRateWindow,
			Max:    cfg.QuoteRateMax,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limiter backend unavailable")
		},
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: envBool("SECURE_HSTS", false)}.Middleware)
	r.Use(security.BodyLimit{Max: envInt64("SECURE_MAX_BODY_BYTES", 1<<20)}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      health.Probes{DB: pool, Redis: redisClient},
		Carriers:     len(carriers),
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Group(func(q chi.Router) {
			q.Use(quoteLimiter.Middleware)
			q.Post("/shipping/calculate", shippingHandler.Calculate)
			q.Post("/tax/calculate", taxHandler.Calculate)
			q.Get("/promotions", promoHandler.List)
		})

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAuth)
			admin.Use(auth.RequireRole("admin"))
			admin.Get("/promotions", promoAdmin.List)
			admin.Get("/promotions/{id}", promoAdmin.Get)
			admin.Get("/audit", auditHandler.List)
			admin.Group(func(writes chi.Router) {
				writes.Use(idem.Middleware)
				writes.With(auditRecorder.Middleware("promotion.create", "")).
					Post("/promotions", promoAdmin.Create)
				writes.With(auditRecorder.Middleware("promotion.update", "id")).
					Put("/promotions/{id}", promoAdmin.Update)
				writes.With(auditRecorder.Middleware("promotion.delete", "id")).
					Delete("/promotions/{id}", promoAdmin.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drain, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(drain); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Int("carriers", len(carriers)).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func runMigrations(source, databaseURL string) error {
	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
