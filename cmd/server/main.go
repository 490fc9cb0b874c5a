// main wires the server: config, logging, metrics, stores, the request
// defense pipeline, and the auth gate. Business logic lives in the internal
// services packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"euromillones/internal/auth"
	"euromillones/internal/combinations"
	"euromillones/internal/platform/config"
	"euromillones/internal/platform/database"
	"euromillones/internal/platform/logger"
	"euromillones/internal/platform/metrics"
	"euromillones/internal/ratelimit"
	"euromillones/internal/results"
	httptransport "euromillones/internal/transport/http"
	"euromillones/internal/users"
	"euromillones/internal/validation"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("initializing euromillones api",
		"addr", cfg.Addr,
		"rate_limit_max", cfg.RateLimitMax,
		"rate_limit_window", cfg.RateLimitWindow.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	} else {
		log.Warn("no database configured, using in-memory stores")
	}

	m := metrics.New()

	var (
		userStore        users.Store
		combinationStore combinations.Store
		resultStore      results.Store
		credentialStore  auth.CredentialStore
	)
	if pool != nil {
		userStore = users.NewPostgresStore(pool)
		combinationStore = combinations.NewPostgresStore(pool)
		resultStore = results.NewPostgresStore(pool)
		credentialStore = auth.NewPostgresCredentialStore(pool)
	} else {
		memUsers := users.NewInMemoryStore()
		memCombinations := combinations.NewInMemoryStore()
		memUsers.OnDelete(func(userID int) {
			_ = memCombinations.DeleteByUser(context.Background(), userID)
		})
		userStore = memUsers
		combinationStore = memCombinations
		resultStore = results.NewInMemoryStore()
		credentialStore = auth.NewInMemoryCredentialStore()
	}

	userService := users.NewService(userStore, log)
	combinationService := combinations.NewService(combinationStore, userService, log)
	resultService := results.NewService(resultStore, log)

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequests: cfg.RateLimitMax,
		Window:      cfg.RateLimitWindow,
	})
	reaper := ratelimit.NewReaper(limiter, log,
		ratelimit.WithInterval(cfg.RateLimitReapInt),
		ratelimit.WithMetrics(m),
	)

	sanitizer := validation.NewSanitizer(log)
	pipeline := validation.NewPipeline(limiter, sanitizer, log,
		validation.WithMaxPayloadBytes(cfg.MaxPayloadBytes),
		validation.WithMetrics(m),
	)

	verifier := auth.NewVerifier(credentialStore, log, auth.WithMetrics(m))
	gate := auth.NewGate(verifier, auth.NewBinder(), pool, log)

	handler := httptransport.NewHandler(
		userService, combinationService, resultService, sanitizer, pool, log)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Handler:        handler,
		Pipeline:       pipeline,
		Gate:           gate,
		Logger:         log,
		Metrics:        m,
		RequestTimeout: cfg.RequestTimeout,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reaper.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
