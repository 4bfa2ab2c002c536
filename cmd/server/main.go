package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/lrscard/currency-service/internal/application/service"
	"github.com/lrscard/currency-service/internal/domain/currency"
	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/lrscard/currency-service/internal/domain/repository"
	"github.com/lrscard/currency-service/internal/infrastructure/api"
	"github.com/lrscard/currency-service/internal/infrastructure/cache"
	"github.com/lrscard/currency-service/internal/infrastructure/config"
	"github.com/lrscard/currency-service/internal/infrastructure/factory"
	"github.com/lrscard/currency-service/internal/infrastructure/handler"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"github.com/lrscard/currency-service/internal/infrastructure/metrics"
	"github.com/lrscard/currency-service/internal/infrastructure/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)
	log.Info("Starting currency exchange rate service", nil)

	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	rateCache, cleanup, err := buildRateCache(cfg.Cache, log)
	if err != nil {
		log.Error("Failed to initialize rate cache", map[string]interface{}{
			"backend": cfg.Cache.Backend,
			"error":   err.Error(),
		})
		os.Exit(1)
	}
	defer cleanup()

	policy := currency.NewPolicy(cfg.CurrencyRules.ValidCurrencyCodes, cfg.CurrencyRules.BlockedCurrencyCodes)

	// Upstream providers, each wrapped with retry and circuit breaking.
	frankfurter := api.NewFrankfurterClient(cfg.Frankfurter.BaseURL, cfg.Frankfurter.Timeout, log)
	resilient := api.NewResilientProvider("frankfurter", frankfurter, api.ResiliencyConfig{
		RetryCount:              cfg.Resiliency.RetryCount,
		BackoffBase:             cfg.Resiliency.BackoffBaseSeconds,
		BackoffUnit:             time.Second,
		BreakerFailureThreshold: cfg.Resiliency.BreakerFailureThreshold,
		BreakerOpenDuration:     cfg.Resiliency.BreakerOpenDuration,
	}, m, log)

	providers := factory.NewProviderFactory()
	providers.Register(provider.TypeFrankfurter, resilient)

	rateService := service.NewCurrencyExchangeRateService(providers, rateCache, policy, m, log)

	rateHandler := handler.NewExchangeRateHandler(rateService, policy, m, log)
	authHandler := handler.NewAuthHandler(cfg.Jwt, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware(m))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authRouter := router.PathPrefix("/api/v1/auth").Subrouter()
	rateRouter := router.PathPrefix("/api/v1/exchange-rates").Subrouter()

	if cfg.RateLimit.Enabled {
		defaultLimiter := middleware.NewClientRateLimiter(cfg.RateLimit.Default.PermitLimit, cfg.RateLimit.Default.Window, log)
		anonymousLimiter := middleware.NewClientRateLimiter(cfg.RateLimit.Anonymous.PermitLimit, cfg.RateLimit.Anonymous.Window, log)
		rateRouter.Use(defaultLimiter.Middleware())
		authRouter.Use(anonymousLimiter.Middleware())
	}

	authHandler.RegisterRoutes(authRouter)

	rateRouter.Use(middleware.JWTAuthMiddleware(cfg.Jwt.Secret, log))
	rateHandler.RegisterRoutes(rateRouter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// buildRateCache constructs the configured cache backend and returns a
// cleanup function for its resources.
func buildRateCache(cfg config.CacheConfig, log logger.Logger) (repository.RateCache, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case "redis":
		c := cache.NewRedisRateCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.ExpirationDays, log)
		return c, func() {
			if err := c.Close(); err != nil {
				log.Error("Error closing redis cache", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}, nil
	case "badger":
		if err := os.MkdirAll(cfg.BadgerPath, 0755); err != nil {
			return nil, nil, err
		}
		opts := badger.DefaultOptions(cfg.BadgerPath)
		opts.Logger = nil // Disable Badger's default logger
		db, err := badger.Open(opts)
		if err != nil {
			return nil, nil, err
		}
		c := cache.NewBadgerRateCache(db, cfg.TTL, log)
		return c, func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing badger cache", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}, nil
	default:
		c := cache.NewMemoryRateCache(cfg.TTL, log)
		stop := make(chan struct{})
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if removed := c.CleanExpired(); removed > 0 {
						log.Debug("Expired rate cache entries removed", map[string]interface{}{
							"count": removed,
						})
					}
				case <-stop:
					return
				}
			}
		}()
		return c, func() { close(stop) }, nil
	}
}
