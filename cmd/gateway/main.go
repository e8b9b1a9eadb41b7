package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/careops/frontdesk/internal/api/router"
	"github.com/careops/frontdesk/internal/availability"
	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/config"
	"github.com/careops/frontdesk/internal/draft"
	"github.com/careops/frontdesk/internal/http/handlers"
	"github.com/careops/frontdesk/internal/observability/metrics"
	"github.com/careops/frontdesk/internal/session"
	"github.com/careops/frontdesk/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting frontdesk gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.BackendBaseURL,
	)

	if cfg.SessionSecret == "" {
		logger.Error("SESSION_SECRET is required")
		os.Exit(1)
	}

	client := backend.NewClient(cfg.BackendBaseURL, backend.WithLogger(logger))
	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionCookie, cfg.SessionTTL, cfg.SecureCookies)

	var drafts draft.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		drafts = draft.NewRedisStore(rdb, cfg.DraftTTL)
		logger.Info("using redis draft store", "addr", cfg.RedisAddr)
	} else {
		drafts = draft.NewMemoryStore(cfg.DraftTTL)
		logger.Info("using in-memory draft store")
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	fetcher := availability.NewFetcher(client, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		Auth:               handlers.NewAuthHandler(client, codec, logger),
		PublicBooking:      handlers.NewPublicBookingHandler(client, drafts, fetcher, bookingMetrics, logger),
		PublicLinks:        handlers.NewPublicLinkHandler(client, fetcher, bookingMetrics, logger),
		PublicForms:        handlers.NewPublicFormsHandler(client, logger),
		Bookings:           handlers.NewBookingsHandler(client, bookingMetrics, cfg.LoginRedirect, logger),
		Leads:              handlers.NewLeadsHandler(client, cfg.LoginRedirect, logger),
		Inventory:          handlers.NewInventoryHandler(client, cfg.LoginRedirect, logger),
		Inbox:              handlers.NewInboxHandler(client, cfg.LoginRedirect, logger),
		Forms:              handlers.NewFormsHandler(client, cfg.LoginRedirect, logger),
		Admin:              handlers.NewAdminHandler(client, prometheus.DefaultGatherer, cfg.LoginRedirect, logger),
		SessionCodec:       codec,
		LoginPath:          cfg.LoginRedirect,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		PublicRateLimit:    cfg.PublicRateLimit,
		PublicRateWindow:   cfg.PublicRateWindow,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
