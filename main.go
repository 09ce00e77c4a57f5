package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/handler"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/middleware"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/redis"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/service"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/views"
	"go.uber.org/zap"
)

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeoutDuration("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeoutDuration("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeoutDuration("write_timeout", 10*time.Second),
		IdleTimeout:       config.GetServerTimeoutDuration("idle_timeout", 30*time.Second),
	}
}

// logQuota reports today's geocoding usage, or warns when the counter is unreachable.
func logQuota(ctx context.Context, log *zap.SugaredLogger) {
	if err := redis.Ping(ctx); err != nil {
		log.Warnw("Redis unavailable, geocoding quota will not be enforced", "addr", config.GetRedisAddr(), "error", err)
		return
	}
	quota := redis.NewDailyQuotaFromConfig()
	if quota == nil {
		return
	}
	used, err := quota.Used(ctx)
	if err != nil {
		log.Warnw("Could not read geocoding quota", "error", err)
		return
	}
	log.Infow("Geocoding quota", "used", used, "limit", quota.Limit())
}

func main() {
	log := config.GetLogger()
	defer log.Sync()

	if err := views.LoadTemplates(); err != nil {
		log.Fatalw("Could not load templates", "error", err)
	}
	if config.GetOpenCageAPIKey() == "" {
		log.Warn("OPENCAGE_KEY is not set; every geocoding call will be rejected upstream")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.GetGeocodingDailyQuota() > 0 {
		logQuota(ctx, log)
	}

	limiter := middleware.NewRateLimiter(middleware.ConfigFromViper())
	limiter.StartCleanup(ctx)

	calculator := handler.NewCalculatorHandler(service.NewCalculatorService(nil, nil))
	srv := newServer(handler.NewRouter(calculator, limiter))

	go func() {
		log.Infof("AC temperature advisor running on port %s", config.GetServerPort())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("ListenAndServe failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetServerTimeoutDuration("shutdown_timeout", 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	if c := redis.GetClient(); c != nil {
		_ = c.Close()
	}
	log.Info("Shutdown complete")
}
