// cmd/site-api/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"site-integrations/internal/api"
	"site-integrations/internal/common/cache"
	"site-integrations/internal/common/config"
	"site-integrations/internal/common/database"
	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/observability"
	"site-integrations/internal/content"
	"site-integrations/internal/crm"
	"site-integrations/internal/leads"
	"site-integrations/internal/notifications"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	for _, w := range cfg.Warnings {
		zapLog.Warn("config value ignored", zap.String("reason", w))
	}

	zapLog.Info("Starting site API...",
		zap.String("environment", cfg.App.Environment),
		zap.String("cmsProvider", cfg.CMS.Provider),
		zap.String("crmProvider", cfg.CRM.Provider),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel meter unavailable, request metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()
	readyChecks := map[string]api.ReadinessCheck{}

	// --- PostgreSQL (relational content + contacts) ---
	var db *sql.DB
	if cfg.Database.Postgres.Configured() {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres open failed", zap.Error(err))
		}
		defer pg.Close()

		err = retryWithBackoff(func() error {
			return pg.Ping(ctx)
		}, 5, time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Error("postgres unreachable, serving degraded", zap.Error(err))
		} else {
			zapLog.Info("PostgreSQL connected successfully")
		}
		db = pg.DB
		readyChecks["postgres"] = pg.Ping
	} else {
		zapLog.Warn("DATABASE_URL not set, relational content and contact storage unavailable")
	}

	// --- Redis (CMS response cache) ---
	var responseCache cache.Cache = cache.NewNoop()
	if rc := database.NewRedis(cfg.Database.Redis); rc != nil {
		defer rc.Close()
		if err := database.PingRedis(ctx, rc); err != nil {
			zapLog.Warn("redis unreachable, CMS responses will not be cached", zap.Error(err))
		} else {
			redisCache := cache.NewRedis(rc)
			responseCache = redisCache
			readyChecks["redis"] = redisCache.Ping
			zapLog.Info("Redis connected successfully")
		}
	}

	httpClient := httpx.NewClient(config.GetDuration(cfg.HTTP.Timeout))

	gateway := content.NewGateway(content.GatewayOptions{
		Config:     cfg.CMS,
		DB:         db,
		HTTPClient: httpClient,
		Cache:      responseCache,
		Logger:     log,
	})

	crmFactory := crm.NewFactory(crm.FactoryOptions{
		Config:     cfg.CRM,
		HTTPClient: httpClient,
		Logger:     log,
	})
	// Resolve once at start-up so credential warnings show in the boot log.
	crmFactory.Adapter()

	notifier, err := notifications.New(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Warn("team notifications unavailable", zap.Error(err))
		notifier = notifications.Noop{}
	}

	var repo leads.Repository
	if db != nil {
		repo = leads.NewPostgresRepository(db)
	}
	leadService := leads.NewService(leads.ServiceOptions{
		Repository: repo,
		Notifier:   notifier,
		CRM:        crmFactory,
		DealTitle:  cfg.CRM.DealTitle,
		Logger:     log,
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(api.Options{
		Content:          gateway,
		Leads:            leadService,
		RevalidateSecret: cfg.CMS.RevalidateSecret,
		Version:          cfg.App.Version,
		ReadyChecks:      readyChecks,
		Observability:    obs,
		Logger:           log,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	zapLog.Info("Site API stopped")
}
