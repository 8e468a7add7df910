// Server entrypoint: config, Postgres, Redis, migrations, router, graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pontifex/fieldops/internal/config"
	"github.com/pontifex/fieldops/internal/db"
	"github.com/pontifex/fieldops/internal/inventory"
	"github.com/pontifex/fieldops/internal/jobs"
	"github.com/pontifex/fieldops/internal/migrations"
	"github.com/pontifex/fieldops/internal/notify"
	"github.com/pontifex/fieldops/internal/operators"
	"github.com/pontifex/fieldops/internal/redis"
	"github.com/pontifex/fieldops/internal/router"
	"github.com/pontifex/fieldops/internal/security"
	"github.com/pontifex/fieldops/internal/standby"
	"github.com/pontifex/fieldops/internal/timecards"
	"github.com/pontifex/fieldops/internal/workflow"
)

func main() {
	// .env from the current dir or a parent (go run from cmd/server works too).
	config.LoadDotEnvUp(3)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer db.Close(pool)

	// Migrations run at startup (Go-native, ordered, schema_version table).
	if err := migrations.NewRunner(pool).Up(ctx); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer redis.Close(rdb)

	jwtm := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.AccessTTL, cfg.Security.RefreshTTL)

	operatorStore := operators.NewStore(pool)
	jobStore := jobs.NewStore(pool)
	progressStore := workflow.NewStore(pool)
	timecardStore := timecards.NewStore(pool)
	standbyStore := standby.NewStore(pool)
	inventoryStore := inventory.NewStore(pool)

	var sender notify.Sender = notify.LogSender{Logger: logger}
	if cfg.Notify.GatewayToken != "" {
		sender = notify.NewGatewayClient(cfg.Notify.GatewayURL, cfg.Notify.GatewayToken, cfg.Notify.Sender)
	}
	dispatcher := notify.NewDispatcher(sender, rdb, cfg.Notify.DedupeTTL, logger)

	workflowSvc := workflow.NewService(progressStore, dispatcher, standbyStore, timecardStore, logger)

	r := router.New(router.Dependencies{
		Logger:    logger,
		Security:  cfg.Security,
		Redis:     rdb,
		JWT:       jwtm,
		Operators: operatorStore,
		Jobs:      jobStore,
		Workflow:  workflowSvc,
		Timecards: timecardStore,
		Standby:   standbyStore,
		Inventory: inventoryStore,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
