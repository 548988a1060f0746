// cmd/gateway/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"careercompass-workers/internal/catalog"
	"careercompass-workers/internal/common/camunda"
	"careercompass-workers/internal/common/config"
	"careercompass-workers/internal/common/database"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/gateway"
	"careercompass-workers/internal/results"
	"careercompass-workers/internal/session"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting gateway...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	redis, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis connection failed", zap.Error(err))
	}
	defer redis.Close()
	if err := redis.Ping(ctx); err != nil {
		zapLog.Fatal("redis ping failed", zap.Error(err))
	}

	zeebe, err := camunda.NewClient(cfg.Camunda.BrokerAddress)
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	defer zeebe.Close()

	catalogStore := catalog.NewStore(pg.DB, redis.Client,
		time.Duration(cfg.Matching.CatalogCacheTTL)*time.Second, log)
	progressStore := session.NewProgressStore(redis.Client, cfg.Assessment.ProgressTTL())
	resultStore := results.NewStore(pg.DB)

	server := gateway.NewServer(cfg, catalogStore, progressStore, resultStore, zeebe, log)

	go func() {
		if err := server.Start(); err != nil {
			zapLog.Fatal("gateway server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping gateway...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Gateway.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("gateway shutdown failed", zap.Error(err))
	}

	zapLog.Info("Gateway stopped gracefully")
}
