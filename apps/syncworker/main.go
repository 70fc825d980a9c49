package main

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/insightrow/sheetsync/internal/audit"
	"github.com/insightrow/sheetsync/internal/clock"
	"github.com/insightrow/sheetsync/internal/config"
	"github.com/insightrow/sheetsync/internal/datasource"
	"github.com/insightrow/sheetsync/internal/logger"
	"github.com/insightrow/sheetsync/internal/metric"
	"github.com/insightrow/sheetsync/internal/migration"
	"github.com/insightrow/sheetsync/internal/sheets"
	syncsvc "github.com/insightrow/sheetsync/internal/sync"
	"github.com/insightrow/sheetsync/internal/tenant"
	"github.com/insightrow/sheetsync/pkg/db"
)

// syncworker runs periodic sync-all passes without serving HTTP.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		tenant.Module,
		datasource.Module,
		metric.Module,
		audit.Module,
		sheets.Module,
		syncsvc.Module,

		fx.Invoke(StartWorker),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func StartWorker(lc fx.Lifecycle, svc *syncsvc.Service, cfg config.Config, log *zap.Logger) {
	workerLog := log.Named("syncworker")

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go runForever(ctx, svc, cfg, workerLog)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func runForever(ctx context.Context, svc *syncsvc.Service, cfg config.Config, log *zap.Logger) {
	if cfg.SyncAccessToken == "" {
		log.Warn("SYNC_ACCESS_TOKEN is not set, passes will fail until it is provided")
	}

	log.Info("sync worker started", zap.Duration("interval", cfg.SyncInterval))
	runPass(ctx, svc, cfg, log)

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("sync worker stopped")
			return
		case <-ticker.C:
			runPass(ctx, svc, cfg, log)
		}
	}
}

func runPass(ctx context.Context, svc *syncsvc.Service, cfg config.Config, log *zap.Logger) {
	results, err := svc.SyncAll(ctx, cfg.SyncAccessToken)
	if err != nil {
		log.Error("sync pass failed", zap.Error(err))
		return
	}

	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
	}
	log.Info("sync pass finished",
		zap.Int("tenants", len(results)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)
}
