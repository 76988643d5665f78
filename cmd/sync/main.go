package main

import (
	"context"
	"log"

	"go-donorsync/internal/config"
	"go-donorsync/internal/crm"
	"go-donorsync/internal/database"
	"go-donorsync/internal/features/audit"
	"go-donorsync/internal/features/batch"
	"go-donorsync/internal/features/reconcile"
	"go-donorsync/internal/logger"
	"go-donorsync/internal/platform"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Runs one full platform backfill and exits
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			platform.NewLimiter,
			platform.NewClient,
			crm.NewClient,
			audit.NewAuditRepository,
			batch.NewSyncRunRepository,
			audit.NewAuditService,
			reconcile.NewReconcileService,
			batch.NewSyncService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(runSync),
	)

	app.Run()
}

func runSync(lc fx.Lifecycle, shutdowner fx.Shutdowner, syncService batch.SyncService, zapLogger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				run, err := syncService.RunFullSync(context.Background(), "cli")
				if err != nil {
					log.Printf("Full sync failed: %v", err)
				} else {
					for name, result := range run.Resources {
						zapLogger.Info("resource sync finished",
							zap.String("resource", name),
							zap.Int("processed", result.Processed),
							zap.Int("failed", result.Failed),
							zap.String("error", result.Error))
					}
					zapLogger.Info("full sync finished", zap.String("status", run.Status))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
