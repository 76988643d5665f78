package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-donorsync/internal/api"
	"go-donorsync/internal/config"
	"go-donorsync/internal/crm"
	"go-donorsync/internal/database"
	"go-donorsync/internal/features/audit"
	"go-donorsync/internal/features/batch"
	"go-donorsync/internal/features/events"
	"go-donorsync/internal/features/mirror"
	"go-donorsync/internal/features/reconcile"
	"go-donorsync/internal/logger"
	"go-donorsync/internal/middleware"
	"go-donorsync/internal/platform"
	"go-donorsync/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Outbound clients share one rate limiter
			platform.NewLimiter,
			platform.NewClient,
			crm.NewClient,

			audit.NewAuditRepository,
			events.NewEventRepository,
			batch.NewSyncRunRepository,

			audit.NewAuditService,
			reconcile.NewReconcileService,
			mirror.NewEventMirror,
			events.NewEventService,
			batch.NewSyncService,

			events.NewEventController,
			batch.NewSyncController,
			audit.NewAuditController,

			AsRoute(events.NewEventApi),
			AsRoute(batch.NewSyncApi),
			AsRoute(audit.NewAuditApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, syncService batch.SyncService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return syncService.StartScheduler()
					},
					OnStop: func(ctx context.Context) error {
						syncService.StopScheduler()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
