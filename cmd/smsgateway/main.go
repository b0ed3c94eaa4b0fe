package main

import (
	"context"
	"log/slog"
	"os"

	"coupon-manager/internal/gateway"
	"coupon-manager/internal/handler/middleware"
	"coupon-manager/internal/infra/db"
	repo_impl "coupon-manager/internal/infra/repository"
	"coupon-manager/internal/pkg/clock"
	"coupon-manager/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func init() {
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

func newDB(lc fx.Lifecycle, cfg gateway.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg gateway.Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			listenAddr := ":" + cfg.Server.Port
			logger.Info("starting sms gateway", "address", listenAddr, "mode", gin.Mode())
			go func() {
				if err := engine.Run(listenAddr); err != nil {
					logger.Error("sms gateway failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("stopping sms gateway")
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			gateway.LoadConfig,
			newDB,
			clock.NewRealClock,
			func(cfg gateway.Config) *slog.Logger {
				logger := middleware.NewLogger(cfg.Log)
				return logger.GetSlogLogger()
			},
			func(pool *pgxpool.Pool) queries.TemplateReadStore {
				return repo_impl.NewTemplateRepository(pool)
			},
			queries.NewTemplateQueries,
			func(cfg gateway.Config, clk clock.Clock) *gateway.Sender {
				return gateway.NewSender(cfg.Solapi, clk)
			},
			gateway.NewHandler,
			func() *gin.Engine {
				engine := gin.New()
				engine.Use(gin.Recovery())
				return engine
			},
		),
		fx.Invoke(
			gateway.NewRouter,
			startServer,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start sms gateway", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop sms gateway cleanly", "error", err)
	}

	slog.Info("sms gateway stopped")
}
