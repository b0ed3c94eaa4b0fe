package components

import (
	"coupon-manager/internal/infra/notification"
	repo_impl "coupon-manager/internal/infra/repository"
	"coupon-manager/internal/pkg/config"
	"coupon-manager/internal/usecase/commands"
	"coupon-manager/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		NewTxStarter,
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
			fx.As(new(queries.CouponReadStore)),
		),
		fx.Annotate(
			repo_impl.NewEventRepository,
			fx.As(new(commands.EventRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			repo_impl.NewTemplateRepository,
			fx.As(new(commands.TemplateRepository)),
			fx.As(new(queries.TemplateReadStore)),
		),
		fx.Annotate(
			NewNotificationClient,
			fx.As(new(commands.Notifier)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) repo_impl.DBTX {
	return pool
}

func NewTxStarter(pool *pgxpool.Pool) repo_impl.TxStarter {
	return pool
}

func NewNotificationClient(cfg config.Config) *notification.Client {
	return notification.NewClient(cfg.Notify)
}
