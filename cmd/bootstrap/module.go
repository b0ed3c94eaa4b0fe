package bootstrap

import (
	"coupon-manager/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	BranchModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
