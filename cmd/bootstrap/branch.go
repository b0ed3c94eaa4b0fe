package bootstrap

import (
	"coupon-manager/internal/domain/branch"
	"coupon-manager/internal/pkg/config"

	"go.uber.org/fx"
)

var BranchModule = fx.Module("branch",
	fx.Provide(
		NewBranchDirectory,
	),
)

func NewBranchDirectory(cfg config.Config) (*branch.Directory, error) {
	return branch.NewDirectory(cfg.Branch.Secrets)
}
