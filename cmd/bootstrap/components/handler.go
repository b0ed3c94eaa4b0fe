package components

import (
	"coupon-manager/internal/handler"
	"coupon-manager/internal/handler/api"
	"coupon-manager/internal/handler/middleware"
	"coupon-manager/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewCookieConfig,
		api.NewAuthHandler,
		api.NewCouponHandler,
		api.NewTemplateHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewCookieConfig(cfg config.Config) config.CookieConfig {
	return cfg.Cookie
}
