package handlers

import (
	"storefront/apps/gateway/handlers/cart"
	"storefront/apps/gateway/handlers/category"
	"storefront/apps/gateway/handlers/checkout"
	"storefront/apps/gateway/handlers/health"
	"storefront/apps/gateway/handlers/middleware"
	"storefront/apps/gateway/handlers/product"

	"go.uber.org/fx"
)

var Module = fx.Options(
	middleware.Module,
	category.Module,
	product.Module,
	cart.Module,
	checkout.Module,
	health.Module,
)
