package internal

import (
	"storefront/internal/cart"
	"storefront/internal/category"
	"storefront/internal/checkout"
	"storefront/internal/guestcart"
	"storefront/internal/payment/stripe"
	"storefront/internal/product"
	"storefront/internal/unifiedcart"

	"go.uber.org/fx"
)

var Module = fx.Options(
	category.Module,
	product.Module,
	cart.Module,
	guestcart.Module,
	unifiedcart.Module,
	stripe.Module,
	checkout.Module,
)
