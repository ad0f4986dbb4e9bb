package postgres

import (
	cartrepo "storefront/pkg/repository/postgres/cart_repo"
	categoryrepo "storefront/pkg/repository/postgres/category_repo"
	productrepo "storefront/pkg/repository/postgres/product_repo"

	"go.uber.org/fx"
)

var Module = fx.Options(
	categoryrepo.Module,
	productrepo.Module,
	cartrepo.Module,
)
