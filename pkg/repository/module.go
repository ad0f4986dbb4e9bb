package repository

import (
	"go.uber.org/fx"

	"storefront/pkg/repository/postgres"
)

var Module = fx.Options(
	postgres.Module,
)
