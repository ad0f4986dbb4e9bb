package pkg

import (
	"go.uber.org/fx"

	"storefront/pkg/cache"
	"storefront/pkg/config"
	"storefront/pkg/db"
	"storefront/pkg/logger"
	"storefront/pkg/migration"
	"storefront/pkg/redis"
	"storefront/pkg/reply"
	"storefront/pkg/repository"
	"storefront/pkg/sessionstore"
)

var Module = fx.Options(
	config.Module,
	logger.Module,
	migration.Module,
	repository.Module,
	db.Module,
	cache.Module,
	reply.Module,
	redis.Module,
	sessionstore.Module,
)
