package migration

import (
	"context"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"storefront/pkg/config"
	"storefront/pkg/logger"
)

var Module = fx.Options(
	fx.Invoke(New),
)

type Params struct {
	fx.In
	Logger logger.Logger
	Config config.IConfig
}

// New applies pending migrations before the server starts. Returning the
// error aborts fx startup.
func New(p Params) error {
	ctx := context.TODO()

	if p.Config.GetBool("database.skip_migration") {
		p.Logger.Info(ctx, "migrations skipped by config")
		return nil
	}

	m, err := migrate.New(p.Config.GetString("database.migration_source"), p.Config.GetString("database.migration"))
	if err != nil {
		p.Logger.Error(ctx, "err from migrate.New", zap.Error(err))
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		p.Logger.Error(ctx, "err from up migration", zap.Error(err))
		return err
	}

	p.Logger.Info(ctx, "migrations applied")
	return nil
}
