package categoryrepo

import (
	"context"
	"errors"

	"storefront/internal/structs"
	"storefront/pkg/db"
	"storefront/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
	}

	Repo interface {
		GetList(ctx context.Context, onlyActive bool) ([]structs.Category, error)
		GetBySlug(ctx context.Context, slug string) (structs.Category, error)
	}

	repo struct {
		logger logger.Logger
		db     db.Querier
	}
)

func New(p Params) Repo {
	return &repo{
		logger: p.Logger,
		db:     p.DB,
	}
}

const selectCategory = `
	SELECT
		id,
		name,
		slug,
		description,
		image,
		parent_id,
		is_active,
		created_at,
		updated_at
	FROM categories
`

func scanCategory(row pgx.Row) (c structs.Category, err error) {
	err = row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Image,
		&c.ParentID,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *repo) GetList(ctx context.Context, onlyActive bool) ([]structs.Category, error) {
	query := selectCategory + ` WHERE ($1 = FALSE OR is_active) ORDER BY name`

	rows, err := r.db.Query(ctx, query, onlyActive)
	if err != nil {
		r.logger.Error(ctx, "err on r.db.Query", zap.Error(err))
		return nil, structs.StoreFailure("query categories", err)
	}
	defer rows.Close()

	list := []structs.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error(ctx, "err on rows.Scan", zap.Error(err))
			return nil, structs.StoreFailure("scan category", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, structs.StoreFailure("iterate categories", err)
	}
	return list, nil
}

func (r *repo) GetBySlug(ctx context.Context, slug string) (structs.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, selectCategory+` WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Category{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "error querying row", zap.Error(err))
		return structs.Category{}, structs.StoreFailure("get category by slug", err)
	}
	return c, nil
}
