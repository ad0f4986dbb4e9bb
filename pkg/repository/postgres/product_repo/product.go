package productrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

	// Filter is applied as given; the catalog service decides precedence
	// between search and category.
	Filter struct {
		Skip       int64
		Take       int64
		CategoryID string
		Search     string
	}

	Repo interface {
		GetList(ctx context.Context, filter Filter) ([]structs.Product, int64, error)
		GetBySlug(ctx context.Context, slug string) (structs.Product, error)
		GetFeatured(ctx context.Context, limit int64) ([]structs.Product, error)
		GetActiveByIDs(ctx context.Context, ids []string) ([]structs.Product, error)
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

// activeVariants restricts the variant aggregate to active rows.
const (
	allVariants    = "TRUE"
	activeVariants = "v.is_active"
)

func productSelect(variantFilter string) string {
	return fmt.Sprintf(`
		SELECT
			p.id,
			p.name,
			p.slug,
			p.description,
			p.price,
			p.compare_at_price,
			p.category_id,
			p.images,
			p.inventory,
			p.is_active,
			p.is_featured,
			p.created_at,
			p.updated_at,
			CASE WHEN c.id IS NULL THEN NULL ELSE JSONB_BUILD_OBJECT(
				'id', c.id,
				'name', c.name,
				'slug', c.slug,
				'description', c.description,
				'image', c.image,
				'parent_id', c.parent_id,
				'is_active', c.is_active,
				'created_at', c.created_at,
				'updated_at', c.updated_at
			) END AS category,
			COALESCE((
				SELECT JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', v.id,
						'product_id', v.product_id,
						'name', v.name,
						'sku', v.sku,
						'price', v.price,
						'inventory', v.inventory,
						'is_active', v.is_active
					) ORDER BY v.price, v.name
				)
				FROM product_variants v
				WHERE v.product_id = p.id AND %s
			), '[]') AS variants
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
	`, variantFilter)
}

func scanProduct(row pgx.Row) (p structs.Product, err error) {
	err = row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.CompareAtPrice,
		&p.CategoryID,
		&p.Images,
		&p.Inventory,
		&p.IsActive,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Category,
		&p.Variants,
	)
	return p, err
}

func (r *repo) collect(ctx context.Context, query string, args ...interface{}) ([]structs.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error(ctx, "err on r.db.Query", zap.Error(err))
		return nil, structs.StoreFailure("query products", err)
	}
	defer rows.Close()

	list := []structs.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error(ctx, "err on rows.Scan", zap.Error(err))
			return nil, structs.StoreFailure("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error(ctx, "err on rows iteration", zap.Error(err))
		return nil, structs.StoreFailure("iterate products", err)
	}
	return list, nil
}

func (r *repo) GetList(ctx context.Context, filter Filter) ([]structs.Product, int64, error) {
	r.logger.Info(ctx, "GetList Product", zap.Any("filter", filter))

	where := []string{"p.is_active"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argID, argID))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argID++
	}
	if filter.CategoryID != "" {
		where = append(where, fmt.Sprintf("p.category_id = $%d", argID))
		args = append(args, filter.CategoryID)
		argID++
	}
	whereSQL := "WHERE " + strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM products p ` + whereSQL
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error(ctx, "err on count products", zap.Error(err))
		return nil, 0, structs.StoreFailure("count products", err)
	}

	query := productSelect(allVariants) + whereSQL +
		fmt.Sprintf(" ORDER BY p.created_at DESC, p.id LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, filter.Take, filter.Skip)

	list, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetBySlug returns the product whatever its active flag; callers decide
// whether an inactive product is displayable.
func (r *repo) GetBySlug(ctx context.Context, slug string) (structs.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect(allVariants)+" WHERE p.slug = $1", slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Product{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "error querying row", zap.Error(err))
		return structs.Product{}, structs.StoreFailure("get product by slug", err)
	}

	if p.Tags, err = r.tags(ctx, p.ID); err != nil {
		return structs.Product{}, err
	}
	if p.Reviews, err = r.reviews(ctx, p.ID); err != nil {
		return structs.Product{}, err
	}
	return p, nil
}

func (r *repo) GetFeatured(ctx context.Context, limit int64) ([]structs.Product, error) {
	query := productSelect(allVariants) + `
		WHERE p.is_active AND p.is_featured
		ORDER BY p.created_at DESC, p.id
		LIMIT $1
	`
	return r.collect(ctx, query, limit)
}

// GetActiveByIDs loads active products with only their active variants.
func (r *repo) GetActiveByIDs(ctx context.Context, ids []string) ([]structs.Product, error) {
	if len(ids) == 0 {
		return []structs.Product{}, nil
	}
	query := productSelect(activeVariants) + `
		WHERE p.id = ANY($1) AND p.is_active
	`
	return r.collect(ctx, query, ids)
}

func (r *repo) tags(ctx context.Context, productID string) ([]structs.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.slug
		FROM product_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.product_id = $1
		ORDER BY t.name
	`, productID)
	if err != nil {
		r.logger.Error(ctx, "err on query tags", zap.Error(err))
		return nil, structs.StoreFailure("query tags", err)
	}
	defer rows.Close()

	tags := []structs.Tag{}
	for rows.Next() {
		var t structs.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, structs.StoreFailure("scan tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, structs.StoreFailure("iterate tags", err)
	}
	return tags, nil
}

func (r *repo) reviews(ctx context.Context, productID string) ([]structs.Review, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.rating, r.title, r.comment, r.user_id, COALESCE(u.name, ''), COALESCE(u.image, ''), r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
	`, productID)
	if err != nil {
		r.logger.Error(ctx, "err on query reviews", zap.Error(err))
		return nil, structs.StoreFailure("query reviews", err)
	}
	defer rows.Close()

	reviews := []structs.Review{}
	for rows.Next() {
		var rv structs.Review
		err := rows.Scan(&rv.ID, &rv.Rating, &rv.Title, &rv.Comment, &rv.UserID, &rv.UserName, &rv.UserImage, &rv.CreatedAt)
		if err != nil {
			return nil, structs.StoreFailure("scan review", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, structs.StoreFailure("iterate reviews", err)
	}
	return reviews, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
