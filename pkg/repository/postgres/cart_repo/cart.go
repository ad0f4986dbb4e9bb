package cartrepo

import (
	"context"
	"errors"

	"storefront/internal/structs"
	"storefront/pkg/db"
	"storefront/pkg/logger"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
	}

	Repo interface {
		GetByUserID(ctx context.Context, userID string) ([]structs.CartItem, error)
		Add(ctx context.Context, userID string, req structs.AddCartItem) (structs.CartRow, error)
		UpdateQuantity(ctx context.Context, userID, id string, quantity int64) (structs.CartRow, error)
		Delete(ctx context.Context, userID, id string) (int64, error)
		Clear(ctx context.Context, userID string) error
		Count(ctx context.Context, userID string) (int64, error)
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

const rowColumns = `id, user_id, product_id, variant_id, quantity, created_at, updated_at`

func scanRow(row pgx.Row) (resp structs.CartRow, err error) {
	err = row.Scan(
		&resp.ID,
		&resp.UserID,
		&resp.ProductID,
		&resp.VariantID,
		&resp.Quantity,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	return resp, err
}

func (r repo) GetByUserID(ctx context.Context, userID string) ([]structs.CartItem, error) {
	query := `
		SELECT
			c.id,
			c.product_id,
			c.variant_id,
			c.quantity,
			c.created_at,
			p.name,
			p.slug,
			p.images,
			p.price,
			p.is_active,
			v.id,
			v.name,
			v.price,
			v.is_active
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		LEFT JOIN product_variants v ON v.id = c.variant_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC, c.id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error(ctx, "err on r.db.Query", zap.Error(err))
		return nil, structs.StoreFailure("get cart", err)
	}
	defer rows.Close()

	items := []structs.CartItem{}
	for rows.Next() {
		var (
			item          structs.CartItem
			product       structs.CartProduct
			variantID     *string
			variantName   *string
			variantPrice  decimal.NullDecimal
			variantActive *bool
		)
		err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.VariantID,
			&item.Quantity,
			&item.CreatedAt,
			&product.Name,
			&product.Slug,
			&product.Images,
			&product.Price,
			&product.IsActive,
			&variantID,
			&variantName,
			&variantPrice,
			&variantActive,
		)
		if err != nil {
			r.logger.Error(ctx, "err on rows.Scan", zap.Error(err))
			return nil, structs.StoreFailure("scan cart row", err)
		}

		product.ID = item.ProductID
		item.Product = &product
		if variantID != nil {
			item.Variant = &structs.CartVariant{
				ID:       *variantID,
				Name:     deref(variantName),
				Price:    variantPrice.Decimal,
				IsActive: variantActive != nil && *variantActive,
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error(ctx, "err on rows iteration", zap.Error(err))
		return nil, structs.StoreFailure("iterate cart rows", err)
	}

	return items, nil
}

// Add inserts the line or increments an existing one in a single statement.
// An increment past MaxLineQuantity leaves the row untouched and returns
// ErrValidation.
func (r repo) Add(ctx context.Context, userID string, req structs.AddCartItem) (structs.CartRow, error) {
	r.logger.Info(ctx, "Add cart item", zap.String("user_id", userID), zap.Any("req", req))
	query := `
		INSERT INTO cart_items (user_id, product_id, variant_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT cart_items_line_key
		DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity,
			updated_at = NOW()
		WHERE cart_items.quantity + EXCLUDED.quantity <= $5
		RETURNING ` + rowColumns

	resp, err := scanRow(r.db.QueryRow(ctx, query, userID, req.ProductID, req.VariantID, req.Quantity, structs.MaxLineQuantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn(ctx, "cart item quantity over the line cap", zap.String("product_id", req.ProductID))
			return structs.CartRow{}, structs.ErrValidation
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				r.logger.Warn(ctx, "cart item references missing product", zap.String("product_id", req.ProductID))
				return structs.CartRow{}, structs.ErrNotFound
			case pgerrcode.CheckViolation:
				r.logger.Warn(ctx, "cart item quantity out of range", zap.Int64("quantity", req.Quantity))
				return structs.CartRow{}, structs.ErrValidation
			}
		}
		r.logger.Error(ctx, "failed to add cart item", zap.Error(err))
		return structs.CartRow{}, structs.StoreFailure("add cart item", err)
	}
	return resp, nil
}

func (r repo) UpdateQuantity(ctx context.Context, userID, id string, quantity int64) (structs.CartRow, error) {
	r.logger.Info(ctx, "Update cart item quantity", zap.String("id", id), zap.Int64("quantity", quantity))
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + rowColumns

	resp, err := scanRow(r.db.QueryRow(ctx, query, id, userID, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn(ctx, "no cart item found with the given ID", zap.String("id", id))
			return structs.CartRow{}, structs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			r.logger.Warn(ctx, "cart item quantity out of range", zap.Int64("quantity", quantity))
			return structs.CartRow{}, structs.ErrValidation
		}
		r.logger.Error(ctx, "failed to update cart item", zap.Error(err))
		return structs.CartRow{}, structs.StoreFailure("update cart item", err)
	}
	return resp, nil
}

func (r repo) Delete(ctx context.Context, userID, id string) (int64, error) {
	r.logger.Info(ctx, "Delete cart item", zap.String("id", id))
	query := `
		DELETE FROM cart_items WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error(ctx, "failed to delete cart item", zap.Error(err))
		return 0, structs.StoreFailure("delete cart item", err)
	}
	return result.RowsAffected(), nil
}

func (r repo) Clear(ctx context.Context, userID string) error {
	r.logger.Info(ctx, "Clear cart", zap.String("user_id", userID))
	query := `
		DELETE FROM cart_items WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error(ctx, "failed to clear cart", zap.Error(err))
		return structs.StoreFailure("clear cart", err)
	}
	return nil
}

// Count sums quantities of live lines only, matching the summary rules.
func (r repo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `
		SELECT COALESCE(SUM(c.quantity), 0)::BIGINT
		FROM cart_items c
		JOIN products p ON p.id = c.product_id AND p.is_active
		LEFT JOIN product_variants v ON v.id = c.variant_id
		WHERE c.user_id = $1
			AND (c.variant_id IS NULL OR v.is_active)
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.logger.Error(ctx, "failed to count cart", zap.Error(err))
		return 0, structs.StoreFailure("count cart", err)
	}
	return count, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
