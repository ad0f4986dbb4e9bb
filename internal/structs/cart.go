package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartOwner string

// MaxLineQuantity caps the quantity of a single line item.
const MaxLineQuantity int64 = 999

const (
	CartOwnerUser  CartOwner = "user"
	CartOwnerGuest CartOwner = "guest"
)

// LineKey identifies a line item within one cart. An empty VariantID is the
// base product.
type LineKey struct {
	ProductID string
	VariantID string
}

func NewLineKey(productID string, variantID *string) LineKey {
	key := LineKey{ProductID: productID}
	if variantID != nil {
		key.VariantID = *variantID
	}
	return key
}

// CartItem is a line item joined with its current product and variant. ID is
// empty for guest lines.
type CartItem struct {
	ID        string       `json:"id,omitempty"`
	ProductID string       `json:"product_id"`
	VariantID *string      `json:"variant_id,omitempty"`
	Quantity  int64        `json:"quantity"`
	Product   *CartProduct `json:"product"`
	Variant   *CartVariant `json:"variant,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type CartProduct struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Images   []string        `json:"images"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

type CartVariant struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

func (i CartItem) Key() LineKey {
	return NewLineKey(i.ProductID, i.VariantID)
}

// UnitPrice is the variant price when a variant is present, else the base price.
func (i CartItem) UnitPrice() decimal.Decimal {
	if i.Variant != nil {
		return i.Variant.Price
	}
	if i.Product != nil {
		return i.Product.Price
	}
	return decimal.Zero
}

type CartSummary struct {
	ItemCount         int64           `json:"item_count"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	SubtotalFormatted string          `json:"subtotal_formatted"`
}

type Cart struct {
	Owner   CartOwner   `json:"owner"`
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
}

// CartRow is one persisted authenticated cart line.
type CartRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	VariantID *string   `json:"variant_id,omitempty"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GuestCartItem is the client-held shape. JSON names are part of the stored
// format.
type GuestCartItem struct {
	ProductID string  `json:"productId"`
	VariantID *string `json:"variantId,omitempty"`
	Quantity  int64   `json:"quantity"`
}

func (g GuestCartItem) Key() LineKey {
	return NewLineKey(g.ProductID, g.VariantID)
}

type AddCartItem struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int64   `json:"quantity"   validate:"gte=1,lte=999"`
}

// UpdateCartItem addresses a line by ID (authenticated carts) or by
// product/variant (guest carts).
type UpdateCartItem struct {
	ID        string  `json:"id"         validate:"omitempty,uuid"`
	ProductID string  `json:"product_id" validate:"omitempty,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int64   `json:"quantity"   validate:"lte=999"`
}

type RemoveCartItem struct {
	ID        string  `json:"id"         validate:"omitempty,uuid"`
	ProductID string  `json:"product_id" validate:"omitempty,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
}

type CartCount struct {
	Count int64 `json:"count"`
}
