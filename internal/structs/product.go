package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Description    string              `json:"description"`
	Price          decimal.Decimal     `json:"price"`
	CompareAtPrice decimal.NullDecimal `json:"compare_at_price"`
	CategoryID     *string             `json:"category_id,omitempty"`
	Category       *Category           `json:"category,omitempty"`
	Images         []string            `json:"images"`
	Inventory      int64               `json:"inventory"`
	IsActive       bool                `json:"is_active"`
	IsFeatured     bool                `json:"is_featured"`
	Variants       []ProductVariant    `json:"variants"`
	Tags           []Tag               `json:"tags,omitempty"`
	Reviews        []Review            `json:"reviews,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type ProductVariant struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Sku       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Inventory int64           `json:"inventory"`
	IsActive  bool            `json:"is_active"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Review struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	UserImage string    `json:"user_image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveVariant returns the active variant with the given id.
func (p Product) ActiveVariant(id string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == id && v.IsActive {
			return v, true
		}
	}
	return ProductVariant{}, false
}

type GetListProductRequest struct {
	Skip       int64  `json:"skip"        validate:"gte=0"`
	Take       int64  `json:"take"        validate:"gte=0,lte=100"`
	CategoryID string `json:"category_id" validate:"omitempty,uuid"`
	Search     string `json:"search"      validate:"max=200"`
}

type GetListProductResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	HasMore  bool      `json:"has_more"`
}
