package cart

import (
	"storefront/internal/structs"
	"storefront/pkg/utils"

	"github.com/shopspring/decimal"
)

// IsStale reports whether the line points at a product or variant that is
// gone or inactive.
func IsStale(item structs.CartItem) bool {
	if item.Product == nil || !item.Product.IsActive {
		return true
	}
	if item.VariantID != nil && (item.Variant == nil || !item.Variant.IsActive) {
		return true
	}
	return false
}

// Live drops stale lines and keeps the order of the rest.
func Live(items []structs.CartItem) []structs.CartItem {
	live := make([]structs.CartItem, 0, len(items))
	for _, item := range items {
		if IsStale(item) {
			continue
		}
		live = append(live, item)
	}
	return live
}

// Summarize computes item count and subtotal over the live lines.
func Summarize(items []structs.CartItem) structs.CartSummary {
	var (
		count    int64
		subtotal = decimal.Zero
	)
	for _, item := range items {
		if IsStale(item) {
			continue
		}
		count += item.Quantity
		subtotal = subtotal.Add(item.UnitPrice().Mul(decimal.NewFromInt(item.Quantity)))
	}
	return structs.CartSummary{
		ItemCount:         count,
		Subtotal:          subtotal,
		SubtotalFormatted: utils.FCurrency(subtotal),
	}
}

// Build assembles the response shape for one owner.
func Build(owner structs.CartOwner, items []structs.CartItem) structs.Cart {
	live := Live(items)
	return structs.Cart{
		Owner:   owner,
		Items:   live,
		Summary: Summarize(live),
	}
}
