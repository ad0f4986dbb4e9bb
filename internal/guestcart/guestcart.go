package guestcart

import (
	"context"
	"encoding/json"
	"errors"

	"storefront/internal/cart"
	"storefront/internal/ctxman"
	"storefront/internal/structs"
	"storefront/pkg/logger"
	productRepo "storefront/pkg/repository/postgres/product_repo"
	"storefront/pkg/sessionstore"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		ProductRepo productRepo.Repo
		Logger      logger.Logger
	}

	// Service is the anonymous visitor's cart. The list lives in the session
	// slot bound to the request context and is always written back whole.
	Service interface {
		Get(ctx context.Context) ([]structs.GuestCartItem, error)
		Add(ctx context.Context, req structs.AddCartItem) ([]structs.GuestCartItem, error)
		Update(ctx context.Context, productID string, variantID *string, quantity int64) ([]structs.GuestCartItem, error)
		Remove(ctx context.Context, productID string, variantID *string) ([]structs.GuestCartItem, error)
		Clear(ctx context.Context) error
		Resolve(ctx context.Context) ([]structs.CartItem, error)
		Total(ctx context.Context) (structs.Cart, error)
		Count(ctx context.Context) (int64, error)
	}
	service struct {
		productRepo productRepo.Repo
		logger      logger.Logger
	}
)

func New(p Params) Service {
	return &service{
		productRepo: p.ProductRepo,
		logger:      p.Logger,
	}
}

func slotFrom(ctx context.Context) (sessionstore.Slot, error) {
	slot, ok := ctxman.Get[sessionstore.Slot](ctx, ctxman.GuestSessionCtx{})
	if !ok || slot == nil {
		return nil, structs.ErrNoGuestSession
	}
	return slot, nil
}

// Get returns the stored list in insertion order. An absent or unreadable
// blob is an empty cart.
func (s *service) Get(ctx context.Context) ([]structs.GuestCartItem, error) {
	slot, err := slotFrom(ctx)
	if err != nil {
		return nil, err
	}

	data, err := slot.Load(ctx)
	if err != nil {
		if errors.Is(err, sessionstore.ErrEmpty) {
			return []structs.GuestCartItem{}, nil
		}
		s.logger.Debug(ctx, "->slot.Load", zap.Error(err))
		return nil, structs.StoreFailure("load guest cart", err)
	}

	var items []structs.GuestCartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn(ctx, "discarding unreadable guest cart", zap.Error(err))
		return []structs.GuestCartItem{}, nil
	}
	return normalize(items), nil
}

// Add increments an existing line; the result may not exceed MaxLineQuantity.
func (s *service) Add(ctx context.Context, req structs.AddCartItem) ([]structs.GuestCartItem, error) {
	if req.Quantity < 1 || req.Quantity > structs.MaxLineQuantity {
		return nil, structs.ErrValidation
	}
	items, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	key := structs.NewLineKey(req.ProductID, req.VariantID)
	if i := indexOf(items, key); i >= 0 {
		if items[i].Quantity > structs.MaxLineQuantity-req.Quantity {
			return nil, structs.ErrValidation
		}
		items[i].Quantity += req.Quantity
	} else {
		items = append(items, structs.GuestCartItem{
			ProductID: req.ProductID,
			VariantID: normalizeVariant(req.VariantID),
			Quantity:  req.Quantity,
		})
	}
	return items, s.save(ctx, items)
}

// Update overwrites the quantity of an existing line; zero or less removes it.
func (s *service) Update(ctx context.Context, productID string, variantID *string, quantity int64) ([]structs.GuestCartItem, error) {
	if quantity > structs.MaxLineQuantity {
		return nil, structs.ErrValidation
	}
	items, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(items, structs.NewLineKey(productID, variantID))
	if i < 0 {
		if quantity <= 0 {
			return items, nil
		}
		return nil, structs.ErrNotFound
	}
	if quantity <= 0 {
		items = append(items[:i], items[i+1:]...)
	} else {
		items[i].Quantity = quantity
	}
	return items, s.save(ctx, items)
}

// Remove succeeds when the line is already gone.
func (s *service) Remove(ctx context.Context, productID string, variantID *string) ([]structs.GuestCartItem, error) {
	items, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(items, structs.NewLineKey(productID, variantID))
	if i < 0 {
		return items, nil
	}
	items = append(items[:i], items[i+1:]...)
	return items, s.save(ctx, items)
}

func (s *service) Clear(ctx context.Context) error {
	slot, err := slotFrom(ctx)
	if err != nil {
		return err
	}
	if err := slot.Clear(ctx); err != nil {
		s.logger.Debug(ctx, "->slot.Clear", zap.Error(err))
		return structs.StoreFailure("clear guest cart", err)
	}
	return nil
}

// Resolve joins the stored lines with current catalog data and silently
// drops lines whose product or variant is gone or inactive.
func (s *service) Resolve(ctx context.Context) ([]structs.CartItem, error) {
	items, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []structs.CartItem{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetActiveByIDs(ctx, ids)
	if err != nil {
		s.logger.Debug(ctx, "->productRepo.GetActiveByIDs", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]structs.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	resolved := make([]structs.CartItem, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		line := structs.CartItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Product: &structs.CartProduct{
				ID:       p.ID,
				Name:     p.Name,
				Slug:     p.Slug,
				Images:   p.Images,
				Price:    p.Price,
				IsActive: p.IsActive,
			},
		}
		if item.VariantID != nil {
			v, ok := p.ActiveVariant(*item.VariantID)
			if !ok {
				continue
			}
			line.Variant = &structs.CartVariant{
				ID:       v.ID,
				Name:     v.Name,
				Price:    v.Price,
				IsActive: v.IsActive,
			}
		}
		resolved = append(resolved, line)
	}
	return cart.Live(resolved), nil
}

func (s *service) Total(ctx context.Context) (structs.Cart, error) {
	items, err := s.Resolve(ctx)
	if err != nil {
		return structs.Cart{}, err
	}
	return cart.Build(structs.CartOwnerGuest, items), nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	items, err := s.Resolve(ctx)
	if err != nil {
		return 0, err
	}
	return cart.Summarize(items).ItemCount, nil
}

func (s *service) save(ctx context.Context, items []structs.GuestCartItem) error {
	slot, err := slotFrom(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(items)
	if err != nil {
		return structs.StoreFailure("encode guest cart", err)
	}
	if err := slot.Store(ctx, data); err != nil {
		if errors.Is(err, sessionstore.ErrTooLarge) {
			s.logger.Warn(ctx, "guest cart over budget", zap.Int("lines", len(items)), zap.Int("bytes", len(data)))
			return structs.ErrCartTooLarge
		}
		s.logger.Debug(ctx, "->slot.Store", zap.Error(err))
		return structs.StoreFailure("store guest cart", err)
	}
	return nil
}

func indexOf(items []structs.GuestCartItem, key structs.LineKey) int {
	for i, item := range items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func normalizeVariant(variantID *string) *string {
	if variantID == nil || *variantID == "" {
		return nil
	}
	v := *variantID
	return &v
}

// normalize drops malformed entries and folds duplicate keys into the first
// occurrence. Quantities are clamped to MaxLineQuantity.
func normalize(items []structs.GuestCartItem) []structs.GuestCartItem {
	out := make([]structs.GuestCartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		item.VariantID = normalizeVariant(item.VariantID)
		item.Quantity = min(item.Quantity, structs.MaxLineQuantity)
		if i := indexOf(out, item.Key()); i >= 0 {
			out[i].Quantity = min(out[i].Quantity+item.Quantity, structs.MaxLineQuantity)
			continue
		}
		out = append(out, item)
	}
	return out
}
