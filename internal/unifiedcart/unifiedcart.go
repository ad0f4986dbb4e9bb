package unifiedcart

import (
	"context"
	"errors"

	"storefront/internal/cart"
	"storefront/internal/ctxman"
	"storefront/internal/guestcart"
	"storefront/internal/structs"
	"storefront/pkg/logger"
	productRepo "storefront/pkg/repository/postgres/product_repo"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Cart        cart.Service
		GuestCart   guestcart.Service
		ProductRepo productRepo.Repo
		Logger      logger.Logger
	}

	// Service is the current shopping cart of the request, whoever the caller
	// is. Identity is read from the context once per call.
	Service interface {
		Get(ctx context.Context) (structs.Cart, error)
		Add(ctx context.Context, req structs.AddCartItem) (structs.Cart, error)
		Update(ctx context.Context, req structs.UpdateCartItem) (structs.Cart, error)
		Remove(ctx context.Context, req structs.RemoveCartItem) (structs.Cart, error)
		Clear(ctx context.Context) error
		Count(ctx context.Context) (int64, error)
	}
	service struct {
		cart        cart.Service
		guestCart   guestcart.Service
		productRepo productRepo.Repo
		logger      logger.Logger
	}
)

func New(p Params) Service {
	return &service{
		cart:        p.Cart,
		guestCart:   p.GuestCart,
		productRepo: p.ProductRepo,
		logger:      p.Logger,
	}
}

func (s *service) Get(ctx context.Context) (structs.Cart, error) {
	if identity, ok := ctxman.Identity(ctx); ok {
		return s.cart.Total(ctx, identity.UserID)
	}
	return s.guestCart.Total(ctx)
}

// Add is the only add path. The product and variant must be purchasable
// before either backing is touched.
func (s *service) Add(ctx context.Context, req structs.AddCartItem) (structs.Cart, error) {
	if req.Quantity < 1 || req.Quantity > structs.MaxLineQuantity {
		return structs.Cart{}, structs.ErrValidation
	}
	if req.VariantID != nil && *req.VariantID == "" {
		req.VariantID = nil
	}
	if err := s.ensurePurchasable(ctx, req.ProductID, req.VariantID); err != nil {
		return structs.Cart{}, err
	}

	var err error
	if identity, ok := ctxman.Identity(ctx); ok {
		_, err = s.cart.Add(ctx, identity.UserID, req)
	} else {
		_, err = s.guestCart.Add(ctx, req)
	}
	if err != nil {
		return structs.Cart{}, err
	}
	return s.Get(ctx)
}

// Update sets a line's quantity. Zero or less removes the line and, like
// Remove, succeeds when the line is already gone.
func (s *service) Update(ctx context.Context, req structs.UpdateCartItem) (structs.Cart, error) {
	if req.Quantity > structs.MaxLineQuantity {
		return structs.Cart{}, structs.ErrValidation
	}

	var err error
	if identity, ok := ctxman.Identity(ctx); ok {
		var id string
		id, err = s.lineID(ctx, identity.UserID, req.ID, req.ProductID, req.VariantID)
		switch {
		case errors.Is(err, structs.ErrNotFound) && req.Quantity <= 0:
			err = nil
		case err == nil:
			_, err = s.cart.UpdateQuantity(ctx, identity.UserID, id, req.Quantity)
		}
	} else {
		if req.ProductID == "" {
			return structs.Cart{}, structs.ErrValidation
		}
		_, err = s.guestCart.Update(ctx, req.ProductID, req.VariantID, req.Quantity)
	}
	if err != nil {
		return structs.Cart{}, err
	}
	return s.Get(ctx)
}

// Remove succeeds when the line is already gone.
func (s *service) Remove(ctx context.Context, req structs.RemoveCartItem) (structs.Cart, error) {
	var err error
	if identity, ok := ctxman.Identity(ctx); ok {
		var id string
		id, err = s.lineID(ctx, identity.UserID, req.ID, req.ProductID, req.VariantID)
		switch {
		case errors.Is(err, structs.ErrNotFound):
			err = nil
		case err == nil:
			err = s.cart.Remove(ctx, identity.UserID, id)
		}
	} else {
		if req.ProductID == "" {
			return structs.Cart{}, structs.ErrValidation
		}
		_, err = s.guestCart.Remove(ctx, req.ProductID, req.VariantID)
	}
	if err != nil {
		return structs.Cart{}, err
	}
	return s.Get(ctx)
}

func (s *service) Clear(ctx context.Context) error {
	if identity, ok := ctxman.Identity(ctx); ok {
		return s.cart.Clear(ctx, identity.UserID)
	}
	return s.guestCart.Clear(ctx)
}

func (s *service) Count(ctx context.Context) (int64, error) {
	if identity, ok := ctxman.Identity(ctx); ok {
		return s.cart.Count(ctx, identity.UserID)
	}
	return s.guestCart.Count(ctx)
}

// lineID resolves an authenticated line either by row id or by its
// product/variant key. Stale lines are addressable so they can be removed.
func (s *service) lineID(ctx context.Context, userID, id, productID string, variantID *string) (string, error) {
	if id != "" {
		return id, nil
	}
	if productID == "" {
		return "", structs.ErrValidation
	}
	return s.cart.FindLine(ctx, userID, structs.NewLineKey(productID, variantID))
}

func (s *service) ensurePurchasable(ctx context.Context, productID string, variantID *string) error {
	products, err := s.productRepo.GetActiveByIDs(ctx, []string{productID})
	if err != nil {
		s.logger.Debug(ctx, "->productRepo.GetActiveByIDs", zap.Error(err))
		return err
	}
	if len(products) == 0 {
		return structs.ErrNotFound
	}
	if variantID != nil {
		if _, ok := products[0].ActiveVariant(*variantID); !ok {
			return structs.ErrNotFound
		}
	}
	return nil
}
