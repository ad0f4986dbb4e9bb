package cart

import (
	"context"

	"storefront/internal/structs"
	"storefront/pkg/logger"
	cartRepo "storefront/pkg/repository/postgres/cart_repo"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		CartRepo cartRepo.Repo
		Logger   logger.Logger
	}

	// Service is the database cart of an authenticated user. Every operation
	// is scoped to the user id.
	Service interface {
		Get(ctx context.Context, userID string) ([]structs.CartItem, error)
		// FindLine returns the row id for a key, stale lines included.
		FindLine(ctx context.Context, userID string, key structs.LineKey) (string, error)
		Add(ctx context.Context, userID string, req structs.AddCartItem) (structs.CartRow, error)
		// UpdateQuantity returns nil when the line was removed.
		UpdateQuantity(ctx context.Context, userID, id string, quantity int64) (*structs.CartRow, error)
		Remove(ctx context.Context, userID, id string) error
		Clear(ctx context.Context, userID string) error
		Total(ctx context.Context, userID string) (structs.Cart, error)
		Count(ctx context.Context, userID string) (int64, error)
	}
	service struct {
		cartRepo cartRepo.Repo
		logger   logger.Logger
	}
)

func New(p Params) Service {
	return &service{
		cartRepo: p.CartRepo,
		logger:   p.Logger,
	}
}

func (s *service) Get(ctx context.Context, userID string) ([]structs.CartItem, error) {
	items, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Debug(ctx, "->cartRepo.GetByUserID", zap.Error(err))
		return nil, err
	}
	return Live(items), nil
}

func (s *service) FindLine(ctx context.Context, userID string, key structs.LineKey) (string, error) {
	items, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Debug(ctx, "->cartRepo.GetByUserID", zap.Error(err))
		return "", err
	}
	for _, item := range items {
		if item.Key() == key {
			return item.ID, nil
		}
	}
	return "", structs.ErrNotFound
}

// Add increments an existing line; the result may not exceed MaxLineQuantity.
func (s *service) Add(ctx context.Context, userID string, req structs.AddCartItem) (structs.CartRow, error) {
	if req.Quantity < 1 || req.Quantity > structs.MaxLineQuantity {
		return structs.CartRow{}, structs.ErrValidation
	}
	row, err := s.cartRepo.Add(ctx, userID, req)
	if err != nil {
		s.logger.Debug(ctx, "->cartRepo.Add", zap.Error(err))
		return structs.CartRow{}, err
	}
	return row, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, id string, quantity int64) (*structs.CartRow, error) {
	if quantity <= 0 {
		return nil, s.Remove(ctx, userID, id)
	}
	if quantity > structs.MaxLineQuantity {
		return nil, structs.ErrValidation
	}
	row, err := s.cartRepo.UpdateQuantity(ctx, userID, id, quantity)
	if err != nil {
		s.logger.Debug(ctx, "->cartRepo.UpdateQuantity", zap.Error(err))
		return nil, err
	}
	return &row, nil
}

// Remove succeeds when the line is already gone.
func (s *service) Remove(ctx context.Context, userID, id string) error {
	deleted, err := s.cartRepo.Delete(ctx, userID, id)
	if err != nil {
		s.logger.Debug(ctx, "->cartRepo.Delete", zap.Error(err))
		return err
	}
	if deleted == 0 {
		s.logger.Debug(ctx, "cart item already removed", zap.String("id", id))
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID string) error {
	err := s.cartRepo.Clear(ctx, userID)
	if err != nil {
		s.logger.Debug(ctx, "->cartRepo.Clear", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) Total(ctx context.Context, userID string) (structs.Cart, error) {
	items, err := s.Get(ctx, userID)
	if err != nil {
		return structs.Cart{}, err
	}
	return Build(structs.CartOwnerUser, items), nil
}

func (s *service) Count(ctx context.Context, userID string) (int64, error) {
	count, err := s.cartRepo.Count(ctx, userID)
	if err != nil {
		s.logger.Debug(ctx, "->cartRepo.Count", zap.Error(err))
		return 0, err
	}
	return count, nil
}
