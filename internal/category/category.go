package category

import (
	"context"
	"errors"
	"time"

	"storefront/internal/structs"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/redis"
	categoryRepo "storefront/pkg/repository/postgres/category_repo"
	productRepo "storefront/pkg/repository/postgres/product_repo"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const (
	listCacheKey        = "catalog.categories"
	maxCategoryProducts = 100
)

type (
	Params struct {
		fx.In
		CategoryRepo categoryRepo.Repo
		ProductRepo  productRepo.Repo
		Redis        redis.Client
		Config       config.IConfig
		Logger       logger.Logger
	}

	Service interface {
		GetList(ctx context.Context) ([]structs.Category, error)
		GetBySlug(ctx context.Context, slug string) (structs.CategoryWithProducts, error)
	}
	service struct {
		categoryRepo categoryRepo.Repo
		productRepo  productRepo.Repo
		redis        redis.Client
		logger       logger.Logger
		cacheTTL     time.Duration
	}
)

func New(p Params) Service {
	return &service{
		categoryRepo: p.CategoryRepo,
		productRepo:  p.ProductRepo,
		redis:        p.Redis,
		logger:       p.Logger,
		cacheTTL:     p.Config.GetDuration("catalog.cache_ttl"),
	}
}

func (s *service) GetList(ctx context.Context) ([]structs.Category, error) {
	var cached []structs.Category
	err := s.redis.FindObj(ctx, listCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrNotFound) {
		s.logger.Warn(ctx, "->redis.FindObj", zap.String("key", listCacheKey), zap.Error(err))
	}

	list, err := s.categoryRepo.GetList(ctx, true)
	if err != nil {
		s.logger.Debug(ctx, "->categoryRepo.GetList", zap.Error(err))
		return nil, err
	}

	if err := s.redis.SaveObj(ctx, listCacheKey, list, s.cacheTTL); err != nil {
		s.logger.Warn(ctx, "->redis.SaveObj", zap.String("key", listCacheKey), zap.Error(err))
	}
	return list, nil
}

// GetBySlug returns an active category with its active products.
func (s *service) GetBySlug(ctx context.Context, slug string) (structs.CategoryWithProducts, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, structs.ErrNotFound) {
			s.logger.Debug(ctx, "->categoryRepo.GetBySlug", zap.Error(err))
		}
		return structs.CategoryWithProducts{}, err
	}
	if !category.IsActive {
		return structs.CategoryWithProducts{}, structs.ErrNotFound
	}

	products, _, err := s.productRepo.GetList(ctx, productRepo.Filter{
		CategoryID: category.ID,
		Take:       maxCategoryProducts,
	})
	if err != nil {
		s.logger.Debug(ctx, "->productRepo.GetList", zap.Error(err))
		return structs.CategoryWithProducts{}, err
	}

	return structs.CategoryWithProducts{
		Category: category,
		Products: products,
	}, nil
}
