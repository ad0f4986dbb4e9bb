package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/structs"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/redis"
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
		ProductRepo productRepo.Repo
		Redis       redis.Client
		Config      config.IConfig
		Logger      logger.Logger
	}

	Service interface {
		GetList(ctx context.Context, req structs.GetListProductRequest) (structs.GetListProductResponse, error)
		// GetBySlug returns inactive products too; callers treat those as not found.
		GetBySlug(ctx context.Context, slug string) (structs.Product, error)
		GetFeatured(ctx context.Context, limit int64) ([]structs.Product, error)
	}
	service struct {
		productRepo   productRepo.Repo
		redis         redis.Client
		logger        logger.Logger
		cacheTTL      time.Duration
		pageSize      int64
		searchLimit   int64
		featuredLimit int64
	}
)

func New(p Params) Service {
	return &service{
		productRepo:   p.ProductRepo,
		redis:         p.Redis,
		logger:        p.Logger,
		cacheTTL:      p.Config.GetDuration("catalog.cache_ttl"),
		pageSize:      p.Config.GetInt64("catalog.page_size"),
		searchLimit:   p.Config.GetInt64("catalog.search_limit"),
		featuredLimit: p.Config.GetInt64("catalog.featured_limit"),
	}
}

// GetList pages over active products. A search term overrides the category
// filter.
func (s *service) GetList(ctx context.Context, req structs.GetListProductRequest) (structs.GetListProductResponse, error) {
	filter := productRepo.Filter{
		Skip:       req.Skip,
		Take:       req.Take,
		CategoryID: req.CategoryID,
		Search:     strings.TrimSpace(req.Search),
	}
	if filter.Search != "" {
		filter.CategoryID = ""
		if filter.Take == 0 {
			filter.Take = s.searchLimit
		}
	}
	if filter.Take == 0 {
		filter.Take = s.pageSize
	}

	products, total, err := s.productRepo.GetList(ctx, filter)
	if err != nil {
		s.logger.Debug(ctx, "->productRepo.GetList", zap.Error(err))
		return structs.GetListProductResponse{}, err
	}

	return structs.GetListProductResponse{
		Products: products,
		Total:    total,
		HasMore:  filter.Skip+filter.Take < total,
	}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (structs.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Product{}, err
		}
		s.logger.Debug(ctx, "->productRepo.GetBySlug", zap.Error(err))
		return structs.Product{}, err
	}
	return product, nil
}

func (s *service) GetFeatured(ctx context.Context, limit int64) ([]structs.Product, error) {
	if limit <= 0 {
		limit = s.featuredLimit
	}

	key := fmt.Sprintf("catalog.featured.%d", limit)
	var cached []structs.Product
	err := s.redis.FindObj(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrNotFound) {
		s.logger.Warn(ctx, "->redis.FindObj", zap.String("key", key), zap.Error(err))
	}

	products, err := s.productRepo.GetFeatured(ctx, limit)
	if err != nil {
		s.logger.Debug(ctx, "->productRepo.GetFeatured", zap.Error(err))
		return nil, err
	}

	if err := s.redis.SaveObj(ctx, key, products, s.cacheTTL); err != nil {
		s.logger.Warn(ctx, "->redis.SaveObj", zap.String("key", key), zap.Error(err))
	}
	return products, nil
}
