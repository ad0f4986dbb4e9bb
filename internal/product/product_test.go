package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/internal/structs"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/redis"
	productRepo "storefront/pkg/repository/postgres/product_repo"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo pages over an in-memory catalog the way the SQL does.
type fakeRepo struct {
	products      []structs.Product
	lastFilter    productRepo.Filter
	featuredCalls int
}

func (f *fakeRepo) GetList(_ context.Context, filter productRepo.Filter) ([]structs.Product, int64, error) {
	f.lastFilter = filter
	var matched []structs.Product
	for _, p := range f.products {
		if !p.IsActive {
			continue
		}
		if filter.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		matched = append(matched, p)
	}
	total := int64(len(matched))
	start := min(filter.Skip, total)
	end := min(filter.Skip+filter.Take, total)
	return matched[start:end], total, nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (structs.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return structs.Product{}, structs.ErrNotFound
}

func (f *fakeRepo) GetFeatured(_ context.Context, limit int64) ([]structs.Product, error) {
	f.featuredCalls++
	var out []structs.Product
	for _, p := range f.products {
		if p.IsActive && p.IsFeatured && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetActiveByIDs(context.Context, []string) ([]structs.Product, error) {
	return nil, nil
}

type fakeRedis struct {
	values map[string]string
	down   bool
}

func (f *fakeRedis) Save(_ context.Context, key string, value any, _ time.Duration) error {
	if f.down {
		return errors.New("connection refused")
	}
	f.values[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeRedis) SaveObj(ctx context.Context, key string, value any, dur time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return f.Save(ctx, key, string(b), dur)
}

func (f *fakeRedis) Find(_ context.Context, key string) (string, error) {
	if f.down {
		return "", errors.New("connection refused")
	}
	value, ok := f.values[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return value, nil
}

func (f *fakeRedis) FindObj(ctx context.Context, key string, value any) error {
	raw, err := f.Find(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), value)
}

func (f *fakeRedis) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeRedis) Ping(context.Context) error { return nil }

func electronics(n int) []structs.Product {
	category := "electronics"
	products := make([]structs.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, structs.Product{
			ID:         fmt.Sprintf("p%d", i),
			Slug:       fmt.Sprintf("item-%d", i),
			CategoryID: &category,
			IsActive:   true,
			IsFeatured: i <= 2,
		})
	}
	return products
}

func newTestService(repo *fakeRepo, rdb *fakeRedis) Service {
	return New(Params{
		ProductRepo: repo,
		Redis:       rdb,
		Config:      config.New(viper.New()),
		Logger:      logger.NewNop(),
	})
}

func TestGetList(t *testing.T) {
	tests := []struct {
		name             string
		req              structs.GetListProductRequest
		expectedFirst    string
		expectedLen      int
		expectedHasMore  bool
		expectedCategory string
		expectedTake     int64
	}{
		{
			name:             "given the second page of 15 should return items 13 to 15",
			req:              structs.GetListProductRequest{Skip: 12, Take: 12, CategoryID: "electronics"},
			expectedFirst:    "p13",
			expectedLen:      3,
			expectedHasMore:  false,
			expectedCategory: "electronics",
			expectedTake:     12,
		},
		{
			name:             "given the first page should report more",
			req:              structs.GetListProductRequest{Take: 12, CategoryID: "electronics"},
			expectedFirst:    "p1",
			expectedLen:      12,
			expectedHasMore:  true,
			expectedCategory: "electronics",
			expectedTake:     12,
		},
		{
			name:            "given no take should use the page size",
			req:             structs.GetListProductRequest{},
			expectedFirst:   "p1",
			expectedLen:     15,
			expectedHasMore: false,
			expectedTake:    20,
		},
		{
			name:            "given a search term should drop the category filter",
			req:             structs.GetListProductRequest{CategoryID: "electronics", Search: "  item  "},
			expectedFirst:   "p1",
			expectedLen:     10,
			expectedHasMore: true,
			expectedTake:    10,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := &fakeRepo{products: electronics(15)}

			resp, err := newTestService(repo, &fakeRedis{values: map[string]string{}}).GetList(context.Background(), test.req)

			require.NoError(t, err)
			require.Len(t, resp.Products, test.expectedLen)
			assert.Equal(t, test.expectedFirst, resp.Products[0].ID)
			assert.Equal(t, int64(15), resp.Total)
			assert.Equal(t, test.expectedHasMore, resp.HasMore)
			assert.Equal(t, test.expectedCategory, repo.lastFilter.CategoryID)
			assert.Equal(t, test.expectedTake, repo.lastFilter.Take)
		})
	}
}

func TestGetBySlugMissing(t *testing.T) {
	_, err := newTestService(&fakeRepo{}, &fakeRedis{values: map[string]string{}}).GetBySlug(context.Background(), "missing-slug")

	assert.ErrorIs(t, err, structs.ErrNotFound)
}

func TestGetFeaturedIsCached(t *testing.T) {
	repo := &fakeRepo{products: electronics(5)}
	rdb := &fakeRedis{values: map[string]string{}}
	svc := newTestService(repo, rdb)

	first, err := svc.GetFeatured(context.Background(), 0)
	require.NoError(t, err)
	second, err := svc.GetFeatured(context.Background(), 0)
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, repo.featuredCalls)
	assert.Contains(t, rdb.values, "catalog.featured.6")
}

func TestGetFeaturedWithoutRedis(t *testing.T) {
	repo := &fakeRepo{products: electronics(5)}
	svc := newTestService(repo, &fakeRedis{down: true})

	got, err := svc.GetFeatured(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}
