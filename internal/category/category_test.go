package category

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront/internal/structs"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/redis"
	categoryRepo "storefront/pkg/repository/postgres/category_repo"
	productRepo "storefront/pkg/repository/postgres/product_repo"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	categories []structs.Category
	listCalls  int
}

var _ categoryRepo.Repo = (*fakeCategories)(nil)

func (f *fakeCategories) GetList(context.Context, bool) ([]structs.Category, error) {
	f.listCalls++
	return f.categories, nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (structs.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return structs.Category{}, structs.ErrNotFound
}

type fakeProducts struct {
	productRepo.Repo
	filter productRepo.Filter
}

func (f *fakeProducts) GetList(_ context.Context, filter productRepo.Filter) ([]structs.Product, int64, error) {
	f.filter = filter
	return []structs.Product{{ID: "p1"}}, 1, nil
}

type fakeRedis struct {
	redis.Client
	values map[string][]byte
}

func (f *fakeRedis) SaveObj(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	f.values[key] = b
	return err
}

func (f *fakeRedis) FindObj(_ context.Context, key string, value any) error {
	b, ok := f.values[key]
	if !ok {
		return redis.ErrNotFound
	}
	return json.Unmarshal(b, value)
}

func setup() (Service, *fakeCategories, *fakeProducts) {
	categories := &fakeCategories{categories: []structs.Category{
		{ID: "c1", Name: "Electronics", Slug: "electronics", IsActive: true},
		{ID: "c2", Name: "Archive", Slug: "archive", IsActive: false},
	}}
	products := &fakeProducts{}
	svc := New(Params{
		CategoryRepo: categories,
		ProductRepo:  products,
		Redis:        &fakeRedis{values: map[string][]byte{}},
		Config:       config.New(viper.New()),
		Logger:       logger.NewNop(),
	})
	return svc, categories, products
}

func TestGetListIsCached(t *testing.T) {
	svc, categories, _ := setup()

	for i := 0; i < 3; i++ {
		list, err := svc.GetList(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 2)
	}
	assert.Equal(t, 1, categories.listCalls)
}

func TestGetBySlug(t *testing.T) {
	tests := []struct {
		name        string
		slug        string
		expectedErr error
	}{
		{name: "given an active category should return its products", slug: "electronics"},
		{name: "given an inactive category should be not found", slug: "archive", expectedErr: structs.ErrNotFound},
		{name: "given an unknown slug should be not found", slug: "missing", expectedErr: structs.ErrNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, _, products := setup()

			got, err := svc.GetBySlug(context.Background(), test.slug)

			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Electronics", got.Name)
			assert.Len(t, got.Products, 1)
			assert.Equal(t, "c1", products.filter.CategoryID)
		})
	}
}
