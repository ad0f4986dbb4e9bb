package category

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/structs"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	list    []structs.Category
	listErr error
	bySlug  map[string]structs.CategoryWithProducts
}

func (f *fakeCategories) GetList(context.Context) ([]structs.Category, error) {
	return f.list, f.listErr
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (structs.CategoryWithProducts, error) {
	item, ok := f.bySlug[slug]
	if !ok {
		return structs.CategoryWithProducts{}, structs.ErrNotFound
	}
	return item, nil
}

func newEngine(svc *fakeCategories) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(Params{Logger: logger.NewNop(), CategoryService: svc})

	r := gin.New()
	r.GET("/category", h.GetListCategory)
	r.GET("/category/:slug", h.GetBySlugCategory)
	return r
}

func TestGetListCategory(t *testing.T) {
	tests := []struct {
		name           string
		svc            *fakeCategories
		expectedStatus int
	}{
		{
			name:           "given categories should return them",
			svc:            &fakeCategories{list: []structs.Category{{Slug: "books"}, {Slug: "lamps"}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "given a store failure should return internal error",
			svc:            &fakeCategories{listErr: errors.New("boom")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newEngine(test.svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/category", nil))
			assert.Equal(t, test.expectedStatus, w.Code)
		})
	}
}

func TestGetBySlugCategory(t *testing.T) {
	svc := &fakeCategories{bySlug: map[string]structs.CategoryWithProducts{
		"books": {
			Category: structs.Category{Slug: "books", IsActive: true},
			Products: []structs.Product{{Slug: "novel"}},
		},
	}}

	t.Run("given a known slug should return the category with products", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/category/books", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Payload structs.CategoryWithProducts `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "books", body.Payload.Slug)
		require.Len(t, body.Payload.Products, 1)
		assert.Equal(t, "novel", body.Payload.Products[0].Slug)
	})

	t.Run("given an unknown slug should be not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/category/none", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
