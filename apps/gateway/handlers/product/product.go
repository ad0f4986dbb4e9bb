package product

import (
	"errors"

	"storefront/internal/product"
	"storefront/internal/responses"
	"storefront/internal/structs"
	"storefront/pkg/logger"
	"storefront/pkg/reply"
	"storefront/pkg/validate"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetListProduct(c *gin.Context)
		GetFeaturedProduct(c *gin.Context)
		GetBySlugProduct(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger         logger.Logger
		ProductService product.Service
	}

	handler struct {
		logger         logger.Logger
		productService product.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:         p.Logger,
		productService: p.ProductService,
	}
}

func (h *handler) GetListProduct(c *gin.Context) {
	var (
		response structs.Response
		filter   structs.GetListProductRequest
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	filter.Skip = cast.ToInt64(c.Query("skip"))
	filter.Take = cast.ToInt64(c.Query("take"))
	filter.CategoryID = c.Query("category_id")
	filter.Search = c.Query("search")

	if err := validate.Struct(filter); err != nil {
		h.logger.Warn(ctx, " invalid filter", zap.Error(err))
		response = responses.ValidationFailed
		return
	}

	list, err := h.productService.GetList(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, " err on h.productService.GetList", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetFeaturedProduct(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		limit    = cast.ToInt64(c.Query("limit"))
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	if limit < 0 || limit > 50 {
		response = responses.ValidationFailed
		return
	}

	list, err := h.productService.GetFeatured(ctx, limit)
	if err != nil {
		h.logger.Error(ctx, " err on h.productService.GetFeatured", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

// GetBySlugProduct hides inactive products behind not found.
func (h *handler) GetBySlugProduct(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		slug     = c.Param("slug")
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	item, err := h.productService.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.productService.GetBySlug", zap.Error(err))
		response = responses.InternalErr
		return
	}
	if !item.IsActive {
		h.logger.Info(ctx, " inactive product requested", zap.String("slug", slug))
		response = responses.NotFound
		return
	}

	response = responses.Success
	response.Payload = item
}
