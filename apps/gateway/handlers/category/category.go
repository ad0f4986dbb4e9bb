package category

import (
	"errors"

	"storefront/internal/category"
	"storefront/internal/responses"
	"storefront/internal/structs"
	"storefront/pkg/logger"
	"storefront/pkg/reply"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetListCategory(c *gin.Context)
		GetBySlugCategory(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger          logger.Logger
		CategoryService category.Service
	}

	handler struct {
		logger          logger.Logger
		categoryService category.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:          p.Logger,
		categoryService: p.CategoryService,
	}
}

func (h *handler) GetListCategory(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	list, err := h.categoryService.GetList(ctx)
	if err != nil {
		h.logger.Error(ctx, " err on h.categoryService.GetList", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetBySlugCategory(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	item, err := h.categoryService.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.categoryService.GetBySlug", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = item
}
