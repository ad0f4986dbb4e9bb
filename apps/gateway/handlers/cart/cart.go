package cart

import (
	"errors"

	"storefront/internal/responses"
	"storefront/internal/structs"
	"storefront/internal/unifiedcart"
	"storefront/pkg/logger"
	"storefront/pkg/reply"
	"storefront/pkg/validate"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetCart(c *gin.Context)
		GetCartCount(c *gin.Context)
		AddToCart(c *gin.Context)
		UpdateCartItem(c *gin.Context)
		RemoveCartItem(c *gin.Context)
		ClearCart(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger      logger.Logger
		CartService unifiedcart.Service
	}

	handler struct {
		logger      logger.Logger
		cartService unifiedcart.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:      p.Logger,
		cartService: p.CartService,
	}
}

func (h *handler) GetCart(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	cart, err := h.cartService.Get(ctx)
	if err != nil {
		h.logger.Error(ctx, " err on h.cartService.Get", zap.Error(err))
		response = h.failure(err)
		return
	}

	response = responses.Success
	response.Payload = cart
}

func (h *handler) GetCartCount(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	count, err := h.cartService.Count(ctx)
	if err != nil {
		h.logger.Error(ctx, " err on h.cartService.Count", zap.Error(err))
		response = h.failure(err)
		return
	}

	response = responses.Success
	response.Payload = structs.CartCount{Count: count}
}

func (h *handler) AddToCart(c *gin.Context) {
	var (
		response structs.Response
		request  structs.AddCartItem
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	if err := validate.Struct(request); err != nil {
		h.logger.Warn(ctx, " invalid request", zap.Error(err))
		response = h.failure(err)
		return
	}

	cart, err := h.cartService.Add(ctx, request)
	if err != nil {
		h.logger.Warn(ctx, " err on h.cartService.Add", zap.Error(err))
		response = h.failure(err)
		return
	}

	response = responses.Success
	response.Payload = cart
}

func (h *handler) UpdateCartItem(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UpdateCartItem
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	if err := validate.Struct(request); err != nil {
		h.logger.Warn(ctx, " invalid request", zap.Error(err))
		response = h.failure(err)
		return
	}

	cart, err := h.cartService.Update(ctx, request)
	if err != nil {
		h.logger.Warn(ctx, " err on h.cartService.Update", zap.Error(err))
		response = h.failure(err)
		return
	}

	response = responses.Success
	response.Payload = cart
}

func (h *handler) RemoveCartItem(c *gin.Context) {
	var (
		response structs.Response
		request  structs.RemoveCartItem
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	if err := validate.Struct(request); err != nil {
		h.logger.Warn(ctx, " invalid request", zap.Error(err))
		response = h.failure(err)
		return
	}

	cart, err := h.cartService.Remove(ctx, request)
	if err != nil {
		h.logger.Error(ctx, " err on h.cartService.Remove", zap.Error(err))
		response = h.failure(err)
		return
	}

	response = responses.Success
	response.Payload = cart
}

func (h *handler) ClearCart(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	err := h.cartService.Clear(ctx)
	if err != nil {
		h.logger.Error(ctx, " err on h.cartService.Clear", zap.Error(err))
		response = h.failure(err)
		return
	}

	response = responses.Success
}

func (h *handler) failure(err error) structs.Response {
	switch {
	case errors.Is(err, structs.ErrValidation):
		return responses.ValidationFailed
	case errors.Is(err, structs.ErrNotFound):
		return responses.NotFound
	case errors.Is(err, structs.ErrCartTooLarge):
		return responses.CartTooLarge
	default:
		return responses.InternalErr
	}
}
