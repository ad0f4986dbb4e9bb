package checkout

import (
	"errors"

	"storefront/internal/checkout"
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
		PrepareCheckout(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger          logger.Logger
		CheckoutService checkout.Service
	}

	handler struct {
		logger          logger.Logger
		checkoutService checkout.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:          p.Logger,
		checkoutService: p.CheckoutService,
	}
}

// PrepareCheckout returns the hosted payment URL; the client redirects.
func (h *handler) PrepareCheckout(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	session, err := h.checkoutService.Prepare(ctx)
	if err != nil {
		switch {
		case errors.Is(err, structs.ErrEmptyCart):
			response = responses.EmptyCart
		case errors.Is(err, structs.ErrCheckoutSession):
			h.logger.Error(ctx, " err on h.checkoutService.Prepare", zap.Error(err))
			response = responses.CheckoutFailed
		default:
			h.logger.Error(ctx, " err on h.checkoutService.Prepare", zap.Error(err))
			response = responses.InternalErr
		}
		return
	}

	response = responses.Success
	response.Payload = session
}
