package checkout

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/ctxman"
	"storefront/internal/payment/stripe"
	"storefront/internal/structs"
	"storefront/internal/unifiedcart"
	"storefront/pkg/config"
	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const guestMetadata = "guest"

type (
	Params struct {
		fx.In
		Cart     unifiedcart.Service
		Payments stripe.Service
		Config   config.IConfig
		Logger   logger.Logger
	}

	// Service hands the current cart to the payment session creator.
	Service interface {
		Prepare(ctx context.Context) (structs.CheckoutSession, error)
	}
	service struct {
		cart     unifiedcart.Service
		payments stripe.Service
		logger   logger.Logger
		appURL   string
		currency string
	}
)

func New(p Params) Service {
	return &service{
		cart:     p.Cart,
		payments: p.Payments,
		logger:   p.Logger,
		appURL:   strings.TrimRight(p.Config.GetString("app.url"), "/"),
		currency: p.Config.GetString("checkout.currency"),
	}
}

func (s *service) Prepare(ctx context.Context) (structs.CheckoutSession, error) {
	cart, err := s.cart.Get(ctx)
	if err != nil {
		s.logger.Debug(ctx, "->cart.Get", zap.Error(err))
		return structs.CheckoutSession{}, err
	}
	if cart.Summary.ItemCount == 0 || len(cart.Items) == 0 {
		return structs.CheckoutSession{}, structs.ErrEmptyCart
	}

	req := structs.PaymentSessionRequest{
		Currency:   s.currency,
		LineItems:  LineItems(cart.Items),
		SuccessURL: s.appURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.appURL + "/cart",
		Metadata:   map[string]string{"user_id": guestMetadata},
	}
	if identity, ok := ctxman.Identity(ctx); ok {
		req.CustomerEmail = identity.Email
		req.Metadata["user_id"] = identity.UserID
	}

	session, err := s.payments.CreateSession(ctx, req)
	if err != nil {
		s.logger.Debug(ctx, "->payments.CreateSession", zap.Error(err))
		return structs.CheckoutSession{}, fmt.Errorf("%w: %w", structs.ErrCheckoutSession, err)
	}
	if session.URL == "" {
		s.logger.Warn(ctx, "payment session without redirect url", zap.String("session_id", session.ID))
		return structs.CheckoutSession{}, structs.ErrCheckoutSession
	}

	return structs.CheckoutSession{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// LineItems maps cart lines to payment lines priced in minor units.
func LineItems(items []structs.CartItem) []structs.PaymentLineItem {
	lines := make([]structs.PaymentLineItem, 0, len(items))
	for _, item := range items {
		line := structs.PaymentLineItem{
			UnitAmount: MinorUnits(item.UnitPrice()),
			Quantity:   item.Quantity,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			if len(item.Product.Images) > 0 {
				line.Image = item.Product.Images[0]
			}
		}
		if item.Variant != nil {
			line.Description = "Variant: " + item.Variant.Name
		}
		lines = append(lines, line)
	}
	return lines
}

// MinorUnits converts to cents, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
