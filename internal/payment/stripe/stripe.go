package stripe

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/structs"
	"storefront/pkg/config"
	"storefront/pkg/logger"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)

	ErrNotConfigured = errors.New("stripe secret key is not configured")
)

type Params struct {
	fx.In
	Logger logger.Logger
	Config config.IConfig
}

// Service creates hosted payment sessions. No payment state is kept here.
type Service interface {
	CreateSession(ctx context.Context, req structs.PaymentSessionRequest) (structs.PaymentSession, error)
}

type service struct {
	logger           logger.Logger
	api              *client.API
	allowedCountries []string
}

func New(p Params) Service {
	s := &service{
		logger:           p.Logger,
		allowedCountries: p.Config.GetStringSlice("checkout.allowed_countries"),
	}
	if key := p.Config.GetString("stripe.secret_key"); key != "" {
		s.api = &client.API{}
		s.api.Init(key, nil)
	} else {
		p.Logger.Warn(context.Background(), "stripe.secret_key is empty, checkout is disabled")
	}
	return s
}

func (s *service) CreateSession(ctx context.Context, req structs.PaymentSessionRequest) (structs.PaymentSession, error) {
	if s.api == nil {
		return structs.PaymentSession{}, ErrNotConfigured
	}

	params := buildParams(req, s.allowedCountries)
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		s.logger.Error(ctx, "->CheckoutSessions.New", zap.Error(err))
		return structs.PaymentSession{}, fmt.Errorf("create stripe checkout session: %w", err)
	}

	s.logger.Info(ctx, "stripe checkout session created", zap.String("session_id", session.ID))
	return structs.PaymentSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

func buildParams(req structs.PaymentSessionRequest, allowedCountries []string) *stripego.CheckoutSessionParams {
	lineItems := make([]*stripego.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		product := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripego.String(item.Description)
		}
		if item.Image != "" {
			product.Images = stripego.StringSlice([]string{item.Image})
		}

		lineItems = append(lineItems, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(req.Currency),
				ProductData: product,
				UnitAmount:  stripego.Int64(item.UnitAmount),
			},
			Quantity: stripego.Int64(item.Quantity),
		})
	}

	params := &stripego.CheckoutSessionParams{
		Mode:                     stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes:       stripego.StringSlice([]string{"card"}),
		LineItems:                lineItems,
		SuccessURL:               stripego.String(req.SuccessURL),
		CancelURL:                stripego.String(req.CancelURL),
		BillingAddressCollection: stripego.String(string(stripego.CheckoutSessionBillingAddressCollectionRequired)),
	}
	if len(allowedCountries) > 0 {
		params.ShippingAddressCollection = &stripego.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripego.StringSlice(allowedCountries),
		}
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripego.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}
