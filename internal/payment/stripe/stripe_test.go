package stripe

import (
	"context"
	"testing"

	"storefront/internal/structs"
	"storefront/pkg/config"
	"storefront/pkg/logger"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParams(t *testing.T) {
	req := structs.PaymentSessionRequest{
		Currency: "usd",
		LineItems: []structs.PaymentLineItem{
			{Name: "Mug", UnitAmount: 1000, Quantity: 2},
			{Name: "Shirt", Description: "Variant: Large", Image: "https://cdn/shirt.png", UnitAmount: 2550, Quantity: 1},
		},
		SuccessURL:    "http://localhost:3002/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "http://localhost:3002/cart",
		CustomerEmail: "u1@example.com",
		Metadata:      map[string]string{"user_id": "u1"},
	}

	params := buildParams(req, []string{"US", "CA"})

	require.Len(t, params.LineItems, 2)
	mug := params.LineItems[0]
	assert.Equal(t, "usd", *mug.PriceData.Currency)
	assert.Equal(t, int64(1000), *mug.PriceData.UnitAmount)
	assert.Equal(t, int64(2), *mug.Quantity)
	assert.Nil(t, mug.PriceData.ProductData.Description)
	assert.Empty(t, mug.PriceData.ProductData.Images)

	shirt := params.LineItems[1]
	assert.Equal(t, "Variant: Large", *shirt.PriceData.ProductData.Description)
	require.Len(t, shirt.PriceData.ProductData.Images, 1)
	assert.Equal(t, "https://cdn/shirt.png", *shirt.PriceData.ProductData.Images[0])

	assert.Equal(t, "payment", *params.Mode)
	assert.Equal(t, "required", *params.BillingAddressCollection)
	assert.Equal(t, req.SuccessURL, *params.SuccessURL)
	assert.Equal(t, req.CancelURL, *params.CancelURL)
	assert.Equal(t, "u1@example.com", *params.CustomerEmail)
	assert.Equal(t, "u1", params.Metadata["user_id"])
	require.Len(t, params.ShippingAddressCollection.AllowedCountries, 2)
	assert.Equal(t, "CA", *params.ShippingAddressCollection.AllowedCountries[1])
}

func TestCreateSessionWithoutKey(t *testing.T) {
	svc := New(Params{Logger: logger.NewNop(), Config: config.New(viper.New())})

	_, err := svc.CreateSession(context.Background(), structs.PaymentSessionRequest{})

	assert.ErrorIs(t, err, ErrNotConfigured)
}
