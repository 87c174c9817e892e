package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbridge/backend/internal/domain/integration"
)

func validOrderPayload() map[string]any {
	return map[string]any{
		"externalId": "ORD-1",
		"source":     "shopify",
		"currency":   "EUR",
		"total":      59.9,
		"subtotal":   49.9,
		"customer": map[string]any{
			"firstName": "Pat",
			"email":     "pat@example.com",
		},
		"shippingAddress": map[string]any{
			"city":       "Portland",
			"postalCode": "97201",
		},
		"lineItems": []any{
			map[string]any{
				"sku":      "SKU-1",
				"title":    "Widget",
				"quantity": float64(2),
				"price":    24.95,
			},
		},
	}
}

func TestOrderMapperMap(t *testing.T) {
	imp, err := NewOrderMapper().Map(validOrderPayload())

	require.NoError(t, err)
	assert.Equal(t, "ORD-1", imp.ExternalID)
	assert.Equal(t, "shopify", imp.Source)
	assert.Equal(t, "EUR", imp.Currency)
	assert.Equal(t, "59.9", imp.Total.String())
	assert.Equal(t, "pat@example.com", imp.Customer.Email)
	require.NotNil(t, imp.ShippingAddress)
	assert.Equal(t, "Portland", imp.ShippingAddress.City)
	assert.Nil(t, imp.BillingAddress)

	require.Len(t, imp.LineItems, 1)
	assert.Equal(t, "SKU-1", imp.LineItems[0].SKU)
	assert.Equal(t, 2, imp.LineItems[0].Quantity)
	assert.Equal(t, "24.95", imp.LineItems[0].Price.String())

	// The original payload travels along as the audit snapshot.
	assert.NotNil(t, imp.Raw)
}

func TestOrderMapperDefaults(t *testing.T) {
	payload := map[string]any{
		"externalId": "ORD-2",
		"lineItems": []any{
			map[string]any{"title": "Widget"},
		},
	}

	imp, err := NewOrderMapper().Map(payload)

	require.NoError(t, err)
	assert.Equal(t, integration.DefaultCurrency, imp.Currency)
	assert.Equal(t, 1, imp.LineItems[0].Quantity)
	assert.True(t, imp.LineItems[0].Price.IsZero())
}

func TestOrderMapperValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantErr error
	}{
		{
			name:    "missing externalId",
			mutate:  func(p map[string]any) { delete(p, "externalId") },
			wantErr: integration.ErrMissingField,
		},
		{
			name:    "missing line items",
			mutate:  func(p map[string]any) { delete(p, "lineItems") },
			wantErr: integration.ErrMissingField,
		},
		{
			name:    "empty line items",
			mutate:  func(p map[string]any) { p["lineItems"] = []any{} },
			wantErr: integration.ErrMissingField,
		},
		{
			name:    "line item not an object",
			mutate:  func(p map[string]any) { p["lineItems"] = []any{"bogus"} },
			wantErr: integration.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validOrderPayload()
			tt.mutate(payload)

			_, err := NewOrderMapper().Map(payload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderMapperMapBatch(t *testing.T) {
	broken := validOrderPayload()
	delete(broken, "externalId")

	second := validOrderPayload()
	second["externalId"] = "ORD-2"

	payload := map[string]any{
		"orders": []any{validOrderPayload(), broken, second, "not an object"},
	}

	imports, failures := NewOrderMapper().MapBatch(payload)

	require.Len(t, imports, 2)
	assert.Equal(t, "ORD-1", imports[0].ExternalID)
	assert.Equal(t, "ORD-2", imports[1].ExternalID)

	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0], integration.ErrMissingField)
	assert.ErrorIs(t, failures[1], integration.ErrInvalidPayload)
}

func TestOrderMapperMapBatchSinglePayload(t *testing.T) {
	imports, failures := NewOrderMapper().MapBatch(validOrderPayload())

	require.Empty(t, failures)
	require.Len(t, imports, 1)
	assert.Equal(t, "ORD-1", imports[0].ExternalID)
}
