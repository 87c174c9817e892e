package shopify

import (
	"github.com/shopbridge/backend/internal/domain/integration"
)

// externalIDMarker renders the free-text note value that overloads the
// resource transport's note field as the external identity marker.
func externalIDMarker(externalID string) string {
	return "externalId:" + externalID
}

// OrderWireTransformer converts a canonical Order into the wire shape a
// transport variant expects: the resource order object or the draft order
// input. Addresses render all present contact/location fields; line items
// render as title/quantity/price triples.
type OrderWireTransformer struct {
	driver integration.Driver
}

// NewOrderTransformer creates a transformer for the given transport variant.
func NewOrderTransformer(driver integration.Driver) *OrderWireTransformer {
	return &OrderWireTransformer{driver: driver}
}

// Transform renders the order for the configured transport variant.
func (t *OrderWireTransformer) Transform(order integration.Order) integration.WirePayload {
	if t.driver == integration.DriverGraphQL {
		return t.toDraftOrderInput(order)
	}
	return t.toResource(order)
}

// toResource renders the resource-transport order object. The note field
// carries the external identity marker for the page-scan lookup.
func (t *OrderWireTransformer) toResource(order integration.Order) integration.WirePayload {
	lineItems := make([]map[string]any, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lineItems = append(lineItems, map[string]any{
			"title":    item.Title,
			"quantity": item.Quantity,
			"price":    item.Price.StringFixed(2),
		})
	}

	payload := integration.WirePayload{
		"note":           externalIDMarker(order.ExternalID),
		"currency":       order.Currency,
		"total_price":    order.Total.StringFixed(2),
		"subtotal_price": order.Subtotal.StringFixed(2),
		"line_items":     lineItems,
	}
	if order.FinancialStatus != "" {
		payload["financial_status"] = order.FinancialStatus.String()
	}
	if order.FulfillmentStatus != "" {
		payload["fulfillment_status"] = order.FulfillmentStatus.String()
	}
	if order.Customer.Email != "" {
		payload["email"] = order.Customer.Email
	}
	if order.ShippingAddress != nil {
		payload["shipping_address"] = addressFields(*order.ShippingAddress)
	}
	if order.BillingAddress != nil {
		payload["billing_address"] = addressFields(*order.BillingAddress)
	}
	return payload
}

// toDraftOrderInput renders the query-transport DraftOrderInput.
func (t *OrderWireTransformer) toDraftOrderInput(order integration.Order) integration.WirePayload {
	lineItems := make([]map[string]any, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lineItems = append(lineItems, map[string]any{
			"title":             item.Title,
			"quantity":          item.Quantity,
			"originalUnitPrice": item.Price.StringFixed(2),
		})
	}

	payload := integration.WirePayload{
		"note":      externalIDMarker(order.ExternalID),
		"lineItems": lineItems,
	}
	if order.Customer.Email != "" {
		payload["email"] = order.Customer.Email
	}
	if order.ShippingAddress != nil {
		payload["shippingAddress"] = addressFields(*order.ShippingAddress)
	}
	if order.BillingAddress != nil {
		payload["billingAddress"] = addressFields(*order.BillingAddress)
	}
	return payload
}

// addressFields renders all present contact/location fields of an address;
// absent fields are dropped, not nulled.
func addressFields(a integration.Address) map[string]any {
	fields := map[string]any{}
	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set("name", a.Name)
	set("phone", a.Phone)
	set("address1", a.Address1)
	set("address2", a.Address2)
	set("city", a.City)
	set("province", a.Province)
	set("zip", a.PostalCode)
	set("country", a.Country)
	return fields
}

// Ensure OrderWireTransformer implements OrderTransformer
var _ integration.OrderTransformer = (*OrderWireTransformer)(nil)
