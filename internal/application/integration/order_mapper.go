package integration

import (
	"fmt"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// OrderMapper validates and converts untyped inbound order payloads (webhook
// bodies, pull results) into OrderImport values. It is a pure function over
// the payload: no side effects, no logging.
type OrderMapper struct{}

// NewOrderMapper creates a new OrderMapper
func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

// Map converts a single order payload into a validated OrderImport. The
// mapper either produces a fully populated import or fails; no partially
// valid order can escape.
func (m *OrderMapper) Map(payload map[string]any) (integration.OrderImport, error) {
	externalID := stringField(payload, "externalId")
	if externalID == "" {
		return integration.OrderImport{}, fmt.Errorf("%w: externalId", integration.ErrMissingField)
	}

	rawItems, ok := payload["lineItems"].([]any)
	if !ok || len(rawItems) == 0 {
		return integration.OrderImport{}, fmt.Errorf("%w: order %s requires at least one line item", integration.ErrMissingField, externalID)
	}

	lineItems := make([]integration.LineItem, 0, len(rawItems))
	for i, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			return integration.OrderImport{}, fmt.Errorf("%w: line item %d is not an object", integration.ErrInvalidPayload, i)
		}
		lineItems = append(lineItems, integration.LineItem{
			ExternalID:   stringField(item, "externalId"),
			SKU:          stringField(item, "sku"),
			Title:        stringField(item, "title"),
			VariantTitle: stringField(item, "variantTitle"),
			Quantity:     toInt(item["quantity"], 1),
			Price:        toDecimal(item["price"]),
		})
	}

	imp := integration.OrderImport{
		ExternalID:        externalID,
		Source:            stringField(payload, "source"),
		Currency:          stringFieldDefault(payload, "currency", integration.DefaultCurrency),
		Total:             toDecimal(payload["total"]),
		Subtotal:          toDecimal(payload["subtotal"]),
		FinancialStatus:   integration.FinancialStatus(stringField(payload, "financialStatus")),
		FulfillmentStatus: integration.FulfillmentStatus(stringField(payload, "fulfillmentStatus")),
		CreatedAt:         stringField(payload, "createdAt"),
		LineItems:         lineItems,
		Raw:               payload,
	}

	if customer, ok := mapField(payload, "customer"); ok {
		imp.Customer = mapCustomer(customer)
	}
	if shipping, ok := mapField(payload, "shippingAddress"); ok {
		addr := mapAddress(shipping)
		imp.ShippingAddress = &addr
	}
	if billing, ok := mapField(payload, "billingAddress"); ok {
		addr := mapAddress(billing)
		imp.BillingAddress = &addr
	}

	return imp, nil
}

// MapBatch maps a wrapper payload carrying an "orders" collection, or a
// single order payload when the collection key is absent. Each element is
// mapped independently; a defect in element N never blocks mapping of its
// siblings. Returns the successfully mapped imports and the per-element
// failures.
func (m *OrderMapper) MapBatch(payload map[string]any) ([]integration.OrderImport, []error) {
	rawOrders, ok := payload["orders"].([]any)
	if !ok {
		imp, err := m.Map(payload)
		if err != nil {
			return nil, []error{err}
		}
		return []integration.OrderImport{imp}, nil
	}

	imports := make([]integration.OrderImport, 0, len(rawOrders))
	var failures []error
	for i, raw := range rawOrders {
		order, ok := raw.(map[string]any)
		if !ok {
			failures = append(failures, fmt.Errorf("%w: orders[%d] is not an object", integration.ErrInvalidPayload, i))
			continue
		}
		imp, err := m.Map(order)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		imports = append(imports, imp)
	}
	return imports, failures
}

func mapCustomer(c map[string]any) integration.Customer {
	return integration.Customer{
		ExternalID: stringField(c, "externalId"),
		FirstName:  stringField(c, "firstName"),
		LastName:   stringField(c, "lastName"),
		Email:      stringField(c, "email"),
		Phone:      stringField(c, "phone"),
	}
}

func mapAddress(a map[string]any) integration.Address {
	return integration.Address{
		Name:       stringField(a, "name"),
		Phone:      stringField(a, "phone"),
		Address1:   stringField(a, "address1"),
		Address2:   stringField(a, "address2"),
		City:       stringField(a, "city"),
		Province:   stringField(a, "province"),
		PostalCode: stringField(a, "postalCode"),
		Country:    stringField(a, "country"),
	}
}
