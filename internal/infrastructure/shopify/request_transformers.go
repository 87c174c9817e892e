package shopify

import (
	"github.com/shopbridge/backend/internal/domain/integration"
)

// Small request transformers for the fulfillment-side operations. Each
// renders only the fields the corresponding platform operation needs.

// TrackingInfoTransformer renders tracking details. Both transport variants
// accept the same triple.
type TrackingInfoTransformer struct{}

// Transform renders the tracking payload; optional fields are dropped.
func (TrackingInfoTransformer) Transform(info integration.TrackingInfo) integration.WirePayload {
	payload := integration.WirePayload{
		"number": info.Number,
	}
	if info.Company != "" {
		payload["company"] = info.Company
	}
	if info.URL != "" {
		payload["url"] = info.URL
	}
	return payload
}

// LineItemCancellationTransformer renders a line-item cancellation for the
// refund operation of the configured transport variant.
type LineItemCancellationTransformer struct {
	driver integration.Driver
}

// NewLineItemCancellationTransformer creates a transformer for the given
// transport variant.
func NewLineItemCancellationTransformer(driver integration.Driver) *LineItemCancellationTransformer {
	return &LineItemCancellationTransformer{driver: driver}
}

// Transform renders the cancellation record.
func (t *LineItemCancellationTransformer) Transform(c integration.LineItemCancellation) integration.WirePayload {
	if t.driver == integration.DriverGraphQL {
		return integration.WirePayload{
			"lineItemId": c.LineItemID,
			"quantity":   c.Quantity,
		}
	}
	return integration.WirePayload{
		"line_item_id": c.LineItemID,
		"quantity":     c.Quantity,
	}
}

// PartialFulfillmentItemTransformer renders a partial fulfillment line.
// Both variants take {id, quantity}.
type PartialFulfillmentItemTransformer struct{}

// Transform renders the fulfillment line record.
func (PartialFulfillmentItemTransformer) Transform(item integration.PartialFulfillmentItem) integration.WirePayload {
	return integration.WirePayload{
		"id":       item.LineItemID,
		"quantity": item.Quantity,
	}
}
