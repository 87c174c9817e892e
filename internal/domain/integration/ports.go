package integration

import (
	"context"
	"encoding/json"
	"strconv"
)

// WirePayload is a transport-shaped JSON object produced by a Transformer.
// The untyped form exists only at the wire boundary; it never flows back
// into the canonical model.
type WirePayload = map[string]any

// PlatformEntity is a decoded platform response object. Depending on the
// transport variant the platform identity may sit at the top level or nested
// under a singular resource key; use EntityID to extract it uniformly.
type PlatformEntity = map[string]any

// EntityID extracts the platform identity from a response object, looking at
// the top-level "id" first and then under the nested "order"/"product"
// resource keys. Returns "" when no identity is present.
func EntityID(entity PlatformEntity) string {
	if entity == nil {
		return ""
	}
	if id := scalarID(entity["id"]); id != "" {
		return id
	}
	for _, key := range []string{"order", "product", "fulfillment", "refund"} {
		if nested, ok := entity[key].(map[string]any); ok {
			if id := scalarID(nested["id"]); id != "" {
				return id
			}
		}
	}
	return ""
}

func scalarID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Transport Driver
// ---------------------------------------------------------------------------

// Driver selects which transport variant serves a deployment.
type Driver string

const (
	// DriverREST selects the resource-oriented transport
	DriverREST Driver = "rest"
	// DriverGraphQL selects the query/mutation transport
	DriverGraphQL Driver = "graphql"
)

// IsValid returns true if the driver is a known transport variant
func (d Driver) IsValid() bool {
	return d == DriverREST || d == DriverGraphQL
}

// String returns the string representation of Driver
func (d Driver) String() string {
	return string(d)
}

// ---------------------------------------------------------------------------
// Transport Client Ports
// ---------------------------------------------------------------------------

// OrderClient is the transport port for order operations. Both transport
// variants satisfy it identically from the caller's perspective: lookups
// return (nil, nil) when no entity matches, and every failure is one of the
// taxonomy kinds in errors.go so callers never branch on transport identity.
type OrderClient interface {
	// FindByExternalID looks up an order by its external identity marker.
	// Returns (nil, nil) when no order matches.
	FindByExternalID(ctx context.Context, externalID string) (PlatformEntity, error)

	// GetByID fetches a single order by platform ID.
	// Returns (nil, nil) when the order does not exist.
	GetByID(ctx context.Context, platformID string) (PlatformEntity, error)

	// Create creates a new order from a wire payload
	Create(ctx context.Context, payload WirePayload) (PlatformEntity, error)

	// Update updates an existing order
	Update(ctx context.Context, platformID string, payload WirePayload) (PlatformEntity, error)

	// Upsert runs the find-then-write protocol: update when an order with
	// the external identity exists, create otherwise. The read-then-write
	// sequence carries no transactional guarantee; concurrent upserts for
	// the same external identity may both create. Serialization per
	// external identity is the queue collaborator's contract.
	Upsert(ctx context.Context, externalID string, payload WirePayload) (PlatformEntity, error)

	// Pull fetches orders created between now-maxHoursAgo and
	// now-minHoursAgo (UTC, boundaries inclusive)
	Pull(ctx context.Context, minHoursAgo, maxHoursAgo int) ([]PlatformEntity, error)

	// Cancel cancels an order on the platform
	Cancel(ctx context.Context, platformID string) (PlatformEntity, error)

	// CreateFulfillment creates a fulfillment for the whole order
	CreateFulfillment(ctx context.Context, orderID string, payload WirePayload) (PlatformEntity, error)

	// CreatePartialFulfillment fulfills a subset of line items grouped by
	// fulfillment order
	CreatePartialFulfillment(ctx context.Context, orderID string, lineItems []WirePayload) (PlatformEntity, error)

	// CreateRefund creates a refund for an order
	CreateRefund(ctx context.Context, orderID string, payload WirePayload) (PlatformEntity, error)

	// CancelLineItems cancels individual line items via a refund
	CancelLineItems(ctx context.Context, orderID string, cancellations []WirePayload) (PlatformEntity, error)

	// UpdateTracking updates tracking information on a fulfillment
	UpdateTracking(ctx context.Context, fulfillmentID string, tracking WirePayload) (PlatformEntity, error)
}

// ProductClient is the transport port for product operations.
type ProductClient interface {
	// FindByExternalID looks up a product by its external identity.
	// Returns (nil, nil) when no product matches.
	FindByExternalID(ctx context.Context, externalID string) (PlatformEntity, error)

	// Create creates a new product from a wire payload
	Create(ctx context.Context, payload WirePayload) (PlatformEntity, error)

	// Update updates an existing product
	Update(ctx context.Context, platformID string, payload WirePayload) (PlatformEntity, error)

	// Upsert runs the find-then-write protocol for products. Same race
	// boundary as OrderClient.Upsert.
	Upsert(ctx context.Context, externalID string, payload WirePayload) (PlatformEntity, error)
}

// ---------------------------------------------------------------------------
// Outbound Transformer Ports
// ---------------------------------------------------------------------------

// OrderTransformer converts a canonical Order into the wire shape a
// transport variant expects. Price formatting to two decimal places happens
// only here, never internally.
type OrderTransformer interface {
	Transform(order Order) WirePayload
}

// ProductTransformer converts a canonical Product into the wire shape a
// transport variant expects.
type ProductTransformer interface {
	Transform(product Product) WirePayload
}
