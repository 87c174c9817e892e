package shopify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// OrderGraphqlClient implements OrderClient over the query/mutation
// transport. Every operation is a query or mutation with variables; mutation
// results are unwrapped from the nested {operation: {entity, userErrors}}
// envelope by the shared transport.
type OrderGraphqlClient struct {
	transport *graphqlTransport
	pageSize  int
	logger    *zap.Logger

	now func() time.Time
}

// NewOrderGraphqlClient creates a query-transport order client.
func NewOrderGraphqlClient(cfg *Config, logger *zap.Logger) *OrderGraphqlClient {
	return &OrderGraphqlClient{
		transport: newGraphqlTransport(cfg),
		pageSize:  cfg.PageSize,
		logger:    logger,
		now:       time.Now,
	}
}

const orderFindQuery = `
query FindOrder($query: String!) {
    orders(first: 1, query: $query) {
        nodes {
            id
            name
            note
        }
    }
}`

// FindByExternalID searches orders with the platform-native search syntax
// constructed from the external identity marker.
func (c *OrderGraphqlClient) FindByExternalID(ctx context.Context, externalID string) (integration.PlatformEntity, error) {
	search := fmt.Sprintf("note:%q", externalIDMarker(externalID))

	data, err := c.transport.query(ctx, orderFindQuery, map[string]any{"query": search})
	if err != nil {
		return nil, err
	}

	orders, _ := data["orders"].(map[string]any)
	nodes, _ := orders["nodes"].([]any)
	if len(nodes) == 0 {
		c.logger.Debug("no order matched external id", zap.String("external_id", externalID))
		return nil, nil
	}
	node, _ := nodes[0].(map[string]any)
	c.logger.Debug("order matched by external id",
		zap.String("external_id", externalID),
		zap.String("platform_id", integration.EntityID(node)))
	return node, nil
}

const orderGetQuery = `
query GetOrderById($id: ID!) {
    order(id: $id) {
        id
        name
        createdAt
        currencyCode
        totalPriceSet {
            shopMoney {
                amount
                currencyCode
            }
        }
        customer {
            firstName
            lastName
            email
        }
        lineItems(first: 50) {
            edges {
                node {
                    title
                    quantity
                    originalUnitPriceSet {
                        shopMoney {
                            amount
                            currencyCode
                        }
                    }
                }
            }
        }
    }
}`

// GetByID fetches a single order; a null node yields (nil, nil).
func (c *OrderGraphqlClient) GetByID(ctx context.Context, platformID string) (integration.PlatformEntity, error) {
	data, err := c.transport.query(ctx, orderGetQuery, map[string]any{"id": platformID})
	if err != nil {
		return nil, err
	}
	order, _ := data["order"].(map[string]any)
	return order, nil
}

const draftOrderCreateMutation = `
mutation CreateDraftOrder($input: DraftOrderInput!) {
    draftOrderCreate(input: $input) {
        draftOrder {
            id
            name
        }
        userErrors {
            field
            message
        }
    }
}`

// Create creates a draft order from the input payload.
func (c *OrderGraphqlClient) Create(ctx context.Context, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, draftOrderCreateMutation,
		map[string]any{"input": payload}, "draftOrderCreate", "draftOrder")
}

const draftOrderUpdateMutation = `
mutation UpdateDraftOrder($id: ID!, $input: DraftOrderInput!) {
    draftOrderUpdate(id: $id, input: $input) {
        draftOrder {
            id
            name
        }
        userErrors {
            field
            message
        }
    }
}`

// Update updates an existing draft order.
func (c *OrderGraphqlClient) Update(ctx context.Context, platformID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, draftOrderUpdateMutation,
		map[string]any{"id": platformID, "input": payload}, "draftOrderUpdate", "draftOrder")
}

// Upsert runs the find-then-write protocol.
func (c *OrderGraphqlClient) Upsert(ctx context.Context, externalID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return upsert(ctx, c, externalID, payload)
}

const orderPullQuery = `
query FindOrders($first: Int!, $query: String!) {
    orders(first: $first, query: $query) {
        nodes {
            id
            name
            note
            createdAt
            totalPriceSet {
                shopMoney {
                    amount
                    currencyCode
                }
            }
        }
    }
}`

// Pull fetches orders created inside the bounded window using the
// platform's created_at range search syntax.
func (c *OrderGraphqlClient) Pull(ctx context.Context, minHoursAgo, maxHoursAgo int) ([]integration.PlatformEntity, error) {
	createdAtMin, createdAtMax := pullWindow(c.now(), minHoursAgo, maxHoursAgo)
	search := fmt.Sprintf("created_at:>=%s created_at:<=%s", createdAtMin, createdAtMax)

	data, err := c.transport.query(ctx, orderPullQuery, map[string]any{
		"first": c.pageSize,
		"query": search,
	})
	if err != nil {
		return nil, err
	}

	orders, _ := data["orders"].(map[string]any)
	nodes, _ := orders["nodes"].([]any)
	out := make([]integration.PlatformEntity, 0, len(nodes))
	for _, raw := range nodes {
		if node, ok := raw.(map[string]any); ok {
			out = append(out, node)
		}
	}
	c.logger.Info("pulled orders",
		zap.Int("count", len(out)),
		zap.String("created_at_min", createdAtMin),
		zap.String("created_at_max", createdAtMax))
	return out, nil
}

const orderCancelMutation = `
mutation CancelOrder($id: ID!) {
    orderCancel(id: $id) {
        order {
            id
            name
            cancelReason
            cancelledAt
        }
        userErrors {
            field
            message
        }
    }
}`

// Cancel cancels an order.
func (c *OrderGraphqlClient) Cancel(ctx context.Context, platformID string) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, orderCancelMutation,
		map[string]any{"id": platformID}, "orderCancel", "order")
}

const fulfillmentCreateMutation = `
mutation FulfillOrder($orderId: ID!, $input: FulfillmentInput!) {
    fulfillmentCreate(orderId: $orderId, input: $input) {
        fulfillment {
            id
            status
        }
        userErrors {
            field
            message
        }
    }
}`

// CreateFulfillment creates a fulfillment for the whole order.
func (c *OrderGraphqlClient) CreateFulfillment(ctx context.Context, orderID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, fulfillmentCreateMutation,
		map[string]any{"orderId": orderID, "input": payload}, "fulfillmentCreate", "fulfillment")
}

const partialFulfillmentMutation = `
mutation CreatePartialFulfillment($input: FulfillmentCreateV2Input!) {
    fulfillmentCreateV2(input: $input) {
        fulfillment {
            id
            status
        }
        userErrors {
            field
            message
        }
    }
}`

// CreatePartialFulfillment fulfills a subset of line items. The mutation
// derives the order from the fulfillment orders, so orderID is accepted for
// contract parity with the resource variant but not sent.
func (c *OrderGraphqlClient) CreatePartialFulfillment(ctx context.Context, orderID string, lineItems []integration.WirePayload) (integration.PlatformEntity, error) {
	input := map[string]any{
		"lineItemsByFulfillmentOrder": lineItems,
	}
	return c.transport.mutate(ctx, partialFulfillmentMutation,
		map[string]any{"input": input}, "fulfillmentCreateV2", "fulfillment")
}

const refundCreateMutation = `
mutation CreateRefund($orderId: ID!, $refund: RefundInput!) {
    refundCreate(orderId: $orderId, refund: $refund) {
        refund {
            id
            legacyResourceId
            createdAt
        }
        userErrors {
            field
            message
        }
    }
}`

// CreateRefund creates a refund for an order.
func (c *OrderGraphqlClient) CreateRefund(ctx context.Context, orderID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, refundCreateMutation,
		map[string]any{"orderId": orderID, "refund": payload}, "refundCreate", "refund")
}

// CancelLineItems cancels individual line items via a refund without
// customer notification.
func (c *OrderGraphqlClient) CancelLineItems(ctx context.Context, orderID string, cancellations []integration.WirePayload) (integration.PlatformEntity, error) {
	refund := map[string]any{
		"refundLineItems": cancellations,
		"notify":          false,
	}
	return c.transport.mutate(ctx, refundCreateMutation,
		map[string]any{"orderId": orderID, "refund": refund}, "refundCreate", "refund")
}

const trackingUpdateMutation = `
mutation UpdateTracking($fulfillmentId: ID!, $trackingInfo: FulfillmentTrackingInput!) {
    fulfillmentTrackingUpdate(fulfillmentId: $fulfillmentId, trackingInfo: $trackingInfo) {
        fulfillment {
            id
        }
        userErrors {
            field
            message
        }
    }
}`

// UpdateTracking updates tracking information on a fulfillment.
func (c *OrderGraphqlClient) UpdateTracking(ctx context.Context, fulfillmentID string, tracking integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, trackingUpdateMutation,
		map[string]any{"fulfillmentId": fulfillmentID, "trackingInfo": tracking},
		"fulfillmentTrackingUpdate", "fulfillment")
}

// Ensure OrderGraphqlClient implements OrderClient
var _ integration.OrderClient = (*OrderGraphqlClient)(nil)
