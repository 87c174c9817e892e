package shopify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// OrderRestClient implements OrderClient over the resource-oriented
// transport: one direct request/response round-trip per operation.
type OrderRestClient struct {
	transport *restTransport
	pageSize  int
	logger    *zap.Logger

	// now is swapped in tests to pin the pull window
	now func() time.Time
}

// NewOrderRestClient creates a resource-transport order client.
func NewOrderRestClient(cfg *Config, logger *zap.Logger) *OrderRestClient {
	return &OrderRestClient{
		transport: newRestTransport(cfg),
		pageSize:  cfg.PageSize,
		logger:    logger,
		now:       time.Now,
	}
}

// FindByExternalID scans a fetched page of orders for one whose note field
// carries the external identity marker. The resource transport has no
// native identity-filtered query, so this is O(page size), bounded by the
// configured page size.
func (c *OrderRestClient) FindByExternalID(ctx context.Context, externalID string) (integration.PlatformEntity, error) {
	query := url.Values{}
	query.Set("fields", "id,name,order_number,note")
	query.Set("limit", strconv.Itoa(c.pageSize))

	data, err := c.transport.do(ctx, http.MethodGet, "orders.json", query, nil)
	if err != nil {
		return nil, err
	}

	marker := externalIDMarker(externalID)
	for _, order := range entityList(data, "orders") {
		if note, _ := order["note"].(string); note == marker {
			c.logger.Debug("order matched by external id",
				zap.String("external_id", externalID),
				zap.String("platform_id", integration.EntityID(order)))
			return order, nil
		}
	}
	c.logger.Debug("no order matched external id", zap.String("external_id", externalID))
	return nil, nil
}

// GetByID fetches a single order; a missing order yields (nil, nil).
func (c *OrderRestClient) GetByID(ctx context.Context, platformID string) (integration.PlatformEntity, error) {
	data, err := c.transport.do(ctx, http.MethodGet, "orders/"+platformID+".json", nil, nil)
	if err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return unwrapResource(data, "order"), nil
}

// Create creates an order.
func (c *OrderRestClient) Create(ctx context.Context, payload integration.WirePayload) (integration.PlatformEntity, error) {
	data, err := c.transport.do(ctx, http.MethodPost, "orders.json", nil, map[string]any{"order": payload})
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "order"), nil
}

// Update updates an existing order.
func (c *OrderRestClient) Update(ctx context.Context, platformID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	data, err := c.transport.do(ctx, http.MethodPut, "orders/"+platformID+".json", nil, map[string]any{"order": payload})
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "order"), nil
}

// Upsert runs the find-then-write protocol.
func (c *OrderRestClient) Upsert(ctx context.Context, externalID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return upsert(ctx, c, externalID, payload)
}

// Pull fetches orders created inside the bounded window, any status.
func (c *OrderRestClient) Pull(ctx context.Context, minHoursAgo, maxHoursAgo int) ([]integration.PlatformEntity, error) {
	createdAtMin, createdAtMax := pullWindow(c.now(), minHoursAgo, maxHoursAgo)

	query := url.Values{}
	query.Set("created_at_min", createdAtMin)
	query.Set("created_at_max", createdAtMax)
	query.Set("status", "any")
	query.Set("limit", strconv.Itoa(c.pageSize))

	data, err := c.transport.do(ctx, http.MethodGet, "orders.json", query, nil)
	if err != nil {
		return nil, err
	}
	orders := entityList(data, "orders")
	c.logger.Info("pulled orders",
		zap.Int("count", len(orders)),
		zap.String("created_at_min", createdAtMin),
		zap.String("created_at_max", createdAtMax))
	return orders, nil
}

// Cancel cancels an order.
func (c *OrderRestClient) Cancel(ctx context.Context, platformID string) (integration.PlatformEntity, error) {
	data, err := c.transport.do(ctx, http.MethodPost, "orders/"+platformID+"/cancel.json", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "order"), nil
}

// CreateFulfillment creates a fulfillment for the whole order.
func (c *OrderRestClient) CreateFulfillment(ctx context.Context, orderID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	data, err := c.transport.do(ctx, http.MethodPost, "orders/"+orderID+"/fulfillments.json", nil, map[string]any{"fulfillment": payload})
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "fulfillment"), nil
}

// CreatePartialFulfillment fulfills a subset of line items grouped by
// fulfillment order.
func (c *OrderRestClient) CreatePartialFulfillment(ctx context.Context, orderID string, lineItems []integration.WirePayload) (integration.PlatformEntity, error) {
	body := map[string]any{
		"fulfillment": map[string]any{
			"line_items_by_fulfillment_order": lineItems,
		},
	}
	data, err := c.transport.do(ctx, http.MethodPost, "orders/"+orderID+"/fulfillments.json", nil, body)
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "fulfillment"), nil
}

// CreateRefund creates a refund for an order.
func (c *OrderRestClient) CreateRefund(ctx context.Context, orderID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	data, err := c.transport.do(ctx, http.MethodPost, "orders/"+orderID+"/refunds.json", nil, map[string]any{"refund": payload})
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "refund"), nil
}

// CancelLineItems cancels individual line items via a refund without
// customer notification.
func (c *OrderRestClient) CancelLineItems(ctx context.Context, orderID string, cancellations []integration.WirePayload) (integration.PlatformEntity, error) {
	body := map[string]any{
		"refund": map[string]any{
			"refund_line_items": cancellations,
			"notify":            false,
		},
	}
	data, err := c.transport.do(ctx, http.MethodPost, "orders/"+orderID+"/refunds.json", nil, body)
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "refund"), nil
}

// UpdateTracking updates tracking information on a fulfillment.
func (c *OrderRestClient) UpdateTracking(ctx context.Context, fulfillmentID string, tracking integration.WirePayload) (integration.PlatformEntity, error) {
	body := map[string]any{
		"fulfillment": map[string]any{
			"tracking_info":   tracking,
			"notify_customer": false,
		},
	}
	data, err := c.transport.do(ctx, http.MethodPost, "fulfillments/"+fulfillmentID+"/update_tracking.json", nil, body)
	if err != nil {
		return nil, err
	}
	return unwrapResource(data, "fulfillment"), nil
}

// Ensure OrderRestClient implements OrderClient
var _ integration.OrderClient = (*OrderRestClient)(nil)
