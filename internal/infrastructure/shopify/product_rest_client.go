package shopify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// ProductRestClient implements ProductClient over the resource-oriented
// transport. Create and Update return the response envelope as delivered,
// with the entity nested under the singular resource key; callers extract
// the identity with integration.EntityID, which handles both depths.
type ProductRestClient struct {
	transport *restTransport
	pageSize  int
	logger    *zap.Logger
}

// NewProductRestClient creates a resource-transport product client.
func NewProductRestClient(cfg *Config, logger *zap.Logger) *ProductRestClient {
	return &ProductRestClient{
		transport: newRestTransport(cfg),
		pageSize:  cfg.PageSize,
		logger:    logger,
	}
}

// FindByExternalID scans a fetched page of products for one whose handle
// matches the lower-cased external identity, or whose metafields carry the
// externalId pair. O(page size), bounded by the configured page size.
func (c *ProductRestClient) FindByExternalID(ctx context.Context, externalID string) (integration.PlatformEntity, error) {
	query := url.Values{}
	query.Set("fields", "id,title,handle,tags,variants,metafields")
	query.Set("limit", strconv.Itoa(c.pageSize))

	data, err := c.transport.do(ctx, http.MethodGet, "products.json", query, nil)
	if err != nil {
		return nil, err
	}

	handle := strings.ToLower(externalID)
	for _, product := range entityList(data, "products") {
		if h, _ := product["handle"].(string); h == handle {
			c.logger.Debug("product matched by handle",
				zap.String("external_id", externalID),
				zap.String("platform_id", integration.EntityID(product)))
			return product, nil
		}
		if metafields, ok := product["metafields"].([]any); ok {
			for _, raw := range metafields {
				mf, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				key, _ := mf["key"].(string)
				value, _ := mf["value"].(string)
				if key == "externalId" && value == externalID {
					c.logger.Debug("product matched by metafield",
						zap.String("external_id", externalID),
						zap.String("platform_id", integration.EntityID(product)))
					return product, nil
				}
			}
		}
	}
	c.logger.Debug("no product matched external id", zap.String("external_id", externalID))
	return nil, nil
}

// Create creates a product. The returned envelope nests the created entity
// under the "product" key.
func (c *ProductRestClient) Create(ctx context.Context, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.do(ctx, http.MethodPost, "products.json", nil, map[string]any{"product": payload})
}

// Update updates an existing product.
func (c *ProductRestClient) Update(ctx context.Context, platformID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.do(ctx, http.MethodPut, "products/"+platformID+".json", nil, map[string]any{"product": payload})
}

// Upsert runs the find-then-write protocol.
func (c *ProductRestClient) Upsert(ctx context.Context, externalID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return upsert(ctx, c, externalID, payload)
}

// Ensure ProductRestClient implements ProductClient
var _ integration.ProductClient = (*ProductRestClient)(nil)
