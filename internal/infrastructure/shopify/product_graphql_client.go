package shopify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// ProductGraphqlClient implements ProductClient over the query/mutation
// transport. Mutations return the entity flat (no resource-key nesting).
type ProductGraphqlClient struct {
	transport *graphqlTransport
	logger    *zap.Logger
}

// NewProductGraphqlClient creates a query-transport product client.
func NewProductGraphqlClient(cfg *Config, logger *zap.Logger) *ProductGraphqlClient {
	return &ProductGraphqlClient{
		transport: newGraphqlTransport(cfg),
		logger:    logger,
	}
}

const productFindQuery = `
query FindProductByExternalId($query: String!) {
    products(first: 1, query: $query) {
        edges {
            node {
                id
                title
                handle
                metafields(first: 10) {
                    edges {
                        node {
                            namespace
                            key
                            value
                        }
                    }
                }
            }
        }
    }
}`

// FindByExternalID searches the externalId metafield. The search is
// deliberately broadened to metadata so products tagged after creation
// remain discoverable.
func (c *ProductGraphqlClient) FindByExternalID(ctx context.Context, externalID string) (integration.PlatformEntity, error) {
	search := fmt.Sprintf("metafield:custom.externalId:%s", externalID)

	data, err := c.transport.query(ctx, productFindQuery, map[string]any{"query": search})
	if err != nil {
		return nil, err
	}

	products, _ := data["products"].(map[string]any)
	edges, _ := products["edges"].([]any)
	if len(edges) == 0 {
		c.logger.Debug("no product matched external id", zap.String("external_id", externalID))
		return nil, nil
	}
	edge, _ := edges[0].(map[string]any)
	node, _ := edge["node"].(map[string]any)
	c.logger.Debug("product matched by metafield",
		zap.String("external_id", externalID),
		zap.String("platform_id", integration.EntityID(node)))
	return node, nil
}

const productCreateMutation = `
mutation CreateProduct($input: ProductInput!) {
    productCreate(input: $input) {
        product {
            id
            title
            handle
        }
        userErrors {
            field
            message
        }
    }
}`

// Create creates a product from the input payload.
func (c *ProductGraphqlClient) Create(ctx context.Context, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, productCreateMutation,
		map[string]any{"input": payload}, "productCreate", "product")
}

const productUpdateMutation = `
mutation UpdateProduct($id: ID!, $input: ProductInput!) {
    productUpdate(id: $id, input: $input) {
        product {
            id
            title
            handle
        }
        userErrors {
            field
            message
        }
    }
}`

// Update updates an existing product.
func (c *ProductGraphqlClient) Update(ctx context.Context, platformID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return c.transport.mutate(ctx, productUpdateMutation,
		map[string]any{"id": platformID, "input": payload}, "productUpdate", "product")
}

// Upsert runs the find-then-write protocol.
func (c *ProductGraphqlClient) Upsert(ctx context.Context, externalID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	return upsert(ctx, c, externalID, payload)
}

// Ensure ProductGraphqlClient implements ProductClient
var _ integration.ProductClient = (*ProductGraphqlClient)(nil)
