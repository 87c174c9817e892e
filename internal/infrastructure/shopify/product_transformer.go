package shopify

import (
	"strings"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// ProductWireTransformer converts a canonical Product into the wire shape a
// transport variant expects. Both variants share the structural rules
// (option derivation, "Default" color fallback, two-decimal price strings,
// sparse optional fields) and differ only in field naming and in how the
// external identity marker is carried.
type ProductWireTransformer struct {
	driver integration.Driver
}

// NewProductTransformer creates a transformer for the given transport variant.
func NewProductTransformer(driver integration.Driver) *ProductWireTransformer {
	return &ProductWireTransformer{driver: driver}
}

// Transform renders the product for the configured transport variant.
// Two-decimal price formatting happens here and nowhere else.
func (t *ProductWireTransformer) Transform(product integration.Product) integration.WirePayload {
	if t.driver == integration.DriverGraphQL {
		return t.toProductInput(product)
	}
	return t.toResource(product)
}

// toResource renders the resource-transport product object. The handle
// carries the lower-cased external identity so the resource transport's
// page-scan lookup can match it.
func (t *ProductWireTransformer) toResource(product integration.Product) integration.WirePayload {
	images := make([]map[string]any, 0, len(product.ImageURLs))
	for _, url := range product.ImageURLs {
		images = append(images, map[string]any{"src": url})
	}

	options := make([]map[string]any, 0, 2)
	for _, name := range product.Options() {
		options = append(options, map[string]any{"name": name})
	}

	variants := make([]map[string]any, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, t.resourceVariant(v))
	}

	return integration.WirePayload{
		"title":        product.Title,
		"handle":       strings.ToLower(product.ExternalID),
		"body_html":    product.Description,
		"vendor":       fallback(product.Brand, "Unknown"),
		"product_type": fallback(product.Category, "Uncategorized"),
		"images":       images,
		"options":      options,
		"variants":     variants,
	}
}

// resourceVariant maps one variant to its wire record. Color defaults to the
// literal "Default" so the option schema stays consistent; size is omitted
// entirely when absent, matching the external schema's sparse-field
// convention.
func (t *ProductWireTransformer) resourceVariant(v integration.Variant) map[string]any {
	record := map[string]any{
		"sku":     v.SKU,
		"price":   v.Price.StringFixed(2),
		"option1": fallback(v.Color, "Default"),
	}
	if v.Size != "" {
		record["option2"] = v.Size
	}
	inventory := 0
	if v.Inventory != nil {
		inventory = *v.Inventory
	}
	record["inventory_quantity"] = inventory
	return record
}

// toProductInput renders the query-transport ProductInput. The external
// identity travels as a metafield so products tagged after creation stay
// discoverable through metadata search.
func (t *ProductWireTransformer) toProductInput(product integration.Product) integration.WirePayload {
	variants := make([]map[string]any, 0, len(product.Variants))
	for _, v := range product.Variants {
		options := []string{fallback(v.Color, "Default")}
		if v.Size != "" {
			options = append(options, v.Size)
		}
		variants = append(variants, map[string]any{
			"sku":     v.SKU,
			"price":   v.Price.StringFixed(2),
			"options": options,
		})
	}

	return integration.WirePayload{
		"title":           product.Title,
		"handle":          strings.ToLower(product.ExternalID),
		"descriptionHtml": product.Description,
		"vendor":          fallback(product.Brand, "Unknown"),
		"productType":     fallback(product.Category, "Uncategorized"),
		"options":         product.Options(),
		"variants":        variants,
		"metafields": []map[string]any{
			{
				"namespace": "custom",
				"key":       "externalId",
				"value":     product.ExternalID,
				"type":      "single_line_text_field",
			},
		},
	}
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

// Ensure ProductWireTransformer implements ProductTransformer
var _ integration.ProductTransformer = (*ProductWireTransformer)(nil)
