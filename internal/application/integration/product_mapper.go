package integration

import (
	"fmt"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// ProductMapper validates and converts untyped inbound product payloads into
// ProductImport values. Pure function, no side effects.
type ProductMapper struct{}

// NewProductMapper creates a new ProductMapper
func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

// Map converts a single product payload into a validated ProductImport.
// Variants are optional, but when the key is present it must be an array.
func (m *ProductMapper) Map(payload map[string]any) (integration.ProductImport, error) {
	externalID := stringField(payload, "externalId")
	if externalID == "" {
		return integration.ProductImport{}, fmt.Errorf("%w: externalId", integration.ErrMissingField)
	}

	title := stringField(payload, "title")
	if title == "" {
		return integration.ProductImport{}, fmt.Errorf("%w: title (product %s)", integration.ErrMissingField, externalID)
	}

	var variants []integration.Variant
	if raw, present := payload["variants"]; present {
		rawVariants, ok := raw.([]any)
		if !ok {
			return integration.ProductImport{}, fmt.Errorf("%w: variants must be an array (product %s)", integration.ErrInvalidPayload, externalID)
		}
		variants = make([]integration.Variant, 0, len(rawVariants))
		for i, rv := range rawVariants {
			v, ok := rv.(map[string]any)
			if !ok {
				return integration.ProductImport{}, fmt.Errorf("%w: variants[%d] is not an object (product %s)", integration.ErrInvalidPayload, i, externalID)
			}
			variants = append(variants, integration.Variant{
				SKU:       stringField(v, "sku"),
				Color:     stringField(v, "color"),
				Size:      stringField(v, "size"),
				Price:     toDecimal(v["price"]),
				Currency:  stringFieldDefault(v, "currency", integration.DefaultCurrency),
				Inventory: toIntPtr(v["inventory"]),
			})
		}
	}

	return integration.ProductImport{
		ExternalID:  externalID,
		Title:       title,
		Description: stringField(payload, "description"),
		Brand:       stringField(payload, "brand"),
		Category:    stringField(payload, "category"),
		Variants:    variants,
		ImageURLs:   toStrings(payload["imageUrls"]),
	}, nil
}

// MapBatch maps a wrapper payload carrying a "products" collection, or a
// single product payload when the collection key is absent. Per-element
// failures are isolated exactly like OrderMapper.MapBatch.
func (m *ProductMapper) MapBatch(payload map[string]any) ([]integration.ProductImport, []error) {
	rawProducts, ok := payload["products"].([]any)
	if !ok {
		imp, err := m.Map(payload)
		if err != nil {
			return nil, []error{err}
		}
		return []integration.ProductImport{imp}, nil
	}

	imports := make([]integration.ProductImport, 0, len(rawProducts))
	var failures []error
	for i, raw := range rawProducts {
		product, ok := raw.(map[string]any)
		if !ok {
			failures = append(failures, fmt.Errorf("%w: products[%d] is not an object", integration.ErrInvalidPayload, i))
			continue
		}
		imp, err := m.Map(product)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		imports = append(imports, imp)
	}
	return imports, failures
}
