package integration

import (
	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when an inbound payload omits the currency code.
const DefaultCurrency = "USD"

// ---------------------------------------------------------------------------
// Product Value Objects
// ---------------------------------------------------------------------------

// Variant is one purchasable variation of a product. SKU is required;
// color and size are optional and drive option derivation (see Options).
type Variant struct {
	SKU      string          `json:"sku"`
	Color    string          `json:"color,omitempty"`
	Size     string          `json:"size,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	// Inventory is the available stock count; nil means unknown upstream
	Inventory *int `json:"inventory,omitempty"`
}

// ProductImport is the validated intermediate form produced by the
// ProductMapper from an inbound payload. Consumed once and discarded.
type ProductImport struct {
	// ExternalID is the sole cross-system identity key, never empty
	ExternalID  string    `json:"externalId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	Variants    []Variant `json:"variants"`
	ImageURLs   []string  `json:"imageUrls,omitempty"`
}

// Product is the canonical product entity, immutable once constructed.
type Product struct {
	ExternalID  string
	Title       string
	Description string
	Brand       string
	Category    string
	Variants    []Variant
	ImageURLs   []string
}

// ProductFromImport converts a validated import into the canonical Product.
func ProductFromImport(imp ProductImport) Product {
	return Product{
		ExternalID:  imp.ExternalID,
		Title:       imp.Title,
		Description: imp.Description,
		Brand:       imp.Brand,
		Category:    imp.Category,
		Variants:    imp.Variants,
		ImageURLs:   imp.ImageURLs,
	}
}

// Options derives the option name list from the variant set. "Color" appears
// iff at least one variant carries a non-empty color, "Size" iff at least one
// carries a non-empty size. The result is deterministic and independent of
// variant ordering.
func (p Product) Options() []string {
	hasColor := false
	hasSize := false
	for _, v := range p.Variants {
		if v.Color != "" {
			hasColor = true
		}
		if v.Size != "" {
			hasSize = true
		}
	}

	options := make([]string, 0, 2)
	if hasColor {
		options = append(options, "Color")
	}
	if hasSize {
		options = append(options, "Size")
	}
	return options
}
