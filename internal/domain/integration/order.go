package integration

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order Status Enums
// ---------------------------------------------------------------------------

// FinancialStatus represents the payment state of an order
type FinancialStatus string

const (
	FinancialStatusPending           FinancialStatus = "pending"
	FinancialStatusAuthorized        FinancialStatus = "authorized"
	FinancialStatusPaid              FinancialStatus = "paid"
	FinancialStatusPartiallyRefunded FinancialStatus = "partially_refunded"
	FinancialStatusRefunded          FinancialStatus = "refunded"
	FinancialStatusVoided            FinancialStatus = "voided"
)

// String returns the string representation of FinancialStatus
func (s FinancialStatus) String() string {
	return string(s)
}

// FulfillmentStatus represents the shipping state of an order
type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentStatusPartial     FulfillmentStatus = "partial"
	FulfillmentStatusFulfilled   FulfillmentStatus = "fulfilled"
)

// String returns the string representation of FulfillmentStatus
func (s FulfillmentStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Order Value Objects
// ---------------------------------------------------------------------------

// Customer carries the buyer's contact attributes. All fields are optional
// except ExternalID, which is used for matching when present.
type Customer struct {
	ExternalID string `json:"externalId,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Address is a shipping or billing address. All fields are optional; the two
// roles are structurally identical.
type Address struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// LineItem is a single position on an order.
type LineItem struct {
	ExternalID string `json:"externalId,omitempty"`
	SKU        string `json:"sku,omitempty"`
	// Title is the product title shown on the order
	Title string `json:"title,omitempty"`
	// VariantTitle is the variant specification (e.g. "Red / S")
	VariantTitle string `json:"variantTitle,omitempty"`
	// Quantity is the ordered quantity, always positive (defaults to 1)
	Quantity int `json:"quantity"`
	// Price is the unit price, non-negative
	Price decimal.Decimal `json:"price"`
}

// OrderImport is the validated intermediate form produced by the OrderMapper
// from an inbound payload or a pull result. It is consumed once by exactly
// one handler invocation and discarded afterwards; nothing in this core
// persists it.
type OrderImport struct {
	// ExternalID is the sole cross-system identity key, never empty
	ExternalID string `json:"externalId"`
	// Source tags the originating system ("shopify", "tiktok", "meta", ...)
	Source string `json:"source,omitempty"`
	// Currency is the ISO currency code (defaults to DefaultCurrency)
	Currency          string            `json:"currency"`
	Total             decimal.Decimal   `json:"total"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	FinancialStatus   FinancialStatus   `json:"financialStatus,omitempty"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus,omitempty"`
	// CreatedAt is the platform creation timestamp as received (ISO-8601)
	CreatedAt       string     `json:"createdAt,omitempty"`
	Customer        Customer   `json:"customer"`
	ShippingAddress *Address   `json:"shippingAddress,omitempty"`
	BillingAddress  *Address   `json:"billingAddress,omitempty"`
	LineItems       []LineItem `json:"lineItems"`
	// Raw is the original payload snapshot, kept for audit/replay
	Raw map[string]any `json:"raw,omitempty"`
}

// Order is the canonical order entity. Immutable once constructed; every
// instance originates from a fully validated OrderImport, so no partially
// valid Order can exist.
type Order struct {
	ExternalID        string
	Source            string
	Currency          string
	Total             decimal.Decimal
	Subtotal          decimal.Decimal
	FinancialStatus   FinancialStatus
	FulfillmentStatus FulfillmentStatus
	CreatedAt         string
	Customer          Customer
	ShippingAddress   *Address
	BillingAddress    *Address
	LineItems         []LineItem
}

// OrderFromImport converts a validated import into the canonical Order.
func OrderFromImport(imp OrderImport) Order {
	return Order{
		ExternalID:        imp.ExternalID,
		Source:            imp.Source,
		Currency:          imp.Currency,
		Total:             imp.Total,
		Subtotal:          imp.Subtotal,
		FinancialStatus:   imp.FinancialStatus,
		FulfillmentStatus: imp.FulfillmentStatus,
		CreatedAt:         imp.CreatedAt,
		Customer:          imp.Customer,
		ShippingAddress:   imp.ShippingAddress,
		BillingAddress:    imp.BillingAddress,
		LineItems:         imp.LineItems,
	}
}

// ---------------------------------------------------------------------------
// Fulfillment / Refund / Tracking Request Types
// ---------------------------------------------------------------------------

// TrackingInfo carries the fields a tracking update needs.
type TrackingInfo struct {
	Number  string `json:"number"`
	Company string `json:"company,omitempty"`
	URL     string `json:"url,omitempty"`
}

// LineItemCancellation requests cancellation of a quantity of one line item.
type LineItemCancellation struct {
	// LineItemID is the platform line item ID
	LineItemID string `json:"lineItemId"`
	SKU        string `json:"sku,omitempty"`
	// Quantity is the quantity to cancel
	Quantity int `json:"quantity"`
	// Reason is free-form ("customer", "inventory", ...)
	Reason string `json:"reason,omitempty"`
}

// PartialFulfillmentItem requests fulfillment of a quantity of one line item
// belonging to a fulfillment order.
type PartialFulfillmentItem struct {
	LineItemID string `json:"lineItemId"`
	Quantity   int    `json:"quantity"`
}

// RefundRequest carries the fields a refund creation needs.
type RefundRequest struct {
	Note      string                 `json:"note,omitempty"`
	Notify    bool                   `json:"notify"`
	LineItems []LineItemCancellation `json:"lineItems,omitempty"`
}
