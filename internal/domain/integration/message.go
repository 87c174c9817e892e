package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Sync Messages
// ---------------------------------------------------------------------------
//
// One message type per entity kind, each carrying exactly one validated
// import. Messages are dispatched by a queue collaborator with at-least-once,
// possibly-concurrent, possibly-out-of-order delivery. This core provides no
// ordering guarantee per external identity; a production deployment must
// serialize messages per externalId (e.g. a partitioned queue key) or accept
// the duplicate-create race documented on Upsert.

// OrderSyncMessage carries exactly one order import through the queue.
type OrderSyncMessage struct {
	ID         uuid.UUID   `json:"id"`
	Order      OrderImport `json:"order"`
	EnqueuedAt time.Time   `json:"enqueuedAt"`
	// Attempts counts completed delivery attempts; the queue increments it
	// on each redelivery and drops the message at its attempt cap.
	Attempts int `json:"attempts,omitempty"`
}

// NewOrderSyncMessage wraps an order import in a queue message.
func NewOrderSyncMessage(imp OrderImport) OrderSyncMessage {
	return OrderSyncMessage{
		ID:         uuid.New(),
		Order:      imp,
		EnqueuedAt: time.Now().UTC(),
	}
}

// ProductSyncMessage carries exactly one product import through the queue.
type ProductSyncMessage struct {
	ID         uuid.UUID     `json:"id"`
	Product    ProductImport `json:"product"`
	EnqueuedAt time.Time     `json:"enqueuedAt"`
	// Attempts counts completed delivery attempts, as on OrderSyncMessage.
	Attempts int `json:"attempts,omitempty"`
}

// NewProductSyncMessage wraps a product import in a queue message.
func NewProductSyncMessage(imp ProductImport) ProductSyncMessage {
	return ProductSyncMessage{
		ID:         uuid.New(),
		Product:    imp,
		EnqueuedAt: time.Now().UTC(),
	}
}

// ---------------------------------------------------------------------------
// Queue Ports
// ---------------------------------------------------------------------------

// SyncQueue is the producer side of the dispatch pipeline.
type SyncQueue interface {
	EnqueueOrder(ctx context.Context, msg OrderSyncMessage) error
	EnqueueProduct(ctx context.Context, msg ProductSyncMessage) error
}

// OrderMessageHandler processes one order sync message. Handlers are
// stateless, perform a single platform call plus logging, and never retry
// internally; retry policy belongs to the queue infrastructure.
type OrderMessageHandler interface {
	HandleOrder(ctx context.Context, msg OrderSyncMessage) error
}

// ProductMessageHandler processes one product sync message.
type ProductMessageHandler interface {
	HandleProduct(ctx context.Context, msg ProductSyncMessage) error
}
