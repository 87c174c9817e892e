package integration

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// OrderSyncHandler consumes order sync messages: it canonicalizes the
// import, transforms it to the wire shape and upserts it against the
// platform. Stateless; the single platform call and logging are its only
// effects. Failures propagate unchanged so the queue infrastructure decides
// on retry or dead-letter.
type OrderSyncHandler struct {
	client      integration.OrderClient
	transformer integration.OrderTransformer
	logger      *zap.Logger
}

// NewOrderSyncHandler creates a new OrderSyncHandler
func NewOrderSyncHandler(client integration.OrderClient, transformer integration.OrderTransformer, logger *zap.Logger) *OrderSyncHandler {
	return &OrderSyncHandler{
		client:      client,
		transformer: transformer,
		logger:      logger,
	}
}

// HandleOrder processes one order sync message.
func (h *OrderSyncHandler) HandleOrder(ctx context.Context, msg integration.OrderSyncMessage) error {
	order := integration.OrderFromImport(msg.Order)

	h.logger.Info("processing order sync message",
		zap.String("message_id", msg.ID.String()),
		zap.String("external_id", order.ExternalID),
	)

	payload := h.transformer.Transform(order)

	entity, err := h.client.Upsert(ctx, order.ExternalID, payload)
	if err != nil {
		return err
	}

	h.logger.Info("order synced to platform",
		zap.String("external_id", order.ExternalID),
		zap.String("platform_id", integration.EntityID(entity)),
	)
	return nil
}

// Ensure OrderSyncHandler implements OrderMessageHandler
var _ integration.OrderMessageHandler = (*OrderSyncHandler)(nil)
