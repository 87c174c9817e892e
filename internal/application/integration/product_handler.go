package integration

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// ProductSyncHandler consumes product sync messages. Unlike the order
// handler it performs the find-then-write sequence inline so it can log
// which branch was taken and extract the platform identity from either a
// nested (resource transport) or flat (query transport) response shape.
type ProductSyncHandler struct {
	client      integration.ProductClient
	transformer integration.ProductTransformer
	logger      *zap.Logger
}

// NewProductSyncHandler creates a new ProductSyncHandler
func NewProductSyncHandler(client integration.ProductClient, transformer integration.ProductTransformer, logger *zap.Logger) *ProductSyncHandler {
	return &ProductSyncHandler{
		client:      client,
		transformer: transformer,
		logger:      logger,
	}
}

// HandleProduct processes one product sync message.
func (h *ProductSyncHandler) HandleProduct(ctx context.Context, msg integration.ProductSyncMessage) error {
	product := integration.ProductFromImport(msg.Product)

	h.logger.Info("processing product sync message",
		zap.String("message_id", msg.ID.String()),
		zap.String("external_id", product.ExternalID),
		zap.String("title", product.Title),
	)

	payload := h.transformer.Transform(product)

	existing, err := h.client.FindByExternalID(ctx, product.ExternalID)
	if err != nil {
		return err
	}

	if existing != nil {
		platformID := integration.EntityID(existing)
		h.logger.Info("product exists on platform, updating",
			zap.String("external_id", product.ExternalID),
			zap.String("platform_id", platformID),
		)

		updated, err := h.client.Update(ctx, platformID, payload)
		if err != nil {
			return err
		}

		h.logger.Info("product updated on platform",
			zap.String("external_id", product.ExternalID),
			zap.String("platform_id", integration.EntityID(updated)),
		)
		return nil
	}

	h.logger.Info("creating new platform product",
		zap.String("external_id", product.ExternalID),
	)

	created, err := h.client.Create(ctx, payload)
	if err != nil {
		return err
	}

	h.logger.Info("product created on platform",
		zap.String("external_id", product.ExternalID),
		zap.String("platform_id", integration.EntityID(created)),
	)
	return nil
}

// Ensure ProductSyncHandler implements ProductMessageHandler
var _ integration.ProductMessageHandler = (*ProductSyncHandler)(nil)
