package shopify

import (
	"context"
	"fmt"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// findWriter is the subset of a transport client the upsert protocol needs.
type findWriter interface {
	FindByExternalID(ctx context.Context, externalID string) (integration.PlatformEntity, error)
	Create(ctx context.Context, payload integration.WirePayload) (integration.PlatformEntity, error)
	Update(ctx context.Context, platformID string, payload integration.WirePayload) (integration.PlatformEntity, error)
}

// upsert runs the shared find-then-write protocol: update when an entity
// with the external identity exists, create otherwise. This read-then-write
// sequence has no transactional guarantee; two concurrent upserts for the
// same externalId may both observe "not found" and both create. The race is
// an accepted boundary here; serialization per external identity belongs to
// the queue collaborator.
func upsert(ctx context.Context, client findWriter, externalID string, payload integration.WirePayload) (integration.PlatformEntity, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: externalId is required for upsert", integration.ErrInvalidArgument)
	}

	existing, err := client.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return client.Update(ctx, integration.EntityID(existing), payload)
	}
	return client.Create(ctx, payload)
}
