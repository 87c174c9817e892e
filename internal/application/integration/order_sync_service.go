package integration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// Default sync window in whole hours before now.
const (
	DefaultMinHoursAgo = 1
	DefaultMaxHoursAgo = 72
)

// OrderSyncService pulls candidate orders created inside a bounded time
// window from the transport, maps them and enqueues one message per order
// for background processing. This is the one place that deliberately
// isolates per-item failure: one bad upstream record never stalls the rest
// of a pull cycle.
type OrderSyncService struct {
	client integration.OrderClient
	mapper *OrderMapper
	queue  integration.SyncQueue
	logger *zap.Logger
}

// NewOrderSyncService creates a new OrderSyncService
func NewOrderSyncService(client integration.OrderClient, mapper *OrderMapper, queue integration.SyncQueue, logger *zap.Logger) *OrderSyncService {
	return &OrderSyncService{
		client: client,
		mapper: mapper,
		queue:  queue,
		logger: logger,
	}
}

// SyncWindow pulls orders created between now-maxHoursAgo and now-minHoursAgo
// and queues the ones that map cleanly. The returned count of queued orders
// is the sole externally observable success metric of a pull cycle.
func (s *OrderSyncService) SyncWindow(ctx context.Context, minHoursAgo, maxHoursAgo int) (int, error) {
	if minHoursAgo < 0 || minHoursAgo >= maxHoursAgo {
		return 0, fmt.Errorf("%w: sync window requires 0 <= minHoursAgo < maxHoursAgo, got %d-%d",
			integration.ErrInvalidArgument, minHoursAgo, maxHoursAgo)
	}

	s.logger.Info("starting order sync window",
		zap.Int("min_hours_ago", minHoursAgo),
		zap.Int("max_hours_ago", maxHoursAgo),
	)

	rawOrders, err := s.client.Pull(ctx, minHoursAgo, maxHoursAgo)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, raw := range rawOrders {
		imp, err := s.mapper.Map(raw)
		if err != nil {
			s.logger.Warn("skipping unmappable order from pull",
				zap.Error(err),
			)
			continue
		}

		if err := s.queue.EnqueueOrder(ctx, integration.NewOrderSyncMessage(imp)); err != nil {
			s.logger.Error("failed to queue pulled order",
				zap.String("external_id", imp.ExternalID),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("queued pulled order",
			zap.String("external_id", imp.ExternalID),
		)
		queued++
	}

	s.logger.Info("order sync window finished",
		zap.Int("pulled", len(rawOrders)),
		zap.Int("queued", queued),
	)
	return queued, nil
}
