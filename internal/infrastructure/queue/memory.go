package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// defaultBufferSize bounds the in-process channels; Enqueue blocks when full.
const defaultBufferSize = 256

// MemoryQueue implements SyncQueue with in-process buffered channels.
// It is the single-instance deployment option; RedisQueue covers
// distributed deployments.
type MemoryQueue struct {
	orders   chan integration.OrderSyncMessage
	products chan integration.ProductSyncMessage

	orderHandler   integration.OrderMessageHandler
	productHandler integration.ProductMessageHandler

	logger  *zap.Logger
	running atomic.Bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewMemoryQueue creates an in-memory queue dispatching to the given handlers.
func NewMemoryQueue(orderHandler integration.OrderMessageHandler, productHandler integration.ProductMessageHandler, logger *zap.Logger) *MemoryQueue {
	return &MemoryQueue{
		orders:         make(chan integration.OrderSyncMessage, defaultBufferSize),
		products:       make(chan integration.ProductSyncMessage, defaultBufferSize),
		orderHandler:   orderHandler,
		productHandler: productHandler,
		logger:         logger,
	}
}

// EnqueueOrder places an order message on the dispatch channel.
func (q *MemoryQueue) EnqueueOrder(ctx context.Context, msg integration.OrderSyncMessage) error {
	select {
	case q.orders <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueProduct places a product message on the dispatch channel.
func (q *MemoryQueue) EnqueueProduct(ctx context.Context, msg integration.ProductSyncMessage) error {
	select {
	case q.products <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the dispatch loops.
func (q *MemoryQueue) Start(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return nil
	}
	ctx, q.cancel = context.WithCancel(ctx)

	q.wg.Add(2)
	go q.dispatchOrders(ctx)
	go q.dispatchProducts(ctx)

	q.logger.Info("memory queue started")
	return nil
}

// Stop stops the dispatch loops and waits for in-flight messages.
func (q *MemoryQueue) Stop(ctx context.Context) error {
	if !q.running.CompareAndSwap(true, false) {
		return nil
	}
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.logger.Info("memory queue stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) dispatchOrders(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case msg := <-q.orders:
			err := q.handle(ctx, msg.ID.String(), "order", func() error {
				return q.orderHandler.HandleOrder(ctx, msg)
			})
			if errors.Is(err, integration.ErrTransport) {
				// Transient platform failure; redeliver with backoff until
				// the attempt cap. Permanent failures are logged and dropped.
				msg.Attempts++
				if msg.Attempts >= maxDeliveryAttempts {
					q.logger.Error("dropping order message after max delivery attempts",
						zap.String("message_id", msg.ID.String()),
						zap.Int("attempts", msg.Attempts))
				} else if waitRetry(ctx, msg.Attempts) {
					select {
					case q.orders <- msg:
					default:
						q.logger.Error("order requeue failed, channel full",
							zap.String("message_id", msg.ID.String()))
					}
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (q *MemoryQueue) dispatchProducts(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case msg := <-q.products:
			err := q.handle(ctx, msg.ID.String(), "product", func() error {
				return q.productHandler.HandleProduct(ctx, msg)
			})
			if errors.Is(err, integration.ErrTransport) {
				msg.Attempts++
				if msg.Attempts >= maxDeliveryAttempts {
					q.logger.Error("dropping product message after max delivery attempts",
						zap.String("message_id", msg.ID.String()),
						zap.Int("attempts", msg.Attempts))
				} else if waitRetry(ctx, msg.Attempts) {
					select {
					case q.products <- msg:
					default:
						q.logger.Error("product requeue failed, channel full",
							zap.String("message_id", msg.ID.String()))
					}
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// handle safely invokes a handler, recovering panics so one bad message
// cannot take the dispatch loop down.
func (q *MemoryQueue) handle(_ context.Context, messageID, kind string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("handler panicked",
				zap.String("message_kind", kind),
				zap.String("message_id", messageID),
				zap.Any("panic", r),
			)
		}
	}()

	if err = fn(); err != nil {
		q.logger.Error("handler failed to process message",
			zap.String("message_kind", kind),
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
	return err
}

var _ integration.SyncQueue = (*MemoryQueue)(nil)
