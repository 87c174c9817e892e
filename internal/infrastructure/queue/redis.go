package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

const (
	defaultKeyPrefix = "shopbridge:queue:"
	popTimeout       = 2 * time.Second
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisQueue implements SyncQueue on Redis lists. Producers LPUSH
// JSON-encoded messages; worker loops BRPOP and dispatch to the handlers.
// Suitable for distributed deployments where multiple instances share the
// backlog.
type RedisQueue struct {
	client    *redis.Client
	keyPrefix string

	orderHandler   integration.OrderMessageHandler
	productHandler integration.ProductMessageHandler

	logger  *zap.Logger
	running atomic.Bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewRedisQueue connects to Redis and returns a queue dispatching to the
// given handlers.
func NewRedisQueue(cfg RedisConfig, orderHandler integration.OrderMessageHandler, productHandler integration.ProductMessageHandler, logger *zap.Logger) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisQueueWithClient(client, defaultKeyPrefix, orderHandler, productHandler, logger), nil
}

// NewRedisQueueWithClient creates a queue with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisQueueWithClient(client *redis.Client, keyPrefix string, orderHandler integration.OrderMessageHandler, productHandler integration.ProductMessageHandler, logger *zap.Logger) *RedisQueue {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisQueue{
		client:         client,
		keyPrefix:      keyPrefix,
		orderHandler:   orderHandler,
		productHandler: productHandler,
		logger:         logger,
	}
}

func (q *RedisQueue) orderKey() string   { return q.keyPrefix + "orders" }
func (q *RedisQueue) productKey() string { return q.keyPrefix + "products" }

// EnqueueOrder pushes an order message onto the order list.
func (q *RedisQueue) EnqueueOrder(ctx context.Context, msg integration.OrderSyncMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode order message: %w", err)
	}
	if err := q.client.LPush(ctx, q.orderKey(), payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue order message: %w", err)
	}
	return nil
}

// EnqueueProduct pushes a product message onto the product list.
func (q *RedisQueue) EnqueueProduct(ctx context.Context, msg integration.ProductSyncMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode product message: %w", err)
	}
	if err := q.client.LPush(ctx, q.productKey(), payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue product message: %w", err)
	}
	return nil
}

// Start launches the worker loops.
func (q *RedisQueue) Start(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return nil
	}
	ctx, q.cancel = context.WithCancel(ctx)

	q.wg.Add(2)
	go q.consumeOrders(ctx)
	go q.consumeProducts(ctx)

	q.logger.Info("redis queue started", zap.String("key_prefix", q.keyPrefix))
	return nil
}

// Stop stops the worker loops and waits for in-flight messages.
func (q *RedisQueue) Stop(ctx context.Context) error {
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
		q.logger.Info("redis queue stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the underlying Redis client.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

func (q *RedisQueue) consumeOrders(ctx context.Context) {
	defer q.wg.Done()
	for {
		raw, ok := q.pop(ctx, q.orderKey())
		if !ok {
			return
		}
		if raw == "" {
			continue
		}

		var msg integration.OrderSyncMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			q.logger.Error("discarding undecodable order message", zap.Error(err))
			continue
		}

		err := q.handle(msg.ID.String(), "order", func() error {
			return q.orderHandler.HandleOrder(ctx, msg)
		})
		if errors.Is(err, integration.ErrTransport) {
			// Transient platform failure; redeliver with backoff until the
			// attempt cap. Permanent failures are logged and dropped.
			msg.Attempts++
			if msg.Attempts >= maxDeliveryAttempts {
				q.logger.Error("dropping order message after max delivery attempts",
					zap.String("message_id", msg.ID.String()),
					zap.Int("attempts", msg.Attempts))
				continue
			}
			q.requeue(ctx, q.orderKey(), "order", msg.ID.String(), msg.Attempts, msg)
		}
	}
}

func (q *RedisQueue) consumeProducts(ctx context.Context) {
	defer q.wg.Done()
	for {
		raw, ok := q.pop(ctx, q.productKey())
		if !ok {
			return
		}
		if raw == "" {
			continue
		}

		var msg integration.ProductSyncMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			q.logger.Error("discarding undecodable product message", zap.Error(err))
			continue
		}

		err := q.handle(msg.ID.String(), "product", func() error {
			return q.productHandler.HandleProduct(ctx, msg)
		})
		if errors.Is(err, integration.ErrTransport) {
			msg.Attempts++
			if msg.Attempts >= maxDeliveryAttempts {
				q.logger.Error("dropping product message after max delivery attempts",
					zap.String("message_id", msg.ID.String()),
					zap.Int("attempts", msg.Attempts))
				continue
			}
			q.requeue(ctx, q.productKey(), "product", msg.ID.String(), msg.Attempts, msg)
		}
	}
}

// requeue waits out the backoff and pushes the message back with its
// incremented attempt count. On shutdown the wait is cut short and the push
// still happens so the message survives for the next worker.
func (q *RedisQueue) requeue(ctx context.Context, key, kind, messageID string, attempts int, msg any) {
	waitRetry(ctx, attempts)

	payload, err := json.Marshal(msg)
	if err != nil {
		q.logger.Error("message requeue failed",
			zap.String("message_kind", kind),
			zap.String("message_id", messageID),
			zap.Error(err))
		return
	}

	pushCtx, cancel := context.WithTimeout(context.Background(), popTimeout)
	defer cancel()
	if err := q.client.LPush(pushCtx, key, payload).Err(); err != nil {
		q.logger.Error("message requeue failed",
			zap.String("message_kind", kind),
			zap.String("message_id", messageID),
			zap.Error(err))
	}
}

// pop blocks on the given list up to popTimeout. The second return is false
// once the worker should exit.
func (q *RedisQueue) pop(ctx context.Context, key string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}

	result, err := q.client.BRPop(ctx, popTimeout, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", true
		}
		if ctx.Err() != nil {
			return "", false
		}
		q.logger.Error("queue pop failed", zap.String("key", key), zap.Error(err))
		// Pause before the next poll; a persistent connection failure must
		// not spin the worker.
		select {
		case <-time.After(popTimeout):
		case <-ctx.Done():
			return "", false
		}
		return "", true
	}
	if len(result) < 2 {
		return "", true
	}
	return result[1], true
}

func (q *RedisQueue) handle(messageID, kind string, fn func() error) (err error) {
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

var _ integration.SyncQueue = (*RedisQueue)(nil)
