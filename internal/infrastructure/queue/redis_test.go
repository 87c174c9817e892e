package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

func newTestRedisQueue(t *testing.T, h *recordingHandler) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewRedisQueueWithClient(client, "test:queue:", h, h, zap.NewNop()), mr
}

func TestRedisQueueEnqueueOrderPushesJSON(t *testing.T) {
	h := &recordingHandler{}
	q, mr := newTestRedisQueue(t, h)

	msg := testOrderMessage("A-1")
	require.NoError(t, q.EnqueueOrder(context.Background(), msg))

	raw, err := mr.Lpop("test:queue:orders")
	require.NoError(t, err)

	var decoded integration.OrderSyncMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, msg.ID, decoded.ID)
	assert.Equal(t, "A-1", decoded.Order.ExternalID)
}

func TestRedisQueueDispatchesMessages(t *testing.T) {
	h := &recordingHandler{}
	q, _ := newTestRedisQueue(t, h)

	require.NoError(t, q.Start(context.Background()))
	defer func() {
		_ = q.Stop(context.Background())
	}()

	require.NoError(t, q.EnqueueOrder(context.Background(), testOrderMessage("A-1")))
	require.NoError(t, q.EnqueueProduct(context.Background(), testProductMessage("P-1")))

	waitFor(t, func() bool { return h.orderCount() == 1 && h.productCount() == 1 })
	assert.Equal(t, "A-1", h.orders[0].Order.ExternalID)
	assert.Equal(t, "P-1", h.products[0].Product.ExternalID)
}

func TestRedisQueueRequeuesOnTransportError(t *testing.T) {
	h := &recordingHandler{
		orderErr: func(attempt int) error {
			if attempt == 1 {
				return integration.ErrTransport
			}
			return nil
		},
	}
	q, _ := newTestRedisQueue(t, h)

	require.NoError(t, q.Start(context.Background()))
	defer func() {
		_ = q.Stop(context.Background())
	}()

	require.NoError(t, q.EnqueueOrder(context.Background(), testOrderMessage("A-1")))

	waitFor(t, func() bool { return h.orderCount() == 1 })
	assert.Equal(t, 2, h.attemptCount())
	// The requeued envelope carries the incremented attempt count.
	assert.Equal(t, 1, h.orders[0].Attempts)
}

func TestRedisQueueBacksOffBetweenRetries(t *testing.T) {
	h := &recordingHandler{
		orderErr: func(int) error { return integration.ErrTransport },
	}
	q, _ := newTestRedisQueue(t, h)

	require.NoError(t, q.Start(context.Background()))
	defer func() {
		_ = q.Stop(context.Background())
	}()

	require.NoError(t, q.EnqueueOrder(context.Background(), testOrderMessage("A-1")))

	time.Sleep(200 * time.Millisecond)
	assert.LessOrEqual(t, h.attemptCount(), 2)
}

func TestRedisQueueDiscardsUndecodableMessages(t *testing.T) {
	h := &recordingHandler{}
	q, mr := newTestRedisQueue(t, h)

	mr.Lpush("test:queue:orders", "not json")
	require.NoError(t, q.Start(context.Background()))
	defer func() {
		_ = q.Stop(context.Background())
	}()

	require.NoError(t, q.EnqueueOrder(context.Background(), testOrderMessage("A-1")))

	waitFor(t, func() bool { return h.orderCount() == 1 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, h.orderCount())
}
