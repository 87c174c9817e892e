package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shopbridge/backend/internal/domain/integration"
)

func newOrderRestClientForTest(t *testing.T, handler http.HandlerFunc) (*OrderRestClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig(t, server.URL, integration.DriverREST)
	cfg.PageSize = 50
	return NewOrderRestClient(cfg, zap.NewNop()), server
}

func TestOrderRestClientFindByExternalID(t *testing.T) {
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders.json", r.URL.Path)
		assert.Equal(t, "id,name,order_number,note", r.URL.Query().Get("fields"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"orders":[
			{"id":100,"note":"externalId:OTHER"},
			{"id":200,"note":"externalId:ORD-1"},
			{"id":300,"note":null}
		]}`))
	})

	entity, err := client.FindByExternalID(context.Background(), "ORD-1")

	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.Equal(t, "200", integration.EntityID(entity))
}

func TestOrderRestClientFindByExternalIDNoMatch(t *testing.T) {
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[{"id":100,"note":"unrelated"}]}`))
	})

	entity, err := client.FindByExternalID(context.Background(), "ORD-1")

	require.NoError(t, err)
	assert.Nil(t, entity)
}

func TestOrderRestClientGetByID(t *testing.T) {
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/450789469.json", r.URL.Path)
		w.Write([]byte(`{"order":{"id":450789469,"name":"#1001"}}`))
	})

	entity, err := client.GetByID(context.Background(), "450789469")

	require.NoError(t, err)
	assert.Equal(t, "#1001", entity["name"])
	assert.Equal(t, "450789469", integration.EntityID(entity))
}

func TestOrderRestClientGetByIDNotFound(t *testing.T) {
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":"Not Found"}`))
	})

	entity, err := client.GetByID(context.Background(), "999")

	assert.NoError(t, err)
	assert.Nil(t, entity)
}

func TestOrderRestClientUpsertCreatesWhenAbsent(t *testing.T) {
	var requests []string
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"orders":[]}`))
		case http.MethodPost:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body, "order")
			w.Write([]byte(`{"order":{"id":7001}}`))
		}
	})

	entity, err := client.Upsert(context.Background(), "ORD-NEW", integration.WirePayload{"note": "externalId:ORD-NEW"})

	require.NoError(t, err)
	assert.Equal(t, "7001", integration.EntityID(entity))
	assert.Equal(t, []string{"GET /orders.json", "POST /orders.json"}, requests)
}

func TestOrderRestClientUpsertUpdatesWhenPresent(t *testing.T) {
	var requests []string
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"orders":[{"id":7002,"note":"externalId:ORD-EXISTS"}]}`))
		case http.MethodPut:
			w.Write([]byte(`{"order":{"id":7002}}`))
		}
	})

	entity, err := client.Upsert(context.Background(), "ORD-EXISTS", integration.WirePayload{"note": "externalId:ORD-EXISTS"})

	require.NoError(t, err)
	assert.Equal(t, "7002", integration.EntityID(entity))
	assert.Equal(t, []string{"GET /orders.json", "PUT /orders/7002.json"}, requests)
}

func TestOrderRestClientUpsertRequiresExternalID(t *testing.T) {
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Upsert(context.Background(), "", integration.WirePayload{})

	assert.ErrorIs(t, err, integration.ErrInvalidArgument)
}

func TestOrderRestClientPull(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"created_at_min": r.URL.Query().Get("created_at_min"),
			"created_at_max": r.URL.Query().Get("created_at_max"),
			"status":         r.URL.Query().Get("status"),
			"limit":          r.URL.Query().Get("limit"),
		}
		w.Write([]byte(`{"orders":[{"id":1},{"id":2}]}`))
	})
	client.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}

	orders, err := client.Pull(context.Background(), 1, 72)

	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, map[string]string{
		"created_at_min": "2025-06-12T12:00:00Z",
		"created_at_max": "2025-06-15T11:00:00Z",
		"status":         "any",
		"limit":          "50",
	}, gotQuery)
}

func TestOrderRestClientCancel(t *testing.T) {
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/7003/cancel.json", r.URL.Path)
		w.Write([]byte(`{"order":{"id":7003,"cancelled_at":"2025-06-15T12:00:00Z"}}`))
	})

	entity, err := client.Cancel(context.Background(), "7003")

	require.NoError(t, err)
	assert.Equal(t, "7003", integration.EntityID(entity))
}

func TestOrderRestClientCreatePartialFulfillment(t *testing.T) {
	var body map[string]any
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/7004/fulfillments.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"fulfillment":{"id":9001,"status":"success"}}`))
	})

	lineItems := []integration.WirePayload{{"id": "11", "quantity": 2}}
	entity, err := client.CreatePartialFulfillment(context.Background(), "7004", lineItems)

	require.NoError(t, err)
	assert.Equal(t, "9001", integration.EntityID(entity))

	fulfillment, ok := body["fulfillment"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fulfillment, "line_items_by_fulfillment_order")
}

func TestOrderRestClientCancelLineItems(t *testing.T) {
	var body map[string]any
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/7005/refunds.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"refund":{"id":8001}}`))
	})

	cancellations := []integration.WirePayload{{"line_item_id": "21", "quantity": 1}}
	entity, err := client.CancelLineItems(context.Background(), "7005", cancellations)

	require.NoError(t, err)
	assert.Equal(t, "8001", integration.EntityID(entity))

	refund, ok := body["refund"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, refund["notify"])
	assert.Contains(t, refund, "refund_line_items")
}

func TestOrderRestClientUpdateTracking(t *testing.T) {
	var body map[string]any
	client, _ := newOrderRestClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fulfillments/9002/update_tracking.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"fulfillment":{"id":9002}}`))
	})

	tracking := integration.WirePayload{"number": "1Z999", "company": "UPS"}
	entity, err := client.UpdateTracking(context.Background(), "9002", tracking)

	require.NoError(t, err)
	assert.Equal(t, "9002", integration.EntityID(entity))

	fulfillment, ok := body["fulfillment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, fulfillment["notify_customer"])
	info, ok := fulfillment["tracking_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1Z999", info["number"])
}

func TestOrderRestClientLogsLookupOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[{"id":200,"note":"externalId:ORD-1"}]}`))
	}))
	t.Cleanup(server.Close)

	core, logs := observer.New(zap.DebugLevel)
	cfg := testConfig(t, server.URL, integration.DriverREST)
	client := NewOrderRestClient(cfg, zap.New(core))

	_, err := client.FindByExternalID(context.Background(), "ORD-1")
	require.NoError(t, err)

	entries := logs.FilterMessage("order matched by external id").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ORD-1", fields["external_id"])
	assert.Equal(t, "200", fields["platform_id"])
}
