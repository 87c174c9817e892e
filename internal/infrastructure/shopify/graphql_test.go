package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbridge/backend/internal/domain/integration"
)

func newGraphqlTestServer(t *testing.T, handler func(query string, variables map[string]any) (status int, body string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/graphql.json", r.URL.Path)

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handler(req.Query, req.Variables)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGraphqlTransportQueryReturnsData(t *testing.T) {
	server := newGraphqlTestServer(t, func(query string, variables map[string]any) (int, string) {
		return http.StatusOK, `{"data":{"shop":{"name":"acme"}}}`
	})
	defer server.Close()

	transport := newGraphqlTransport(testConfig(t, server.URL, integration.DriverGraphQL))
	data, err := transport.query(context.Background(), "query { shop { name } }", nil)

	require.NoError(t, err)
	shop, ok := data["shop"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "acme", shop["name"])
}

func TestGraphqlTransportTopLevelErrorsRejected(t *testing.T) {
	// HTTP 200 with a populated errors list is still an application failure.
	server := newGraphqlTestServer(t, func(query string, variables map[string]any) (int, string) {
		return http.StatusOK, `{"data":null,"errors":[{"message":"Field 'nope' doesn't exist"}]}`
	})
	defer server.Close()

	transport := newGraphqlTransport(testConfig(t, server.URL, integration.DriverGraphQL))
	_, err := transport.query(context.Background(), "query { nope }", nil)

	assert.ErrorIs(t, err, integration.ErrPlatformRejected)
}

func TestGraphqlTransportMissingDataUnexpected(t *testing.T) {
	server := newGraphqlTestServer(t, func(query string, variables map[string]any) (int, string) {
		return http.StatusOK, `{}`
	})
	defer server.Close()

	transport := newGraphqlTransport(testConfig(t, server.URL, integration.DriverGraphQL))
	_, err := transport.query(context.Background(), "query { shop { name } }", nil)

	assert.ErrorIs(t, err, integration.ErrUnexpectedResponse)
}

func TestGraphqlTransportHTTPErrorIsTransportError(t *testing.T) {
	server := newGraphqlTestServer(t, func(query string, variables map[string]any) (int, string) {
		return http.StatusBadGateway, `{"errors":"upstream"}`
	})
	defer server.Close()

	transport := newGraphqlTransport(testConfig(t, server.URL, integration.DriverGraphQL))
	_, err := transport.query(context.Background(), "query { shop { name } }", nil)

	assert.ErrorIs(t, err, integration.ErrTransport)
}

func TestGraphqlTransportMutateUnwrapsEntity(t *testing.T) {
	server := newGraphqlTestServer(t, func(query string, variables map[string]any) (int, string) {
		return http.StatusOK, `{"data":{"productCreate":{"product":{"id":"gid://shopify/Product/1"},"userErrors":[]}}}`
	})
	defer server.Close()

	transport := newGraphqlTransport(testConfig(t, server.URL, integration.DriverGraphQL))
	entity, err := transport.mutate(context.Background(), "mutation {}", nil, "productCreate", "product")

	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Product/1", entity["id"])
}

func TestGraphqlTransportMutateUserErrorsRejected(t *testing.T) {
	server := newGraphqlTestServer(t, func(query string, variables map[string]any) (int, string) {
		return http.StatusOK, `{"data":{"productCreate":{"product":null,"userErrors":[{"field":["title"],"message":"can't be blank"}]}}}`
	})
	defer server.Close()

	transport := newGraphqlTransport(testConfig(t, server.URL, integration.DriverGraphQL))
	_, err := transport.mutate(context.Background(), "mutation {}", nil, "productCreate", "product")

	assert.ErrorIs(t, err, integration.ErrPlatformRejected)
	assert.Contains(t, err.Error(), "can't be blank")
}

func TestGraphqlTransportMutateMissingEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing operation key",
			body: `{"data":{}}`,
		},
		{
			name: "missing entity",
			body: `{"data":{"productCreate":{"userErrors":[]}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newGraphqlTestServer(t, func(query string, variables map[string]any) (int, string) {
				return http.StatusOK, tt.body
			})
			defer server.Close()

			transport := newGraphqlTransport(testConfig(t, server.URL, integration.DriverGraphQL))
			_, err := transport.mutate(context.Background(), "mutation {}", nil, "productCreate", "product")

			assert.ErrorIs(t, err, integration.ErrUnexpectedResponse)
		})
	}
}
