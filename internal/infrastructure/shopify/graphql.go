package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// graphqlTransport performs query/mutation round-trips against the single
// {base}/graphql.json endpoint. Top-level GraphQL errors and per-mutation
// userErrors are protocol application failures, distinct from transport
// failures: the HTTP call may return 200 and the operation still failed.
type graphqlTransport struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
}

func newGraphqlTransport(cfg *Config) *graphqlTransport {
	return &graphqlTransport{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		endpoint:    cfg.BaseURL() + "/graphql.json",
		accessToken: cfg.AccessToken,
	}
}

// query posts {query, variables} and returns the data object. A non-empty
// top-level errors list maps to ErrPlatformRejected; a missing data object
// maps to ErrUnexpectedResponse.
func (t *graphqlTransport) query(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", t.accessToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrTransport, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d on graphql endpoint", integration.ErrTransport, resp.StatusCode)
	}

	var envelope struct {
		Data   map[string]any `json:"data"`
		Errors []any          `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to parse graphql response: %v", integration.ErrUnexpectedResponse, err)
	}

	if len(envelope.Errors) > 0 {
		detail, _ := json.Marshal(envelope.Errors)
		return nil, fmt.Errorf("%w: graphql errors: %s", integration.ErrPlatformRejected, detail)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: graphql response missing data", integration.ErrUnexpectedResponse)
	}
	return envelope.Data, nil
}

// mutate runs a mutation and unwraps the nested result envelope
// {opKey: {entityKey, userErrors}}. A non-empty userErrors list always fails
// the operation, even on HTTP 200; this check runs on every mutation.
func (t *graphqlTransport) mutate(ctx context.Context, mutation string, variables map[string]any, opKey, entityKey string) (integration.PlatformEntity, error) {
	data, err := t.query(ctx, mutation, variables)
	if err != nil {
		return nil, err
	}

	result, ok := data[opKey].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: graphql response missing %s", integration.ErrUnexpectedResponse, opKey)
	}

	if userErrors, ok := result["userErrors"].([]any); ok && len(userErrors) > 0 {
		detail, _ := json.Marshal(userErrors)
		return nil, fmt.Errorf("%w: %s userErrors: %s", integration.ErrPlatformRejected, opKey, detail)
	}

	entity, _ := result[entityKey].(map[string]any)
	if entity == nil {
		return nil, fmt.Errorf("%w: %s returned no %s", integration.ErrUnexpectedResponse, opKey, entityKey)
	}
	return entity, nil
}
