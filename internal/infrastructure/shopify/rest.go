package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the platform (10MB)
const maxResponseSize = 10 * 1024 * 1024

// errStatusNotFound marks an HTTP 404 so callers can translate a missing
// resource into a (nil, nil) lookup result instead of a transport failure.
var errStatusNotFound = errors.New("shopify: resource not found")

// restTransport performs resource-oriented round-trips: one request per
// operation against {base}/{resource}.json endpoints, bodies wrapped in a
// singular key matching the resource name.
type restTransport struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

func newRestTransport(cfg *Config) *restTransport {
	return &restTransport{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL:     cfg.BaseURL(),
		accessToken: cfg.AccessToken,
	}
}

// do performs one request/response round-trip. Network failures map to
// ErrTransport, HTTP error statuses to ErrTransport (or errStatusNotFound
// for 404), and undecodable bodies to ErrUnexpectedResponse.
func (t *restTransport) do(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	reqURL := t.baseURL + "/" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("shopify: failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
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

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", errStatusNotFound, method, path)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d on %s %s", integration.ErrTransport, resp.StatusCode, method, path)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body on %s %s", integration.ErrUnexpectedResponse, method, path)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to parse body: %v", integration.ErrUnexpectedResponse, err)
	}
	return decoded, nil
}

// unwrapResource extracts the singular-key object from a resource response,
// falling back to the whole body when the key is absent.
func unwrapResource(data map[string]any, key string) map[string]any {
	if nested, ok := data[key].(map[string]any); ok {
		return nested
	}
	return data
}

// entityList extracts a plural-key array of objects from a resource response.
func entityList(data map[string]any, key string) []integration.PlatformEntity {
	raw, ok := data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]integration.PlatformEntity, 0, len(raw))
	for _, item := range raw {
		if entity, ok := item.(map[string]any); ok {
			out = append(out, entity)
		}
	}
	return out
}

// pullWindow computes the inclusive created-at range for a sync pull:
// createdAtMin = now-maxHoursAgo, createdAtMax = now-minHoursAgo, both UTC
// ISO-8601.
func pullWindow(now time.Time, minHoursAgo, maxHoursAgo int) (createdAtMin, createdAtMax string) {
	utc := now.UTC()
	createdAtMin = utc.Add(-time.Duration(maxHoursAgo) * time.Hour).Format(time.RFC3339)
	createdAtMax = utc.Add(-time.Duration(minHoursAgo) * time.Hour).Format(time.RFC3339)
	return createdAtMin, createdAtMax
}
