package shopify

import (
	"errors"
	"fmt"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// DefaultAPIVersion is the platform API version used when none is configured.
const DefaultAPIVersion = "2025-01"

// Errors for Shopify configuration
var (
	ErrConfigMissingShopDomain  = errors.New("shopify: shop domain is required")
	ErrConfigMissingAccessToken = errors.New("shopify: access token is required")
)

// Config holds configuration for the Shopify API integration.
type Config struct {
	// ShopDomain is the myshopify domain (e.g. "acme.myshopify.com")
	ShopDomain string
	// AccessToken is the Admin API access token identifying the integration
	AccessToken string
	// APIVersion is the Admin API version (e.g. "2025-01")
	APIVersion string
	// Driver selects the transport variant ("rest" or "graphql")
	Driver integration.Driver
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// PageSize bounds page fetches; the resource transport's
	// find-by-external-id scan is O(PageSize)
	PageSize int
	// APIBaseURL overrides the derived base URL when set (tests, proxies)
	APIBaseURL string
}

// NewConfig creates a Shopify configuration with defaults.
func NewConfig(shopDomain, accessToken string, driver integration.Driver) *Config {
	return &Config{
		ShopDomain:     shopDomain,
		AccessToken:    accessToken,
		APIVersion:     DefaultAPIVersion,
		Driver:         driver,
		TimeoutSeconds: 30,
		PageSize:       250,
	}
}

// Validate validates the configuration and applies defaults. An unknown
// driver is a configuration error and fails here, at construction time,
// never per message.
func (c *Config) Validate() error {
	if c.ShopDomain == "" {
		return ErrConfigMissingShopDomain
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if !c.Driver.IsValid() {
		return fmt.Errorf("%w: %q (expected %q or %q)",
			integration.ErrUnknownDriver, c.Driver, integration.DriverREST, integration.DriverGraphQL)
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.PageSize <= 0 || c.PageSize > 250 {
		c.PageSize = 250
	}
	return nil
}

// BaseURL returns the versioned Admin API base URL.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return fmt.Sprintf("https://%s/admin/api/%s", c.ShopDomain, c.APIVersion)
}
