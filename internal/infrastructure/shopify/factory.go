package shopify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// The factories select the transport client variant from the configured
// driver. Selection is explicit and happens once at construction; an
// unknown driver fails here, never at first use.

// NewOrderClient returns the order client variant for the configured driver.
func NewOrderClient(cfg *Config, logger *zap.Logger) (integration.OrderClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case integration.DriverREST:
		return NewOrderRestClient(cfg, logger), nil
	case integration.DriverGraphQL:
		return NewOrderGraphqlClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", integration.ErrUnknownDriver, cfg.Driver)
	}
}

// NewProductClient returns the product client variant for the configured
// driver.
func NewProductClient(cfg *Config, logger *zap.Logger) (integration.ProductClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case integration.DriverREST:
		return NewProductRestClient(cfg, logger), nil
	case integration.DriverGraphQL:
		return NewProductGraphqlClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", integration.ErrUnknownDriver, cfg.Driver)
	}
}
