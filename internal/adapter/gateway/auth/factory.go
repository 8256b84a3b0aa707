package auth

import (
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

// Supported providers
const (
	ProviderLocal  = "local"
	ProviderHosted = "hosted"
)

// NewAuthGateway creates an auth gateway for the configured provider
func NewAuthGateway(provider, baseURL, apiKey string, timeout time.Duration) (output.AuthGateway, error) {
	switch provider {
	case ProviderLocal, "":
		return NewLocalGateway(), nil

	case ProviderHosted:
		if baseURL == "" {
			return nil, fmt.Errorf("auth_url is required for the %s auth provider", ProviderHosted)
		}
		if apiKey == "" {
			return nil, fmt.Errorf("auth_api_key is required for the %s auth provider", ProviderHosted)
		}
		return NewHostedGateway(baseURL, apiKey, timeout), nil

	default:
		return nil, fmt.Errorf("unknown auth provider: %s (supported: %s, %s)", provider, ProviderLocal, ProviderHosted)
	}
}
