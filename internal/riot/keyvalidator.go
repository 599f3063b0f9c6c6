package riot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const (
	statusPath = "/lol/status/v4/platform-data"
	// defaultValidationRegion hosts the lightweight status endpoint used to probe keys.
	defaultValidationRegion = "na1"
)

// KeyValidator validates Riot API keys by making a test request.
type KeyValidator struct {
	client *Client
}

// NewKeyValidator accepts the same options as NewClient.
func NewKeyValidator(opts ...Option) *KeyValidator {
	return &KeyValidator{client: NewClient("", opts...)}
}

// ValidateKey probes region's status endpoint with apiKey.
// Returns:
//   - (true, nil) if the key is valid
//   - (false, nil) if the key is invalid (401/403)
//   - (false, error) on network or server errors (validity unknown)
func (v *KeyValidator) ValidateKey(ctx context.Context, apiKey, region string) (bool, error) {
	if apiKey == "" {
		return false, fmt.Errorf("API key cannot be empty")
	}
	if region == "" {
		region = defaultValidationRegion
	}

	err := v.client.getWithKey(ctx, apiKey, Platform(region), statusPath, nil)
	if err == nil {
		return true, nil
	}
	var se *StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		return false, nil
	}
	return false, err
}
