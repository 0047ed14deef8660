// Package identity verifies tokens issued by an external identity provider
// at login time.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/astrotrack/astrotrack/internal/config"
)

var ErrInvalidToken = errors.New("invalid identity token")

// Identity is what the provider vouches for. Subject is the stable user id.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
	Provider    string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
	Provider() string
}

// New returns the verifier for the configured provider.
func New(ctx context.Context, cfg config.AuthConfig) (Verifier, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		return NewGoogle(ctx, cfg.GoogleClientID)
	case config.ProviderSupabase:
		return NewSupabase(cfg.SupabaseProjectRef, cfg.SupabaseAPIKey)
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.Provider)
	}
}

func stringClaim(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
