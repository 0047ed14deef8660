package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/astrotrack/astrotrack/internal/config"
	"google.golang.org/api/idtoken"
)

type payloadValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

type googleVerifier struct {
	validator payloadValidator
	clientID  string
}

// NewGoogle verifies Google-issued ID tokens for the given OAuth client id.
func NewGoogle(ctx context.Context, clientID string) (Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}
	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("while creating id token validator: %w", err)
	}
	return &googleVerifier{validator: v, clientID: clientID}, nil
}

func (g *googleVerifier) Provider() string { return config.ProviderGoogle }

func (g *googleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	p, err := g.validator.Validate(ctx, token, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return googleIdentity(p)
}

func googleIdentity(p *idtoken.Payload) (*Identity, error) {
	if p == nil || p.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Identity{
		Subject:     p.Subject,
		Email:       stringClaim(p.Claims, "email"),
		DisplayName: stringClaim(p.Claims, "name"),
		PhotoURL:    stringClaim(p.Claims, "picture"),
		Provider:    config.ProviderGoogle,
	}, nil
}
