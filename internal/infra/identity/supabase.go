package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/astrotrack/astrotrack/internal/config"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

type supabaseVerifier struct {
	getUser func(token string) (*types.UserResponse, error)
}

// NewSupabase verifies Supabase access tokens by asking the project's auth
// server for the user they belong to.
func NewSupabase(projectRef, apiKey string) (Verifier, error) {
	if projectRef == "" || apiKey == "" {
		return nil, errors.New("supabase project ref and api key are required")
	}
	client := auth.New(projectRef, apiKey)
	return &supabaseVerifier{
		getUser: func(token string) (*types.UserResponse, error) {
			return client.WithToken(token).GetUser()
		},
	}, nil
}

func (s *supabaseVerifier) Provider() string { return config.ProviderSupabase }

func (s *supabaseVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	resp, err := s.getUser(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return supabaseIdentity(resp)
}

func supabaseIdentity(resp *types.UserResponse) (*Identity, error) {
	if resp == nil || resp.ID.String() == "00000000-0000-0000-0000-000000000000" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}
	name := stringClaim(resp.UserMetadata, "full_name")
	if name == "" {
		name = stringClaim(resp.UserMetadata, "name")
	}
	return &Identity{
		Subject:     resp.ID.String(),
		Email:       resp.Email,
		DisplayName: name,
		PhotoURL:    stringClaim(resp.UserMetadata, "avatar_url"),
		Provider:    config.ProviderSupabase,
	}, nil
}
