package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/auth-go/types"
	"google.golang.org/api/idtoken"
)

type fakeValidator struct {
	payload *idtoken.Payload
	err     error
	gotAud  string
}

func (f *fakeValidator) Validate(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
	f.gotAud = audience
	return f.payload, f.err
}

func TestGoogleVerifier(t *testing.T) {
	fv := &fakeValidator{payload: &idtoken.Payload{
		Subject: "1089",
		Claims: map[string]any{
			"email":   "ann@example.com",
			"name":    "Ann",
			"picture": "https://example.com/a.png",
		},
	}}
	v := &googleVerifier{validator: fv, clientID: "client-1"}

	id, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "client-1", fv.gotAud)
	assert.Equal(t, &Identity{
		Subject:     "1089",
		Email:       "ann@example.com",
		DisplayName: "Ann",
		PhotoURL:    "https://example.com/a.png",
		Provider:    config.ProviderGoogle,
	}, id)
}

func TestGoogleVerifier_Rejects(t *testing.T) {
	v := &googleVerifier{validator: &fakeValidator{err: errors.New("expired")}, clientID: "c"}

	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	v = &googleVerifier{validator: &fakeValidator{payload: &idtoken.Payload{}}, clientID: "c"}
	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSupabaseVerifier(t *testing.T) {
	uid := uuid.New()
	resp := &types.UserResponse{}
	resp.ID = uid
	resp.Email = "bo@example.com"
	resp.UserMetadata = map[string]any{"full_name": "Bo", "avatar_url": "https://example.com/b.png"}

	v := &supabaseVerifier{getUser: func(token string) (*types.UserResponse, error) {
		if token != "access" {
			return nil, errors.New("401")
		}
		return resp, nil
	}}

	id, err := v.Verify(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, uid.String(), id.Subject)
	assert.Equal(t, "Bo", id.DisplayName)
	assert.Equal(t, "https://example.com/b.png", id.PhotoURL)
	assert.Equal(t, config.ProviderSupabase, id.Provider)

	_, err = v.Verify(context.Background(), "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNew_RequiresSettings(t *testing.T) {
	_, err := New(context.Background(), config.AuthConfig{Provider: config.ProviderGoogle})
	assert.Error(t, err)

	_, err = New(context.Background(), config.AuthConfig{Provider: config.ProviderSupabase})
	assert.Error(t, err)

	v, err := New(context.Background(), config.AuthConfig{
		Provider:           config.ProviderSupabase,
		SupabaseProjectRef: "ref",
		SupabaseAPIKey:     "key",
	})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderSupabase, v.Provider())
}
