package service

import (
	"context"
	"testing"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/infra/identity"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (UserService, repo.ProjectRepo) {
	store := docstore.NewMemory()
	projects := repo.NewProjectRepo(store, repo.NewSessionRepo(store))
	return NewUserService(repo.NewUserRepo(store), projects), projects
}

func TestUserService_EnsureUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture()
	id := &identity.Identity{Subject: "u1", Email: "u1@example.com", DisplayName: "Ann", Provider: "google"}

	first, err := svc.EnsureUser(ctx, id)
	require.NoError(t, err)
	second, err := svc.EnsureUser(ctx, &identity.Identity{Subject: "u1", DisplayName: "Changed"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ann", second.DisplayName)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	_, err = svc.EnsureUser(ctx, &identity.Identity{})
	assert.Error(t, err)
}

func TestUserService_Favorites(t *testing.T) {
	ctx := context.Background()
	svc, projects := newUserFixture()
	for _, uid := range []string{"u1", "u2"} {
		_, err := svc.EnsureUser(ctx, &identity.Identity{Subject: uid, Provider: "google"})
		require.NoError(t, err)
	}

	private := &model.Project{UserID: "u1", Name: "Private", Visibility: model.VisibilityPrivate, Status: model.ProjectStatusPlanning}
	public := &model.Project{UserID: "u1", Name: "Public", Visibility: model.VisibilityPublic, Status: model.ProjectStatusPlanning}
	private.Normalize()
	public.Normalize()
	require.NoError(t, projects.Create(ctx, private))
	require.NoError(t, projects.Create(ctx, public))

	u, err := svc.AddFavorite(ctx, "u2", public.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{public.ID}, u.FavoriteProjectIDs)

	_, err = svc.AddFavorite(ctx, "u2", private.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddFavorite(ctx, "u2", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	u, err = svc.RemoveFavorite(ctx, "u2", public.ID)
	require.NoError(t, err)
	assert.Empty(t, u.FavoriteProjectIDs)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture()
	_, err := svc.EnsureUser(ctx, &identity.Identity{Subject: "u1", DisplayName: "Ann", Provider: "google"})
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, "u1", map[string]any{"displayName": "Annie"})
	require.NoError(t, err)
	assert.Equal(t, "Annie", u.DisplayName)

	_, err = svc.UpdateProfile(ctx, "u1", map[string]any{"photoUrl": "not a url"})
	assert.ErrorContains(t, err, "photoUrl")

	_, err = svc.UpdateProfile(ctx, "ghost", map[string]any{"displayName": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
