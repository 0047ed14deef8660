package service

import (
	"context"
	"errors"
	"testing"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCollection(id, owner, visibility string, projectIDs ...string) *model.Collection {
	c := &model.Collection{ID: id, UserID: owner, Name: "Nebulae", Visibility: visibility, ProjectIDs: projectIDs}
	c.Normalize()
	return c
}

func TestCollectionService_CreateChecksProjects(t *testing.T) {
	ctx := context.Background()
	collections := &MockCollectionRepo{}
	projects := &MockProjectRepo{}

	projects.On("GetMeta", ctx, "mine").Return(testProject("mine", "u1", model.VisibilityPrivate), nil)
	projects.On("GetMeta", ctx, "gone").Return(nil, docstore.ErrNotFound)
	projects.On("GetMeta", ctx, "theirs").Return(testProject("theirs", "u2", model.VisibilityPrivate), nil)

	svc := NewCollectionService(collections, projects)
	_, err := svc.Create(ctx, "u1", map[string]any{
		"name":       "Nebulae",
		"projectIds": []any{"mine", "gone", "theirs"},
	})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "projectIds[1]", verrs[0].Field)
	assert.Equal(t, "project does not exist", verrs[0].Message)
	assert.Equal(t, "projectIds[2]", verrs[1].Field)
	assert.Equal(t, "project is not accessible", verrs[1].Message)
	collections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCollectionService_CreateAcceptsReadableProjects(t *testing.T) {
	ctx := context.Background()
	collections := &MockCollectionRepo{}
	projects := &MockProjectRepo{}

	projects.On("GetMeta", ctx, "mine").Return(testProject("mine", "u1", model.VisibilityPrivate), nil)
	projects.On("GetMeta", ctx, "public").Return(testProject("public", "u2", model.VisibilityPublic), nil)
	collections.On("Create", ctx, mock.MatchedBy(func(c *model.Collection) bool {
		return c.UserID == "u1" && c.Visibility == model.VisibilityPrivate && len(c.ProjectIDs) == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Collection).ID = "c1"
	}).Return(nil)
	collections.On("Get", ctx, "c1").Return(testCollection("c1", "u1", model.VisibilityPrivate, "mine", "public"), nil)

	svc := NewCollectionService(collections, projects)
	got, err := svc.Create(ctx, "u1", map[string]any{
		"name":       "Nebulae",
		"projectIds": []any{"mine", "public", "mine"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"mine", "public"}, got.ProjectIDs)
	collections.AssertExpectations(t)
}

func TestCollectionService_UpdateRechecksOnlyChangedProjects(t *testing.T) {
	ctx := context.Background()
	collections := &MockCollectionRepo{}
	projects := &MockProjectRepo{}

	collections.On("Get", ctx, "c1").Return(testCollection("c1", "u1", model.VisibilityPrivate, "old"), nil)
	collections.On("Update", ctx, mock.Anything).Return(nil)

	svc := NewCollectionService(collections, projects)
	_, err := svc.Update(ctx, "u1", "c1", map[string]any{"name": "Galaxies"})
	require.NoError(t, err)
	projects.AssertNotCalled(t, "GetMeta", mock.Anything, mock.Anything)

	projects.On("GetMeta", ctx, "gone").Return(nil, docstore.ErrNotFound)
	_, err = svc.Update(ctx, "u1", "c1", map[string]any{"projectIds": []any{"gone"}})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "projectIds[0]", verrs[0].Field)
}

func TestCollectionService_Access(t *testing.T) {
	ctx := context.Background()
	collections := &MockCollectionRepo{}
	collections.On("Get", ctx, "private").Return(testCollection("private", "u1", model.VisibilityPrivate), nil)
	collections.On("Get", ctx, "public").Return(testCollection("public", "u1", model.VisibilityPublic), nil)
	collections.On("Get", ctx, "missing").Return(nil, docstore.ErrNotFound)
	svc := NewCollectionService(collections, &MockProjectRepo{})

	_, err := svc.Get(ctx, "u2", "private")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Get(ctx, "", "private")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Get(ctx, "", "public")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// public collections are readable but not writable by others
	err = svc.Delete(ctx, "u2", "public")
	assert.ErrorIs(t, err, ErrForbidden)
	collections.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
