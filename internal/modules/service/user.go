package service

import (
	"context"
	"errors"

	"github.com/astrotrack/astrotrack/internal/infra/identity"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

type UserService interface {
	// EnsureUser returns the local user for id, creating it on first use.
	// Calling it again with the same subject returns the same user.
	EnsureUser(ctx context.Context, id *identity.Identity) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*model.User, error)
	AddFavorite(ctx context.Context, userID, projectID string) (*model.User, error)
	RemoveFavorite(ctx context.Context, userID, projectID string) (*model.User, error)
}

type userService struct {
	r        repo.UserRepo
	projects repo.ProjectRepo
}

func NewUserService(r repo.UserRepo, projects repo.ProjectRepo) UserService {
	return &userService{r: r, projects: projects}
}

func (s *userService) EnsureUser(ctx context.Context, id *identity.Identity) (*model.User, error) {
	if id == nil || id.Subject == "" {
		return nil, errors.New("identity subject is empty")
	}
	return s.r.GetOrCreate(ctx, &model.User{
		ID:          id.Subject,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
	})
}

func (s *userService) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.r.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*model.User, error) {
	var in model.UserPatch
	if err := validation.Decode(patch, &in); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	in.Apply(u)
	if err := s.r.UpdateProfile(ctx, u); err != nil {
		return nil, storeErr(err, "user")
	}
	return s.Get(ctx, userID)
}

func (s *userService) AddFavorite(ctx context.Context, userID, projectID string) (*model.User, error) {
	p, err := s.projects.GetMeta(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	if !p.CanRead(userID) {
		return nil, ErrForbidden
	}
	if err := s.r.AddFavorite(ctx, userID, projectID); err != nil {
		return nil, storeErr(err, "user")
	}
	return s.Get(ctx, userID)
}

// RemoveFavorite succeeds even when the project no longer exists.
func (s *userService) RemoveFavorite(ctx context.Context, userID, projectID string) (*model.User, error) {
	if err := s.r.RemoveFavorite(ctx, userID, projectID); err != nil {
		return nil, storeErr(err, "user")
	}
	return s.Get(ctx, userID)
}
