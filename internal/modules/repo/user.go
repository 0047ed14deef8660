package repo

import (
	"context"
	"errors"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
)

type UserRepo interface {
	Get(ctx context.Context, id string) (*model.User, error)
	// GetOrCreate returns the stored user with u.ID, creating it from u on
	// first use. Concurrent first uses converge on a single record.
	GetOrCreate(ctx context.Context, u *model.User) (*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	AddFavorite(ctx context.Context, userID, projectID string) error
	RemoveFavorite(ctx context.Context, userID, projectID string) error
}

type userRepo struct {
	store docstore.Store
	docs  docs[model.User]
}

func NewUserRepo(store docstore.Store) UserRepo {
	return &userRepo{store: store, docs: docs[model.User]{store: store, collection: CollectionUsers}}
}

func (r *userRepo) Get(ctx context.Context, id string) (*model.User, error) {
	return r.docs.get(ctx, id)
}

func (r *userRepo) GetOrCreate(ctx context.Context, u *model.User) (*model.User, error) {
	existing, err := r.docs.get(ctx, u.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}

	// projects may already name this user as a collaborator
	shared, err := r.store.Query(ctx, CollectionProjects,
		docstore.Where("collaborators", docstore.OpArrayContains, u.ID))
	if err != nil {
		return nil, err
	}
	for _, d := range shared {
		u.CollaboratingProjectIDs = append(u.CollaboratingProjectIDs, d.ID)
	}

	u.Normalize()
	if err := r.docs.create(ctx, u.ID, u); err != nil {
		// another request may have created the user first
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return r.docs.get(ctx, u.ID)
		}
		return nil, err
	}
	return r.docs.get(ctx, u.ID)
}

func (r *userRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	return r.store.Commit(ctx, docstore.UpdateDoc(CollectionUsers, u.ID,
		docstore.Update{Field: "displayName", Value: u.DisplayName},
		docstore.Update{Field: "photoUrl", Value: u.PhotoURL},
		docstore.Update{Field: "updatedAt", Value: docstore.ServerTimestamp},
	))
}

func (r *userRepo) AddFavorite(ctx context.Context, userID, projectID string) error {
	return r.store.Commit(ctx, docstore.UpdateDoc(CollectionUsers, userID,
		docstore.Update{Field: "favoriteProjectIds", Value: docstore.ArrayUnion(projectID)},
		docstore.Update{Field: "updatedAt", Value: docstore.ServerTimestamp},
	))
}

func (r *userRepo) RemoveFavorite(ctx context.Context, userID, projectID string) error {
	return r.store.Commit(ctx, docstore.UpdateDoc(CollectionUsers, userID,
		docstore.Update{Field: "favoriteProjectIds", Value: docstore.ArrayRemove(projectID)},
		docstore.Update{Field: "updatedAt", Value: docstore.ServerTimestamp},
	))
}
