package repo

import (
	"context"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
)

type CollectionRepo interface {
	Create(ctx context.Context, c *model.Collection) error
	Get(ctx context.Context, id string) (*model.Collection, error)
	ListByOwner(ctx context.Context, userID string) ([]*model.Collection, error)
	Update(ctx context.Context, c *model.Collection) error
	Delete(ctx context.Context, id string) error
}

type collectionRepo struct {
	docs docs[model.Collection]
}

func NewCollectionRepo(store docstore.Store) CollectionRepo {
	return &collectionRepo{docs: docs[model.Collection]{store: store, collection: CollectionCollections}}
}

func (r *collectionRepo) Create(ctx context.Context, c *model.Collection) error {
	if c.ID == "" {
		c.ID = docstore.NewID()
	}
	return r.docs.create(ctx, c.ID, c)
}

func (r *collectionRepo) Get(ctx context.Context, id string) (*model.Collection, error) {
	return r.docs.get(ctx, id)
}

func (r *collectionRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Collection, error) {
	return r.docs.query(ctx, docstore.Where("userId", docstore.OpEqual, userID))
}

func (r *collectionRepo) Update(ctx context.Context, c *model.Collection) error {
	return r.docs.update(ctx, c.ID, c)
}

func (r *collectionRepo) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}
