package repo

import (
	"context"
	"errors"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
)

type CatalogueRepo interface {
	Create(ctx context.Context, c *model.Catalogue) error
	// EnsureSystem creates c under its fixed id unless it already exists and
	// reports whether it was created.
	EnsureSystem(ctx context.Context, c *model.Catalogue) (bool, error)
	Get(ctx context.Context, id string) (*model.Catalogue, error)
	ListSystem(ctx context.Context) ([]*model.Catalogue, error)
	ListByOwner(ctx context.Context, userID string) ([]*model.Catalogue, error)
	Update(ctx context.Context, c *model.Catalogue) error
	Delete(ctx context.Context, id string) error
}

type catalogueRepo struct {
	docs docs[model.Catalogue]
}

func NewCatalogueRepo(store docstore.Store) CatalogueRepo {
	return &catalogueRepo{docs: docs[model.Catalogue]{store: store, collection: CollectionCatalogues}}
}

func (r *catalogueRepo) Create(ctx context.Context, c *model.Catalogue) error {
	if c.ID == "" {
		c.ID = docstore.NewID()
	}
	return r.docs.create(ctx, c.ID, c)
}

func (r *catalogueRepo) EnsureSystem(ctx context.Context, c *model.Catalogue) (bool, error) {
	err := r.docs.create(ctx, c.ID, c)
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *catalogueRepo) Get(ctx context.Context, id string) (*model.Catalogue, error) {
	return r.docs.get(ctx, id)
}

func (r *catalogueRepo) ListSystem(ctx context.Context) ([]*model.Catalogue, error) {
	return r.docs.query(ctx, docstore.Where("type", docstore.OpEqual, model.CatalogueTypeSystem))
}

func (r *catalogueRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Catalogue, error) {
	return r.docs.query(ctx,
		docstore.Where("type", docstore.OpEqual, model.CatalogueTypeUser),
		docstore.Where("userId", docstore.OpEqual, userID),
	)
}

func (r *catalogueRepo) Update(ctx context.Context, c *model.Catalogue) error {
	return r.docs.update(ctx, c.ID, c)
}

func (r *catalogueRepo) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}
