package repo

import (
	"context"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
)

type EquipmentRepo interface {
	Create(ctx context.Context, e *model.Equipment) error
	Get(ctx context.Context, id string) (*model.Equipment, error)
	ListByOwner(ctx context.Context, userID string) ([]*model.Equipment, error)
	Update(ctx context.Context, e *model.Equipment) error
	Delete(ctx context.Context, id string) error
}

type equipmentRepo struct {
	docs docs[model.Equipment]
}

func NewEquipmentRepo(store docstore.Store) EquipmentRepo {
	return &equipmentRepo{docs: docs[model.Equipment]{store: store, collection: CollectionEquipment}}
}

func (r *equipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	if e.ID == "" {
		e.ID = docstore.NewID()
	}
	return r.docs.create(ctx, e.ID, e)
}

func (r *equipmentRepo) Get(ctx context.Context, id string) (*model.Equipment, error) {
	return r.docs.get(ctx, id)
}

func (r *equipmentRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Equipment, error) {
	return r.docs.query(ctx, docstore.Where("userId", docstore.OpEqual, userID))
}

func (r *equipmentRepo) Update(ctx context.Context, e *model.Equipment) error {
	return r.docs.update(ctx, e.ID, e)
}

func (r *equipmentRepo) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}
