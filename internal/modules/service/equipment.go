package service

import (
	"context"

	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"go.uber.org/zap"
)

// EquipmentService manages a user's private equipment inventory.
type EquipmentService interface {
	List(ctx context.Context, userID string) ([]*model.Equipment, error)
	Get(ctx context.Context, userID, id string) (*model.Equipment, error)
	Create(ctx context.Context, userID string, input map[string]any) (*model.Equipment, error)
	Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Equipment, error)
	Delete(ctx context.Context, userID, id string) error
}

type equipmentService struct {
	r repo.EquipmentRepo
	support
}

func NewEquipmentService(r repo.EquipmentRepo, cache Cache, log *zap.Logger) EquipmentService {
	return &equipmentService{r: r, support: support{cache: cache, log: log}}
}

func equipmentTag(userID string) string { return "equipment:" + userID }

func (s *equipmentService) List(ctx context.Context, userID string) ([]*model.Equipment, error) {
	key := equipmentTag(userID)
	var items []*model.Equipment
	if s.cached(ctx, key, &items) {
		return items, nil
	}
	items, err := s.r.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, items, key)
	return items, nil
}

func (s *equipmentService) Get(ctx context.Context, userID, id string) (*model.Equipment, error) {
	e, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "equipment")
	}
	if !e.CanRead(userID) {
		return nil, denied(userID)
	}
	return e, nil
}

func (s *equipmentService) Create(ctx context.Context, userID string, input map[string]any) (*model.Equipment, error) {
	var in model.EquipmentInput
	if err := validation.Decode(input, &in); err != nil {
		return nil, err
	}
	e := in.ToEquipment(userID)
	if err := validation.Validate(e); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate(ctx, equipmentTag(userID))
	return s.Get(ctx, userID, e.ID)
}

func (s *equipmentService) Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Equipment, error) {
	var in model.EquipmentPatch
	if err := validation.Decode(patch, &in); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.Apply(e)
	if err := validation.Validate(e); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, e); err != nil {
		return nil, storeErr(err, "equipment")
	}
	s.invalidate(ctx, equipmentTag(userID))
	return s.Get(ctx, userID, id)
}

func (s *equipmentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.r.Delete(ctx, id); err != nil {
		return storeErr(err, "equipment")
	}
	s.invalidate(ctx, equipmentTag(userID))
	return nil
}
