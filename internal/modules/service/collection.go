package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

// CollectionService groups projects the caller can read.
type CollectionService interface {
	List(ctx context.Context, userID string) ([]*model.Collection, error)
	Get(ctx context.Context, userID, id string) (*model.Collection, error)
	Create(ctx context.Context, userID string, input map[string]any) (*model.Collection, error)
	Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Collection, error)
	Delete(ctx context.Context, userID, id string) error
}

type collectionService struct {
	r        repo.CollectionRepo
	projects repo.ProjectRepo
}

func NewCollectionService(r repo.CollectionRepo, projects repo.ProjectRepo) CollectionService {
	return &collectionService{r: r, projects: projects}
}

func (s *collectionService) List(ctx context.Context, userID string) ([]*model.Collection, error) {
	return s.r.ListByOwner(ctx, userID)
}

func (s *collectionService) Get(ctx context.Context, userID, id string) (*model.Collection, error) {
	c, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "collection")
	}
	if !c.CanRead(userID) {
		return nil, denied(userID)
	}
	return c, nil
}

// checkProjects rejects ids of projects that are missing or unreadable.
func (s *collectionService) checkProjects(ctx context.Context, userID string, ids []string) error {
	var errs validation.Errors
	for i, id := range ids {
		p, err := s.projects.GetMeta(ctx, id)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				errs = append(errs, validation.FieldError{Field: fmt.Sprintf("projectIds[%d]", i), Message: "project does not exist"})
				continue
			}
			return err
		}
		if !p.CanRead(userID) {
			errs = append(errs, validation.FieldError{Field: fmt.Sprintf("projectIds[%d]", i), Message: "project is not accessible"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *collectionService) Create(ctx context.Context, userID string, input map[string]any) (*model.Collection, error) {
	var in model.CollectionInput
	if err := validation.Decode(input, &in); err != nil {
		return nil, err
	}
	c := in.ToCollection(userID)
	if err := validation.Validate(c); err != nil {
		return nil, err
	}
	if err := s.checkProjects(ctx, userID, c.ProjectIDs); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, c.ID)
}

func (s *collectionService) writable(ctx context.Context, userID, id string) (*model.Collection, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !c.CanWrite(userID) {
		return nil, denied(userID)
	}
	return c, nil
}

func (s *collectionService) Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Collection, error) {
	var in model.CollectionPatch
	if err := validation.Decode(patch, &in); err != nil {
		return nil, err
	}
	c, err := s.writable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.Apply(c)
	if err := validation.Validate(c); err != nil {
		return nil, err
	}
	if in.ProjectIDs != nil {
		if err := s.checkProjects(ctx, userID, c.ProjectIDs); err != nil {
			return nil, err
		}
	}
	if err := s.r.Update(ctx, c); err != nil {
		return nil, storeErr(err, "collection")
	}
	return s.Get(ctx, userID, id)
}

func (s *collectionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.writable(ctx, userID, id); err != nil {
		return err
	}
	if err := s.r.Delete(ctx, id); err != nil {
		return storeErr(err, "collection")
	}
	return nil
}
