package service

import (
	"context"

	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"go.uber.org/zap"
)

const (
	systemCataloguesKey = "catalogues:system"
	cataloguesTag       = "catalogues"
)

// CatalogueService serves the shared system catalogues alongside each
// user's own. System catalogues are read-only through this service.
type CatalogueService interface {
	// List returns every system catalogue followed by the caller's own.
	List(ctx context.Context, userID string) ([]*model.Catalogue, error)
	Get(ctx context.Context, userID, id string) (*model.Catalogue, error)
	Create(ctx context.Context, userID string, input map[string]any) (*model.Catalogue, error)
	Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Catalogue, error)
	Delete(ctx context.Context, userID, id string) error
	// EnsureSystem seeds system catalogues that do not exist yet and
	// reports how many were created.
	EnsureSystem(ctx context.Context, catalogues []*model.Catalogue) (int, error)
}

type catalogueService struct {
	r repo.CatalogueRepo
	support
}

func NewCatalogueService(r repo.CatalogueRepo, cache Cache, log *zap.Logger) CatalogueService {
	return &catalogueService{r: r, support: support{cache: cache, log: log}}
}

func userCataloguesTag(userID string) string { return "catalogues:" + userID }

func (s *catalogueService) system(ctx context.Context) ([]*model.Catalogue, error) {
	var items []*model.Catalogue
	if s.cached(ctx, systemCataloguesKey, &items) {
		return items, nil
	}
	items, err := s.r.ListSystem(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, systemCataloguesKey, items, cataloguesTag)
	return items, nil
}

func (s *catalogueService) List(ctx context.Context, userID string) ([]*model.Catalogue, error) {
	items, err := s.system(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return items, nil
	}
	own, err := s.r.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Catalogue, 0, len(items)+len(own))
	out = append(out, items...)
	return append(out, own...), nil
}

func (s *catalogueService) Get(ctx context.Context, userID, id string) (*model.Catalogue, error) {
	c, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "catalogue")
	}
	if !c.CanRead(userID) {
		return nil, denied(userID)
	}
	return c, nil
}

func (s *catalogueService) Create(ctx context.Context, userID string, input map[string]any) (*model.Catalogue, error) {
	var in model.CatalogueInput
	if err := validation.Decode(input, &in); err != nil {
		return nil, err
	}
	c := in.ToCatalogue(userID)
	if err := validation.Validate(c); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userCataloguesTag(userID))
	return s.Get(ctx, userID, c.ID)
}

func (s *catalogueService) writable(ctx context.Context, userID, id string) (*model.Catalogue, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !c.CanWrite(userID) {
		return nil, denied(userID)
	}
	return c, nil
}

func (s *catalogueService) Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Catalogue, error) {
	var in model.CataloguePatch
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
	if err := s.r.Update(ctx, c); err != nil {
		return nil, storeErr(err, "catalogue")
	}
	s.invalidate(ctx, userCataloguesTag(userID))
	return s.Get(ctx, userID, id)
}

func (s *catalogueService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.writable(ctx, userID, id); err != nil {
		return err
	}
	if err := s.r.Delete(ctx, id); err != nil {
		return storeErr(err, "catalogue")
	}
	s.invalidate(ctx, userCataloguesTag(userID))
	return nil
}

func (s *catalogueService) EnsureSystem(ctx context.Context, catalogues []*model.Catalogue) (int, error) {
	created := 0
	for _, c := range catalogues {
		c.Type = model.CatalogueTypeSystem
		c.UserID = ""
		if c.Visibility == "" {
			c.Visibility = model.VisibilityPublic
		}
		if err := validation.Validate(c); err != nil {
			return created, err
		}
		ok, err := s.r.EnsureSystem(ctx, c)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	if created > 0 {
		s.invalidate(ctx, cataloguesTag)
	}
	return created, nil
}
