package bootstrap

import (
	"context"

	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/service"
	"go.uber.org/zap"
)

// systemCatalogues have fixed ids so seeding stays idempotent across restarts
// and replicas.
func systemCatalogues() []*model.Catalogue {
	return []*model.Catalogue{
		{
			ID:           "messier",
			Name:         "Messier",
			Abbreviation: "M",
			Prefix:       "M",
			Description:  "Charles Messier's list of nebulae and star clusters.",
			ObjectCount:  110,
		},
		{
			ID:           "ngc",
			Name:         "New General Catalogue",
			Abbreviation: "NGC",
			Prefix:       "NGC",
			ObjectCount:  7840,
		},
		{
			ID:           "ic",
			Name:         "Index Catalogue",
			Abbreviation: "IC",
			Prefix:       "IC",
			ObjectCount:  5386,
		},
		{
			ID:           "caldwell",
			Name:         "Caldwell",
			Abbreviation: "C",
			Prefix:       "C",
			Description:  "Bright deep-sky objects missing from the Messier list.",
			ObjectCount:  109,
		},
		{
			ID:           "sharpless",
			Name:         "Sharpless",
			Abbreviation: "Sh2",
			Prefix:       "Sh2-",
			Description:  "HII regions catalogued by Stewart Sharpless.",
			ObjectCount:  313,
		},
	}
}

// EnsureSystemCatalogues creates the built-in catalogues that are missing.
func EnsureSystemCatalogues(ctx context.Context, svc service.CatalogueService, log *zap.Logger) error {
	created, err := svc.EnsureSystem(ctx, systemCatalogues())
	if err != nil {
		return err
	}
	if created > 0 {
		log.Sugar().Infow("system catalogues created", "count", created)
	}
	return nil
}
