package repo

import (
	"context"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/mapper"
	"github.com/astrotrack/astrotrack/internal/modules/model"
)

// SessionRepo stores observation sessions under projects/{id}/sessions,
// keyed by date. Every write also bumps the parent project's updatedAt in
// the same batch.
type SessionRepo interface {
	List(ctx context.Context, projectID string) (map[string]model.Session, error)
	Get(ctx context.Context, projectID, date string) (*model.Session, error)
	// Create fails with docstore.ErrAlreadyExists when the date is taken.
	Create(ctx context.Context, projectID string, s *model.Session) error
	Update(ctx context.Context, projectID string, s *model.Session) error
	Delete(ctx context.Context, projectID, date string) error
}

type sessionRepo struct {
	store docstore.Store
}

func NewSessionRepo(store docstore.Store) SessionRepo {
	return &sessionRepo{store: store}
}

func (r *sessionRepo) docs(projectID string) docs[model.Session] {
	return docs[model.Session]{
		store:      r.store,
		collection: sessionsCollection(projectID),
		opts:       []mapper.ReadOption{mapper.WithIDField("date")},
	}
}

func touchProject(projectID string) docstore.Write {
	return docstore.UpdateDoc(CollectionProjects, projectID,
		docstore.Update{Field: "updatedAt", Value: docstore.ServerTimestamp})
}

func (r *sessionRepo) List(ctx context.Context, projectID string) (map[string]model.Session, error) {
	sessions, err := r.docs(projectID).query(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Session, len(sessions))
	for _, s := range sessions {
		out[s.Date] = *s
	}
	return out, nil
}

func (r *sessionRepo) Get(ctx context.Context, projectID, date string) (*model.Session, error) {
	return r.docs(projectID).get(ctx, date)
}

func (r *sessionRepo) Create(ctx context.Context, projectID string, s *model.Session) error {
	data, err := mapper.ToStorage(s, mapper.OpCreate)
	if err != nil {
		return err
	}
	return r.store.Commit(ctx,
		docstore.CreateDoc(sessionsCollection(projectID), s.Date, data),
		touchProject(projectID),
	)
}

func (r *sessionRepo) Update(ctx context.Context, projectID string, s *model.Session) error {
	// date is the identity and never rewritten
	data, err := mapper.ToStorage(s, mapper.OpUpdate, "date")
	if err != nil {
		return err
	}
	return r.store.Commit(ctx,
		docstore.UpdateDoc(sessionsCollection(projectID), s.Date, docstore.UpdatesFrom(data)...),
		touchProject(projectID),
	)
}

func (r *sessionRepo) Delete(ctx context.Context, projectID, date string) error {
	return r.store.Commit(ctx,
		docstore.DeleteDoc(sessionsCollection(projectID), date),
		touchProject(projectID),
	)
}
