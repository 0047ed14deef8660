package repo

import (
	"context"
	"time"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
)

type AuthSessionRepo interface {
	Create(ctx context.Context, s *model.AuthSession) error
	Get(ctx context.Context, id string) (*model.AuthSession, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every session that expired before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type authSessionRepo struct {
	store docstore.Store
	docs  docs[model.AuthSession]
}

func NewAuthSessionRepo(store docstore.Store) AuthSessionRepo {
	return &authSessionRepo{store: store, docs: docs[model.AuthSession]{store: store, collection: CollectionAuthSessions}}
}

func (r *authSessionRepo) Create(ctx context.Context, s *model.AuthSession) error {
	return r.docs.create(ctx, s.ID, s)
}

func (r *authSessionRepo) Get(ctx context.Context, id string) (*model.AuthSession, error) {
	return r.docs.get(ctx, id)
}

func (r *authSessionRepo) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *authSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := r.store.Query(ctx, CollectionAuthSessions, docstore.Where("expiresAt", docstore.OpLess, now.UTC()))
	if err != nil {
		return 0, err
	}
	writes := make([]docstore.Write, 0, len(expired))
	for _, d := range expired {
		writes = append(writes, docstore.DeleteDoc(CollectionAuthSessions, d.ID))
	}
	if err := commitChunked(ctx, r.store, writes); err != nil {
		return 0, err
	}
	return len(writes), nil
}
