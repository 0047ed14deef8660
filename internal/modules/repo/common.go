package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/mapper"
)

const (
	CollectionUsers        = "users"
	CollectionProjects     = "projects"
	CollectionEquipment    = "equipment"
	CollectionCatalogues   = "catalogues"
	CollectionCollections  = "collections"
	CollectionAuthSessions = "auth_sessions"

	subSessions = "sessions"
)

// ErrMalformedDocument marks a stored document that no longer satisfies its
// shape. It is an infrastructure failure, not a client error.
var ErrMalformedDocument = errors.New("malformed document")

// maxBatchWrites stays below Firestore's per-transaction write limit.
const maxBatchWrites = 400

func sessionsCollection(projectID string) string {
	return docstore.SubCollection(CollectionProjects, projectID, subSessions)
}

func nowUTC() time.Time { return time.Now().UTC() }

// docs binds one entity type to one collection.
type docs[T any] struct {
	store      docstore.Store
	collection string
	opts       []mapper.ReadOption
}

func (d docs[T]) decode(doc *docstore.Document) (*T, error) {
	v, err := mapper.ToDomain[T](doc, nowUTC(), d.opts...)
	if err != nil {
		// %v keeps validation.Errors out of the chain so callers never report
		// stored data as a client error
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrMalformedDocument, doc.Collection, doc.ID, err)
	}
	return v, nil
}

func (d docs[T]) get(ctx context.Context, id string) (*T, error) {
	doc, err := d.store.Get(ctx, d.collection, id)
	if err != nil {
		return nil, err
	}
	return d.decode(doc)
}

func (d docs[T]) query(ctx context.Context, filters ...docstore.Filter) ([]*T, error) {
	found, err := d.store.Query(ctx, d.collection, filters...)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(found))
	for _, doc := range found {
		v, err := d.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d docs[T]) create(ctx context.Context, id string, v *T) error {
	data, err := mapper.ToStorage(v, mapper.OpCreate)
	if err != nil {
		return err
	}
	return d.store.Commit(ctx, docstore.CreateDoc(d.collection, id, data))
}

func (d docs[T]) update(ctx context.Context, id string, v *T, omit ...string) error {
	data, err := mapper.ToStorage(v, mapper.OpUpdate, omit...)
	if err != nil {
		return err
	}
	return d.store.Commit(ctx, docstore.UpdateDoc(d.collection, id, docstore.UpdatesFrom(data)...))
}

func (d docs[T]) delete(ctx context.Context, id string) error {
	return d.store.Commit(ctx, docstore.DeleteDoc(d.collection, id))
}

// commitChunked commits writes in batches; only each batch is atomic.
func commitChunked(ctx context.Context, store docstore.Store, writes []docstore.Write) error {
	for start := 0; start < len(writes); start += maxBatchWrites {
		end := min(start+maxBatchWrites, len(writes))
		if err := store.Commit(ctx, writes[start:end]...); err != nil {
			return err
		}
	}
	return nil
}
