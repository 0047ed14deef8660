package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/bytedance/sonic"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreStore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) Store {
	return &firestoreStore{client: client}
}

// NewFirestoreClient builds a client from the service-account fields when they
// are present and falls back to application default credentials otherwise.
func NewFirestoreClient(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.ClientEmail != "" && cfg.PrivateKey != "" {
		creds, err := sonic.Marshal(map[string]string{
			"type":         "service_account",
			"project_id":   cfg.ProjectID,
			"client_email": cfg.ClientEmail,
			// env files usually carry the PEM with escaped newlines
			"private_key": strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
			"token_uri":   "https://oauth2.googleapis.com/token",
		})
		if err != nil {
			return nil, fmt.Errorf("encode firestore credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	databaseID := cfg.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("while creating firestore client: %w", err)
	}
	return client, nil
}

func (s *firestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("while reading %s/%s: %w", collection, id, err)
	}
	return snapshotDocument(collection, snap), nil
}

func (s *firestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, string(f.Op), f.Value)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := make([]*Document, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while querying %s: %w", collection, err)
		}
		out = append(out, snapshotDocument(collection, snap))
	}
	// ordering server-side by __name__ would need a composite index per filter set
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *firestoreStore) Commit(ctx context.Context, writes ...Write) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, w := range writes {
			ref := s.client.Collection(w.Collection).Doc(w.ID)
			var err error
			switch w.Kind {
			case WriteCreate:
				err = tx.Create(ref, nativeData(w.Data))
			case WriteSet:
				err = tx.Set(ref, nativeData(w.Data))
			case WriteUpdate:
				updates := make([]firestore.Update, 0, len(w.Updates))
				for _, u := range w.Updates {
					updates = append(updates, firestore.Update{Path: u.Field, Value: nativeValue(u.Value)})
				}
				err = tx.Update(ref, updates)
			case WriteDelete:
				err = tx.Delete(ref)
			default:
				err = fmt.Errorf("unknown write kind %d", w.Kind)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("while committing writes: %w", err)
}

func (s *firestoreStore) Close() error {
	return s.client.Close()
}

func snapshotDocument(collection string, snap *firestore.DocumentSnapshot) *Document {
	data := snap.Data()
	if data == nil {
		data = map[string]any{}
	}
	return &Document{
		Collection: collection,
		ID:         snap.Ref.ID,
		Data:       data,
		CreateTime: snap.CreateTime.UTC(),
		UpdateTime: snap.UpdateTime.UTC(),
	}
}

func nativeData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return nativeValue(data).(map[string]any)
}

// nativeValue maps sentinels onto their Firestore transforms.
func nativeValue(v any) any {
	switch t := v.(type) {
	case serverTimestamp:
		return firestore.ServerTimestamp
	case deleteField:
		return firestore.Delete
	case arrayUnion:
		return firestore.ArrayUnion(t.values...)
	case arrayRemove:
		return firestore.ArrayRemove(t.values...)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, drop := val.(deleteField); drop {
				continue
			}
			out[k] = nativeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = nativeValue(val)
		}
		return out
	default:
		return v
	}
}
