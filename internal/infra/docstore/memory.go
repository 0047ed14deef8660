package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type docKey struct {
	collection string
	id         string
}

// memoryStore keeps documents in process. It backs local development and
// tests; it is not shared between processes.
type memoryStore struct {
	mu   sync.RWMutex
	docs map[docKey]*Document
	now  func() time.Time
}

func NewMemory() Store {
	return &memoryStore{
		docs: make(map[docKey]*Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[docKey{collection, id}]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return copyDocument(d), nil
}

func (s *memoryStore) Query(_ context.Context, collection string, filters ...Filter) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Document, 0)
	for k, d := range s.docs {
		if k.collection != collection || !matches(d.Data, filters) {
			continue
		}
		out = append(out, copyDocument(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) Commit(_ context.Context, writes ...Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// staged holds the post-commit state of every touched key; nil means deleted
	staged := make(map[docKey]*Document, len(writes))
	lookup := func(k docKey) (*Document, bool) {
		if d, ok := staged[k]; ok {
			return d, d != nil
		}
		d, ok := s.docs[k]
		return d, ok
	}

	for _, w := range writes {
		k := docKey{w.Collection, w.ID}
		existing, exists := lookup(k)

		switch w.Kind {
		case WriteCreate:
			if exists {
				return fmt.Errorf("%s/%s: %w", w.Collection, w.ID, ErrAlreadyExists)
			}
			staged[k] = &Document{
				Collection: w.Collection,
				ID:         w.ID,
				Data:       resolveData(copyValue(w.Data).(map[string]any), now),
				CreateTime: now,
				UpdateTime: now,
			}
		case WriteSet:
			createTime := now
			if exists {
				createTime = existing.CreateTime
			}
			staged[k] = &Document{
				Collection: w.Collection,
				ID:         w.ID,
				Data:       resolveData(copyValue(w.Data).(map[string]any), now),
				CreateTime: createTime,
				UpdateTime: now,
			}
		case WriteUpdate:
			if !exists {
				return fmt.Errorf("%s/%s: %w", w.Collection, w.ID, ErrNotFound)
			}
			next := copyDocument(existing)
			applyUpdates(next.Data, w.Updates, now)
			next.UpdateTime = now
			staged[k] = next
		case WriteDelete:
			staged[k] = nil
		default:
			return fmt.Errorf("unknown write kind %d", w.Kind)
		}
	}

	for k, d := range staged {
		if d == nil {
			delete(s.docs, k)
			continue
		}
		s.docs[k] = d
	}
	return nil
}

func (s *memoryStore) Close() error { return nil }
