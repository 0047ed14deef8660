// Package docstore is a small document-database abstraction shared by the
// Firestore, Postgres (JSONB) and in-memory drivers.
//
// Documents live in slash-separated collection paths ("projects" or
// "projects/{id}/sessions"), hold a map of top-level fields and carry
// server-maintained create/update times. Writes are grouped into a single
// atomic commit.
package docstore

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

type Document struct {
	Collection string
	ID         string
	Data       map[string]any
	CreateTime time.Time
	UpdateTime time.Time
}

type Op string

const (
	OpEqual         Op = "=="
	OpLess          Op = "<"
	OpArrayContains Op = "array-contains"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

type serverTimestamp struct{}

// ServerTimestamp is replaced by the commit time of the write it appears in.
var ServerTimestamp any = serverTimestamp{}

type deleteField struct{}

// DeleteField removes the field it is assigned to. In whole-document writes
// the key is simply left out.
var DeleteField any = deleteField{}

type arrayUnion struct{ values []any }

type arrayRemove struct{ values []any }

// ArrayUnion appends the values that are not already present in the array field.
func ArrayUnion(values ...any) any { return arrayUnion{values: values} }

// ArrayRemove removes every occurrence of the values from the array field.
func ArrayRemove(values ...any) any { return arrayRemove{values: values} }

type WriteKind int

const (
	WriteCreate WriteKind = iota + 1
	WriteSet
	WriteUpdate
	WriteDelete
)

type Update struct {
	Field string
	Value any
}

type Write struct {
	Kind       WriteKind
	Collection string
	ID         string
	Data       map[string]any
	Updates    []Update
}

// CreateDoc fails the commit with ErrAlreadyExists if the document exists.
func CreateDoc(collection, id string, data map[string]any) Write {
	return Write{Kind: WriteCreate, Collection: collection, ID: id, Data: data}
}

// SetDoc replaces the document, creating it if needed.
func SetDoc(collection, id string, data map[string]any) Write {
	return Write{Kind: WriteSet, Collection: collection, ID: id, Data: data}
}

// UpdateDoc changes top-level fields and fails the commit with ErrNotFound if
// the document does not exist.
func UpdateDoc(collection, id string, updates ...Update) Write {
	return Write{Kind: WriteUpdate, Collection: collection, ID: id, Updates: updates}
}

// DeleteDoc removes the document; deleting a missing document is not an error.
func DeleteDoc(collection, id string) Write {
	return Write{Kind: WriteDelete, Collection: collection, ID: id}
}

// UpdatesFrom turns a field map into updates ordered by field name.
func UpdatesFrom(fields map[string]any) []Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Update, 0, len(keys))
	for _, k := range keys {
		out = append(out, Update{Field: k, Value: fields[k]})
	}
	return out
}

type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Query returns the documents of a collection matching every filter,
	// ordered by document id.
	Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error)
	// Commit applies all writes atomically: either every write is applied or none is.
	Commit(ctx context.Context, writes ...Write) error
	Close() error
}

func NewID() string {
	return uuid.NewString()
}

// SubCollection returns the path of a collection nested under a document.
func SubCollection(collection, id, name string) string {
	return strings.Join([]string{collection, id, name}, "/")
}

// resolveValue replaces sentinels with concrete values for drivers that do
// not understand them natively.
func resolveValue(v any, now time.Time) any {
	switch t := v.(type) {
	case serverTimestamp:
		return now
	case arrayUnion:
		return resolveValue(t.values, now)
	case arrayRemove:
		return []any{}
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, drop := val.(deleteField); drop {
				continue
			}
			out[k] = resolveValue(val, now)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = resolveValue(val, now)
		}
		return out
	default:
		return v
	}
}

func resolveData(data map[string]any, now time.Time) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return resolveValue(data, now).(map[string]any)
}

// applyUpdates mutates data in place.
func applyUpdates(data map[string]any, updates []Update, now time.Time) {
	for _, u := range updates {
		switch t := u.Value.(type) {
		case deleteField:
			delete(data, u.Field)
		case arrayUnion:
			current := toSlice(data[u.Field])
			for _, v := range t.values {
				if !containsValue(current, v) {
					current = append(current, resolveValue(v, now))
				}
			}
			data[u.Field] = current
		case arrayRemove:
			current := toSlice(data[u.Field])
			kept := make([]any, 0, len(current))
			for _, existing := range current {
				if !containsValue(t.values, existing) {
					kept = append(kept, existing)
				}
			}
			data[u.Field] = kept
		default:
			data[u.Field] = resolveValue(u.Value, now)
		}
	}
}

func toSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return append([]any{}, t...)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if equalValues(candidate, v) {
			return true
		}
	}
	return false
}

func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

func lessValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af < bf
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Before(bt)
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	return aok && bok && as < bs
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case OpEqual:
			if !equalValues(v, f.Value) {
				return false
			}
		case OpLess:
			if !lessValues(v, f.Value) {
				return false
			}
		case OpArrayContains:
			if !containsValue(toSlice(v), f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	default:
		return v
	}
}

func copyDocument(d *Document) *Document {
	out := *d
	if d.Data == nil {
		out.Data = map[string]any{}
		return &out
	}
	out.Data = copyValue(d.Data).(map[string]any)
	return &out
}
