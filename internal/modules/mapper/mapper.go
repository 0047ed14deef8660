// Package mapper converts between entities and raw documents.
//
// On write it drops the entity id and any caller-supplied timestamps and
// stamps createdAt/updatedAt with the store's server timestamp. On read it
// turns store-native timestamps into time.Time, defaults missing timestamps
// to now, takes the id from the document identity and validates the result.
package mapper

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

type WriteOp int

const (
	OpCreate WriteOp = iota + 1
	OpUpdate
)

const (
	fieldID        = "id"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

// Normalizer is implemented by entities that replace nil collections with
// empty ones after decoding.
type Normalizer interface {
	Normalize()
}

type readOptions struct {
	idField string
}

type ReadOption func(*readOptions)

// WithIDField stores the document identity under field instead of "id".
func WithIDField(field string) ReadOption {
	return func(o *readOptions) { o.idField = field }
}

// ToStorage encodes v (a struct or pointer to struct) into a raw document.
// Fields named in omit are left out, e.g. data kept in a subcollection.
// For OpUpdate, top-level omitempty fields holding their zero value become
// docstore.DeleteField so a cleared value does not survive the write.
func ToStorage(v any, op WriteOp, omit ...string) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.Type() == timeType {
		return nil, fmt.Errorf("mapper: %T does not encode to an object", v)
	}
	data, err := encodeStruct(rv, op == OpUpdate)
	if err != nil {
		return nil, err
	}

	delete(data, fieldID)
	delete(data, fieldCreatedAt)
	delete(data, fieldUpdatedAt)
	for _, f := range omit {
		delete(data, f)
	}

	if op == OpCreate {
		data[fieldCreatedAt] = docstore.ServerTimestamp
	}
	data[fieldUpdatedAt] = docstore.ServerTimestamp
	return data, nil
}

// ToDomain decodes doc into a new T. It never panics on malformed data; it
// returns validation.Errors instead.
func ToDomain[T any](doc *docstore.Document, now time.Time, opts ...ReadOption) (*T, error) {
	o := readOptions{idField: fieldID}
	for _, opt := range opts {
		opt(&o)
	}

	raw := make(map[string]any, len(doc.Data)+3)
	for k, v := range doc.Data {
		raw[k] = v
	}
	raw[o.idField] = doc.ID
	for _, f := range []string{fieldCreatedAt, fieldUpdatedAt} {
		if !isTimestamp(raw[f]) {
			raw[f] = now
		}
	}

	out := new(T)
	if err := validation.Decode(raw, out); err != nil {
		return nil, err
	}
	if n, ok := any(out).(Normalizer); ok {
		n.Normalize()
	}
	return out, nil
}

func isTimestamp(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return !t.IsZero()
	case string:
		_, err := time.Parse(time.RFC3339Nano, t)
		return err == nil
	}
	return false
}

var timeType = reflect.TypeOf(time.Time{})

// encode mirrors encoding/json's field naming (json tags, omitempty) but
// keeps time.Time values native so each driver can store them its own way.
func encode(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.Type() == timeType {
		return v.Interface().(time.Time).UTC(), nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return encode(v.Elem())
	case reflect.Struct:
		return encodeStruct(v, false)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("mapper: unsupported map key type %s", v.Type().Key())
		}
		if v.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val, err := encode(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = val
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		out := make([]any, v.Len())
		for i := range out {
			val, err := encode(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	}
	return nil, fmt.Errorf("mapper: unsupported kind %s", v.Kind())
}

// encodeStruct skips empty omitempty fields, or marks them for deletion
// when clearEmpty is set.
func encodeStruct(v reflect.Value, clearEmpty bool) (map[string]any, error) {
	t := v.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fv := v.Field(i)
		if strings.Contains(opts, "omitempty") && isEmpty(fv) {
			if clearEmpty {
				out[name] = docstore.DeleteField
			}
			continue
		}
		val, err := encode(fv)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}

// isEmpty follows encoding/json's omitempty rules.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return v.IsZero()
}
