// Package validation decodes untyped request and document payloads into
// typed shapes and checks them against their declared constraints.
//
// Constraints are declared with go-playground/validator tags; field paths
// in reported errors use JSON names, e.g.
// sessions[2024-01-01].filters[0].frameCount.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a non-empty list of field failures sorted by field path.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// SelfValidator lets a shape add rules that span several fields.
type SelfValidator interface {
	ValidateSelf() []FieldError
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("scalar", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		for f.Kind() == reflect.Interface && !f.IsNil() {
			f = f.Elem()
		}
		switch f.Kind() {
		case reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	})
	return v
}

// Validate checks v's tags and, when v implements SelfValidator, its
// cross-field rules. It returns nil or Errors.
func Validate(v any) error {
	var errs Errors
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			errs = append(errs, FieldError{Field: fieldPath(fe.Namespace()), Message: message(fe)})
		}
	}
	if sv, ok := v.(SelfValidator); ok {
		errs = append(errs, sv.ValidateSelf()...)
	}
	return errs.orNil()
}

// Decode converts input into out (a pointer to a struct) using JSON field
// names, then validates the result. Type mismatches are reported as Errors
// the same way constraint failures are.
func Decode(input map[string]any, out any) error {
	if input == nil {
		input = map[string]any{}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		ZeroFields: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(timeHook, integerHook),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		var me *mapstructure.Error
		if errors.As(err, &me) {
			return decodeErrors(me.Errors)
		}
		return Errors{{Message: err.Error()}}
	}
	return Validate(out)
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	sort.SliceStable(e, func(i, j int) bool { return e[i].Field < e[j].Field })
	return e
}

var timeType = reflect.TypeOf(time.Time{})

// timeHook accepts RFC 3339 strings and native times for time.Time fields.
func timeHook(from, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch t := data.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return nil, errors.New("must be an RFC 3339 timestamp")
		}
		return parsed, nil
	}
	return data, nil
}

// integerHook refuses to truncate fractional numbers into integer fields.
func integerHook(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, errors.New("must be an integer")
	}
	return data, nil
}

var (
	quotedFieldRe = regexp.MustCompile(`^'([^']*)' (.*)$`)
	hookErrorRe   = regexp.MustCompile(`^error decoding '([^']*)': (.*)$`)
	unconvertRe   = regexp.MustCompile(`^expected type '([^']*)'`)
)

func decodeErrors(raw []string) error {
	errs := make(Errors, 0, len(raw))
	for _, r := range raw {
		if m := hookErrorRe.FindStringSubmatch(r); m != nil {
			errs = append(errs, FieldError{Field: m[1], Message: m[2]})
			continue
		}
		if m := quotedFieldRe.FindStringSubmatch(r); m != nil {
			msg := m[2]
			if t := unconvertRe.FindStringSubmatch(msg); t != nil {
				msg = "must be of type " + jsonTypeName(t[1])
			}
			errs = append(errs, FieldError{Field: m[1], Message: msg})
			continue
		}
		errs = append(errs, FieldError{Message: r})
	}
	return errs.orNil()
}

func jsonTypeName(goType string) string {
	switch {
	case goType == "string":
		return "string"
	case goType == "bool":
		return "boolean"
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "uint"):
		return "integer"
	case strings.HasPrefix(goType, "float"):
		return "number"
	case strings.HasPrefix(goType, "[]"):
		return "array"
	case strings.HasPrefix(goType, "map"), strings.Contains(goType, "."):
		return "object"
	}
	return goType
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "min", "gte":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", param)
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("must contain at least %s items", param)
		}
		return "must be at least " + param
	case "max", "lte":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", param)
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("must contain at most %s items", param)
		}
		return "must be at most " + param
	case "gt":
		return "must be greater than " + param
	case "datetime":
		if param == "2006-01-02" {
			return "must be a date in YYYY-MM-DD format"
		}
		return "must match the time format " + param
	case "scalar":
		return "must be a string or a number"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed the %q rule", fe.Tag())
}
