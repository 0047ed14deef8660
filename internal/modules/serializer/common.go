package serializer

import (
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// OK
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// List wraps a collection and reports its size in count.
func List[T any](items []T) Response {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return Response{Success: true, Data: items, Count: &n}
}

// Message
func Message(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Err
func Err(msg string, details string) Response {
	return Response{Error: msg, Details: details}
}

// ValidationErr reports every failing field in details.
func ValidationErr(errs validation.Errors) Response {
	return Err("Validation failed", errs.Error())
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "invalid request"
	}
	details := ""
	if err != nil {
		details = err.Error()
	}
	return Err(msg, details)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "Unauthorized"
	}
	return Err(msg, "")
}

// ForbiddenErr
func ForbiddenErr(msg string) Response {
	if msg == "" {
		msg = "Forbidden"
	}
	return Err(msg, "")
}

// NotFoundErr
func NotFoundErr(what string) Response {
	if what == "" {
		what = "Resource"
	}
	return Err(what+" not found", "")
}

// DBErr is the generic body for server-side failures. Callers record the
// cause on the request (c.Error) so it is logged but never sent.
func DBErr(msg string) Response {
	if msg == "" {
		msg = "Internal server error"
	}
	return Err(msg, "")
}
