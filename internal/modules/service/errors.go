package service

import (
	"errors"
	"fmt"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
)

// Service layer errors. Handlers map them onto status codes; anything else
// is an infrastructure failure.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("operation not permitted")
	ErrUnauthenticated = errors.New("authentication required")
)

// storeErr turns a missing document into ErrNotFound and passes every other
// error through.
func storeErr(err error, what string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
