package api

import (
	"errors"
	"net/http"

	service "github.com/okian/playerscore/internal/app"
	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/domain/filter"
)

// Sentinel kinds for API errors.
var (
	ErrServe      = errors.New("serve failed")
	ErrBadRequest = errors.New("bad request")
	ErrBadRange   = errors.New("range minimum exceeds maximum")
)

// Error records the handler operation that failed along with the error kind.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind annotates err with op and kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// classify maps an error to an HTTP status and a stable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, filter.ErrConfiguration):
		return http.StatusBadRequest, "configuration_error"
	case errors.Is(err, workbook.ErrUnknownFormat):
		return http.StatusBadRequest, "unknown_format"
	case errors.Is(err, service.ErrNotLoaded):
		return http.StatusServiceUnavailable, "not_loaded"
	}
	return http.StatusInternalServerError, "internal_error"
}
