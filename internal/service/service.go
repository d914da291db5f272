// Package service runs the page enhancement pipeline: extract markers, clear the
// container, then fetch-filter-render one independent chain per marker.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/maxviazov/recent-repos/internal/model"
	"github.com/maxviazov/recent-repos/internal/render"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidCutoff fails a chain whose marker carries an unparseable cutoff date.
// No request is issued for such a marker.
var ErrInvalidCutoff = errors.New("invalid cutoff date")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// Page is the document side of one run: a marker source plus the render container.
type Page interface {
	Markers(log zerolog.Logger) []model.Marker
	RenderContainer() (render.Container, error)
}

// PageService defines the enhancement use cases.
type PageService interface {
	// Run executes the pipeline over an already parsed page and waits for every chain.
	Run(ctx context.Context, p Page) (Report, error)
	// Enhance parses HTML from r, runs the pipeline and writes the enhanced document to w.
	Enhance(ctx context.Context, r io.Reader, w io.Writer) (Report, error)
}
