// Package apperrors defines the error-kind taxonomy shared by storage,
// indexing, rasterization, and the HTTP layer, so each layer can decide
// how to log, retry, or map an error without inspecting its message text.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error by what went wrong, independent of where it
// occurred.
type Kind int

const (
	// Unknown is the zero value; GetKind(err) reports !ok for errors that
	// never carry a Kind.
	Unknown Kind = iota
	// InvalidInput marks a request or argument that failed validation.
	InvalidInput
	// NotFound marks a lookup that found nothing.
	NotFound
	// StorageFailure marks a database or persistence-layer error.
	StorageFailure
	// RasterFailure marks a PDF text-extraction or rasterization error.
	RasterFailure
	// UpstreamFailure marks a failure from an external service (the LLM).
	UpstreamFailure
	// IndexingNonFatal marks a per-document indexing error that should not
	// stop the walk (the document is skipped, a warning is logged).
	IndexingNonFatal
	// IndexingFatal marks an indexing error serious enough to abort the run.
	IndexingFatal
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	case StorageFailure:
		return "storage_failure"
	case RasterFailure:
		return "raster_failure"
	case UpstreamFailure:
		return "upstream_failure"
	case IndexingNonFatal:
		return "indexing_nonfatal"
	case IndexingFatal:
		return "indexing_fatal"
	default:
		return "unknown"
	}
}

// kindError wraps an underlying error with a Kind. It is never exported
// directly; callers construct one with Wrap or New and inspect one with
// GetKind(err).
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.err)
}

func (e *kindError) Unwrap() error {
	return e.err
}

// New creates an error of the given kind from a message.
func New(kind Kind, msg string) error {
	return &kindError{kind: kind, err: errors.New(msg)}
}

// Wrap attaches kind to err, producing a new error whose message is
// "<kind>: op: err" (err is wrapped via %w so errors.Is/As continue to
// see through it). Wrap returns nil if err is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}

	return &kindError{kind: kind, err: fmt.Errorf("%s: %w", op, err)}
}

// GetKind walks err's Unwrap chain looking for the first attached Kind.
// It reports ok == false if no error in the chain carries one.
func GetKind(err error) (kind Kind, ok bool) {
	var ke *kindError

	if errors.As(err, &ke) {
		return ke.kind, true
	}

	return Unknown, false
}

// Is reports whether err carries kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := GetKind(err)
	return ok && k == kind
}
