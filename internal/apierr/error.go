package apierr

import (
	"errors"
	"fmt"
	"time"
)

// Error is the classified failure value surfaced to callers. It is created
// once where a raw failure is first observed and never mutated afterwards.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int    // HTTP status when the failure carried one, 0 otherwise
	Details    string // response body excerpt or transport detail
	Timestamp  time.Time
	Retryable  bool
	RequestID  string
	URL        string
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the raw failure this error was classified from.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a classified error of the given kind. Retryability is derived
// from the kind.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
		Retryable: kind.Retryable(),
	}
}

// Wrap creates a classified error of the given kind around a raw failure.
func Wrap(kind Kind, message string, cause error) *Error {
	e := New(kind, message)
	e.cause = cause
	return e
}

// WithRequest returns a copy of the error annotated with the request ID and
// URL it belongs to. The original value is left untouched.
func (e *Error) WithRequest(requestID, url string) *Error {
	clone := *e
	clone.RequestID = requestID
	clone.URL = url
	return &clone
}

// From extracts a classified error from err's chain, if present.
func From(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsKind reports whether err carries a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	if ce, ok := From(err); ok {
		return ce.Kind == kind
	}
	return false
}

// StatusError carries a non-2xx HTTP response observed at the transport
// boundary, before classification.
type StatusError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d for %s: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// maxBodyExcerpt bounds how much of a response body is carried inside an
// error value.
const maxBodyExcerpt = 512

// FromResponse builds a StatusError from a non-2xx response, truncating the
// body to a loggable excerpt.
func FromResponse(statusCode int, body []byte, url string) *StatusError {
	excerpt := body
	if len(excerpt) > maxBodyExcerpt {
		excerpt = excerpt[:maxBodyExcerpt]
	}
	return &StatusError{
		StatusCode: statusCode,
		Body:       string(excerpt),
		URL:        url,
	}
}
