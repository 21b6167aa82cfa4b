package ingest

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNetwork      = errors.New("network error")
	ErrTimeout      = errors.New("timeout")
	ErrFetchFailed  = errors.New("fetch failed")
	ErrEmptyContent = errors.New("empty content")
)

// Error is the typed failure returned by PageIngestor.
type Error struct {
	Kind   error
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: HTTP %d %s", msg, e.Status, http.StatusText(e.Status))
	}
	if e.URL != "" {
		msg = fmt.Sprintf("ingest %s: %s", e.URL, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Retryable reports whether the caller may try the same ingestion again.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrNetwork, ErrTimeout:
		return true
	case ErrFetchFailed:
		return e.Status >= 500 && e.Status <= 599
	default:
		return false
	}
}

// IsRetryable reports whether err is an ingest error worth retrying.
func IsRetryable(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Retryable()
}

// StatusCode extracts the HTTP status carried by a FetchFailed error.
func StatusCode(err error) (int, bool) {
	var ie *Error
	if errors.As(err, &ie) && ie.Status != 0 {
		return ie.Status, true
	}
	return 0, false
}

// KindName returns a stable label for err, or "" for non-ingest errors.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	default:
		return "unknown"
	}
}
