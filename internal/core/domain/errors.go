package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// Typed errors below unwrap to one of these so callers can use errors.Is.
var (
	// ErrConfiguration indicates a required credential or setting is missing.
	// No network call is attempted when this is returned.
	ErrConfiguration = errors.New("configuration error")

	// ErrFetch indicates a single source could not be retrieved or parsed.
	ErrFetch = errors.New("fetch failed")

	// ErrUpstream indicates a remote service returned an error status
	// or could not be reached.
	ErrUpstream = errors.New("upstream error")

	// ErrNotFound indicates the corpus store file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorruptStore indicates the corpus store exists but violates its schema.
	ErrCorruptStore = errors.New("corrupt store")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContentTooShort indicates a normalised document fell below the
	// minimum content threshold and was skipped.
	ErrContentTooShort = errors.New("content too short")

	// ErrUnsupportedType indicates no normaliser handles a MIME type.
	ErrUnsupportedType = errors.New("unsupported type")
)

// FetchError wraps a failure to retrieve one source.
type FetchError struct {
	// Source is the URL or path that failed.
	Source string

	// Err is the underlying cause.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// UpstreamError describes a non-success response from a remote service.
type UpstreamError struct {
	// Service names the remote endpoint (e.g. "openai", "ollama", a URL).
	Service string

	// StatusCode is the HTTP status, or 0 when the request never completed.
	StatusCode int

	// Body is a truncated copy of the response body.
	Body string

	// Err is the transport error when StatusCode is 0.
	Err error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: request failed: %v", e.Service, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Unwrap returns the transport error, if any.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrUpstream.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// CorruptStoreError describes a store file that failed schema validation.
type CorruptStoreError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CorruptStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt store %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt store %s: %s", e.Path, e.Reason)
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCorruptStore.
func (e *CorruptStoreError) Is(target error) bool {
	return target == ErrCorruptStore
}
