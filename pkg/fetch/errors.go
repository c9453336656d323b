package fetch

import (
	"errors"
	"fmt"
)

// ErrFetchFailed matches every failure produced by Client.Fetch and by the
// Response extraction methods.
var ErrFetchFailed = errors.New("fetch: request failed")

// ErrDecodeFailed matches body extraction failures. Errors matching it also
// match ErrFetchFailed.
var ErrDecodeFailed = errors.New("fetch: decode failed")

// ErrRelativeURL is wrapped when a Request URL is not absolute.
var ErrRelativeURL = errors.New("fetch: url must be absolute")

// FetchError captures a failed request. StatusCode is zero when the request
// never completed, in which case Err holds the transport error.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch: %s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Status)
	}
	return fmt.Sprintf("fetch: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports ErrFetchFailed equivalence.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// DecodeError captures a body that could not be converted to the requested
// shape (text, data, bytes).
type DecodeError struct {
	Shape string
	URL   string
	Err   error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.URL == "" {
		return fmt.Sprintf("fetch: decode %s: %v", e.Shape, e.Err)
	}
	return fmt.Sprintf("fetch: decode %s from %s: %v", e.Shape, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports equivalence with both ErrDecodeFailed and ErrFetchFailed.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailed || target == ErrFetchFailed
}

// StatusCode extracts the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
		return fetchErr.StatusCode, true
	}
	return 0, false
}
