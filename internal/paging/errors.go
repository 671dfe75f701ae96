package paging

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyQuery is returned by StartSearch for blank query text
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNoSession is returned by Navigate before any search succeeded
	ErrNoSession = errors.New("no active search session")
)

// TransportError reports that the remote source could not be reached or
// answered with a non-success status.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a payload that could not be turned into records
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// FetchError wraps a failed page fetch with what is needed to retry it
type FetchError struct {
	Query  string
	Page   int
	Offset int
	Limit  int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d of %q: %v", e.Page, e.Query, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retry returns the intent that repeats the failed navigation
func (e *FetchError) Retry() Intent { return JumpTo(e.Page) }

// IsTransport reports whether err stems from a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsMalformed reports whether err stems from a MalformedResponseError
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}

func failureReason(err error) string {
	switch {
	case IsTransport(err):
		return "transport"
	case IsMalformed(err):
		return "malformed"
	default:
		return "other"
	}
}
