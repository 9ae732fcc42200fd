package recognize

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a backend failure for the orchestrator's fallback
// decision. Every error returned by a Backend carries exactly one kind.
type ErrorKind string

const (
	ErrAuthMissing       ErrorKind = "auth_missing"
	ErrQuotaExceeded     ErrorKind = "quota_exceeded"
	ErrNetwork           ErrorKind = "network_error"
	ErrMalformedResponse ErrorKind = "malformed_response"
	ErrTimeout           ErrorKind = "timeout"
)

// BackendError wraps a recognition engine failure with its origin and kind.
type BackendError struct {
	Backend BackendKind
	Kind    ErrorKind
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error in %s (%s): %v", e.Backend, e.Op, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError builds a classified backend error.
func NewBackendError(backend BackendKind, kind ErrorKind, op string, err error) *BackendError {
	return &BackendError{Backend: backend, Kind: kind, Op: op, Err: err}
}

// KindOf extracts the error kind from any backend error chain. Unclassified
// errors report as network errors, the most common failure mode in practice.
func KindOf(err error) ErrorKind {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrNetwork
}
