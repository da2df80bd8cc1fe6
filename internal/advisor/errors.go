package advisor

import "errors"

type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrNoEndpoint is returned when no service endpoint is configured.
	ErrNoEndpoint = constError("advisor endpoint not configured")

	// ErrUnexpectedStatus wraps a non-2xx response.
	ErrUnexpectedStatus = constError("unexpected status from suggestion service")

	// ErrServiceRejected is returned when the service answers success=false.
	ErrServiceRejected = constError("suggestion service rejected request")
)

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }

func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}
