package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/PabloGalante/farum-counselor/internal/domain"
)

// wrapTransportError tags a failed call as a timeout or an unavailable backend.
func wrapTransportError(backend string, err error) error {
	if isTimeout(err) {
		return &domain.BackendError{Backend: backend, Err: fmt.Errorf("%w: %w", domain.ErrBackendTimeout, err)}
	}
	return &domain.BackendError{Backend: backend, Err: fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)}
}

// statusError tags a non-success answer from the backend.
func statusError(backend string, status int, body string) error {
	return &domain.BackendError{
		Backend: backend,
		Status:  status,
		Err:     fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, body),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
