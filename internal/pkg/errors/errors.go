package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalid         = errors.New("invalid")
	ErrEmptyBody       = errors.New("empty body")
	ErrTooLarge        = errors.New("payload too large")
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrInvalidImage    = errors.New("invalid image format")
	ErrUpstream        = errors.New("upstream failure")
)

// Upstream marks err as a failure of an external collaborator. The cause is
// kept for logging; errors.Is(result, ErrUpstream) holds.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
