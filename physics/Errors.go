package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownHandle is returned when a handle does not name a body
	// in the current world
	ErrUnknownHandle = errors.New("unknown body handle")

	// ErrClosed is returned by engines used after Close
	ErrClosed = errors.New("engine closed")

	// ErrInvalidShape is returned when a body cannot be created from
	// the given dimensions
	ErrInvalidShape = errors.New("invalid shape")
)

// ContactQueryError reports that the contact list of a body could not be
// read on this tick. It is the only engine error the environment
// recovers from: the tick is treated as contact-free.
type ContactQueryError struct {
	Body Handle
	Err  error
}

func (c *ContactQueryError) Error() string {
	return fmt.Sprintf("contact query for body %v: %v", c.Body, c.Err)
}

func (c *ContactQueryError) Unwrap() error {
	return c.Err
}

// IsContactQueryError reports whether err carries a *ContactQueryError
func IsContactQueryError(err error) bool {
	var cqe *ContactQueryError
	return errors.As(err, &cqe)
}
