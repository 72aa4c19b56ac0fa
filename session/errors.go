package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an operation is not permitted
// from the current state. The state is left unchanged.
var ErrInvalidTransition = errors.New("invalid state transition")

func transitionErr(op string, from State) error {
	return fmt.Errorf("%s from %s: %w", op, from, ErrInvalidTransition)
}
