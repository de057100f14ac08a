package robot

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrInvalidCommand is returned when a token is not f, l or r.
	ErrInvalidCommand = errors.New("robot: invalid command")

	// ErrNotInitialized is returned when commands arrive before Initialize.
	ErrNotInitialized = errors.New("robot: not initialized")
)

// CommandError carries the token that failed to parse.
type CommandError struct {
	Command string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("robot: invalid command %q", e.Command)
}

// Unwrap lets errors.Is match ErrInvalidCommand.
func (e *CommandError) Unwrap() error {
	return ErrInvalidCommand
}
