package cli

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArgument marks a required positional argument that was not given.
	ErrMissingArgument = errors.New("missing argument")
	// ErrUnknownAction is returned for any action verb Run does not handle.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidItem marks an item name the file format cannot store.
	ErrInvalidItem = errors.New("invalid item")
)

// ArgError names the positional argument that was not supplied.
type ArgError struct {
	Name string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingArgument, e.Name)
}

func (e *ArgError) Is(target error) bool { return target == ErrMissingArgument }
