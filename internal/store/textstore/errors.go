package textstore

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks failures opening, reading or writing the backing file.
	ErrIO = errors.New("store io")
	// ErrParse marks a persisted line that is not `name<TAB>true|false`.
	ErrParse = errors.New("store parse")
	// ErrSealed is returned by any call on a Store after Save.
	ErrSealed = errors.New("store already saved")
)

// IOError wraps a filesystem failure with the operation and path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// ParseError reports the first malformed line. Line is 1-based.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }
