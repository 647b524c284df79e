// FILE: argopt/errors.go
package argopt

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRegistration is returned for an empty or structurally invalid alias spec.
	ErrMalformedRegistration = errors.New("malformed option registration")
	// ErrUnknownOption is reported when a name matches no registered alias.
	ErrUnknownOption = errors.New("unknown option")
	// ErrCoercion is the sentinel every *CoercionError unwraps to.
	ErrCoercion = errors.New("option parse failure")
	// ErrConfigNotFound is returned by LoadFile when the file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrFileParse wraps syntax errors from configuration files.
	ErrFileParse = errors.New("failed to parse configuration file")
)

// MaxValueSize bounds values taken from the environment.
const MaxValueSize = 1024 * 1024

// CoercionError reports text that does not satisfy an option's value grammar.
type CoercionError struct {
	Option string // alias spec of the failing option
	Text   string // offending text
	Err    error  // underlying cause, may be nil
}

func (e *CoercionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("option `%s': cannot parse %q: %v", e.Option, e.Text, e.Err)
	}
	return fmt.Sprintf("option `%s': cannot parse %q", e.Option, e.Text)
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCoercion}
	}
	return []error{ErrCoercion, e.Err}
}

// unknownOptionError carries the attempted value alongside ErrUnknownOption.
type unknownOptionError struct {
	name  string
	value string
}

func (e *unknownOptionError) Error() string {
	return fmt.Sprintf("Unknown option `%s' (value:`%s')", e.name, e.value)
}

func (e *unknownOptionError) Unwrap() error {
	return ErrUnknownOption
}
