// FILE: argopt/option.go
package argopt

import "errors"

// Kind tags the value type an option coerces into.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindFunc
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindFunc:
		return "func"
	case KindVar:
		return "var"
	default:
		return "unknown"
	}
}

// Form selects which alias table a lookup consults.
type Form int

const (
	// FormLong matches names case-insensitively
	FormLong Form = iota
	// FormShort matches names exactly
	FormShort
)

// Handler is the per-type behavior behind an option.
// Handlers hold a pointer to caller-owned storage and never allocate it.
type Handler interface {
	Kind() Kind
	// Parse coerces text into the bound storage. Failures are *CoercionError values.
	Parse(text string) error
	// ApplyDefault overwrites the bound storage with the default captured at construction.
	ApplyDefault()
	// Value renders the current storage.
	Value() string
	// Default renders the captured default.
	Default() string
	// Get returns the current typed value, nil when the handler has no storage.
	Get() any
}

// Option is one registration: an alias spec bound to a handler.
type Option struct {
	Spec        string
	Long        []string // original spelling; lookup keys are lower-cased
	Short       []string
	Description string

	handler Handler
}

// Kind reports the value type of the option.
func (o *Option) Kind() Kind {
	return o.handler.Kind()
}

// Handler returns the handler bound at registration.
func (o *Option) Handler() Handler {
	return o.handler
}

// Name returns the first long alias, or the first short one when no long alias exists.
func (o *Option) Name() string {
	if len(o.Long) > 0 {
		return o.Long[0]
	}
	if len(o.Short) > 0 {
		return o.Short[0]
	}
	return o.Spec
}

// parse runs the handler and attributes bare failures to this option.
func (o *Option) parse(text string) error {
	err := o.handler.Parse(text)
	if err == nil {
		return nil
	}
	var ce *CoercionError
	if errors.As(err, &ce) {
		if ce.Option == "" {
			ce.Option = o.Spec
		}
		return err
	}
	return &CoercionError{Option: o.Spec, Text: text, Err: err}
}
