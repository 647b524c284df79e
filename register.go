// FILE: argopt/register.go
package argopt

import (
	"fmt"
	"reflect"
	"strings"
)

// Options is the registry of options known to a parser.
// It holds pointers to caller-owned storage and must not outlive it.
// Options is not safe for concurrent use; run one scan at a time per registry.
type Options struct {
	list  []*Option
	long  map[string][]*Option // keys are lower-cased
	short map[string][]*Option
}

// New creates an empty registry.
func New() *Options {
	return &Options{
		long:  make(map[string][]*Option),
		short: make(map[string][]*Option),
	}
}

// Register binds h under every alias in spec.
// spec is comma separated; a segment with a leading '-' or of length 1 is a short alias,
// every other segment is a long alias. Several options may share an alias, in which case
// a value given for it is applied to each of them in registration order.
func (o *Options) Register(spec string, h Handler, desc string) (*Option, error) {
	if spec == "" {
		return nil, fmt.Errorf("%w: alias spec cannot be empty", ErrMalformedRegistration)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: nil handler for %q", ErrMalformedRegistration, spec)
	}

	opt := &Option{Spec: spec, Description: desc, handler: h}
	for _, segment := range strings.Split(spec, ",") {
		forceShort := false
		if strings.HasPrefix(segment, "-") {
			segment = segment[1:]
			forceShort = true
		}
		if segment == "" {
			return nil, fmt.Errorf("%w: empty alias in spec %q", ErrMalformedRegistration, spec)
		}
		if forceShort || len(segment) == 1 {
			opt.Short = append(opt.Short, segment)
		} else {
			opt.Long = append(opt.Long, segment)
		}
	}

	// Insert only after the whole spec validated
	for _, name := range opt.Short {
		o.short[name] = append(o.short[name], opt)
	}
	for _, name := range opt.Long {
		key := strings.ToLower(name)
		o.long[key] = append(o.long[key], opt)
	}
	o.list = append(o.list, opt)
	return opt, nil
}

// Lookup returns the options registered under name in the given table.
func (o *Options) Lookup(name string, form Form) ([]*Option, bool) {
	var group []*Option
	switch form {
	case FormLong:
		group = o.long[strings.ToLower(name)]
	case FormShort:
		group = o.short[name]
	}
	return group, len(group) > 0
}

// Options returns every registered option in registration order.
func (o *Options) Options() []*Option {
	out := make([]*Option, len(o.list))
	copy(out, o.list)
	return out
}

// ApplyDefaults resets every bound storage to its registered default.
// Scanning never does this on its own.
func (o *Options) ApplyDefaults() {
	for _, opt := range o.list {
		opt.handler.ApplyDefault()
	}
}

// Bool registers a boolean option. A bare flag sets it to true.
func (o *Options) Bool(spec string, p *bool, def bool, desc string) (*Option, error) {
	return o.Register(spec, BoolHandler(p, def), desc)
}

// Int registers an int option.
func (o *Options) Int(spec string, p *int, def int, desc string) (*Option, error) {
	return o.Register(spec, IntHandler(p, def), desc)
}

// Int64 registers an int64 option.
func (o *Options) Int64(spec string, p *int64, def int64, desc string) (*Option, error) {
	return o.Register(spec, Int64Handler(p, def), desc)
}

// Uint registers a uint option.
func (o *Options) Uint(spec string, p *uint, def uint, desc string) (*Option, error) {
	return o.Register(spec, UintHandler(p, def), desc)
}

// Float64 registers a float64 option.
func (o *Options) Float64(spec string, p *float64, def float64, desc string) (*Option, error) {
	return o.Register(spec, Float64Handler(p, def), desc)
}

// String registers a string option.
func (o *Options) String(spec string, p *string, def string, desc string) (*Option, error) {
	return o.Register(spec, StringHandler(p, def), desc)
}

// Func registers a callback option.
func (o *Options) Func(spec string, fn Func, desc string) (*Option, error) {
	return o.Register(spec, FuncHandler(fn), desc)
}

// Var registers an option of any type VarHandler can decode.
func Var[T any](o *Options, spec string, p *T, def T, desc string) (*Option, error) {
	return o.Register(spec, VarHandler(p, def), desc)
}

// Adder chains registrations. A malformed registration panics: it is a programming
// error that must surface at setup time.
type Adder struct {
	opts *Options
}

// Add starts a registration chain.
func (o *Options) Add() *Adder {
	return &Adder{opts: o}
}

// Handler registers h under spec.
func (a *Adder) Handler(spec string, h Handler, desc string) *Adder {
	if _, err := a.opts.Register(spec, h, desc); err != nil {
		panic(fmt.Sprintf("argopt: %v", err))
	}
	return a
}

func (a *Adder) Bool(spec string, p *bool, def bool, desc string) *Adder {
	return a.Handler(spec, BoolHandler(p, def), desc)
}

func (a *Adder) Int(spec string, p *int, def int, desc string) *Adder {
	return a.Handler(spec, IntHandler(p, def), desc)
}

func (a *Adder) Int64(spec string, p *int64, def int64, desc string) *Adder {
	return a.Handler(spec, Int64Handler(p, def), desc)
}

func (a *Adder) Uint(spec string, p *uint, def uint, desc string) *Adder {
	return a.Handler(spec, UintHandler(p, def), desc)
}

func (a *Adder) Float64(spec string, p *float64, def float64, desc string) *Adder {
	return a.Handler(spec, Float64Handler(p, def), desc)
}

func (a *Adder) String(spec string, p *string, def string, desc string) *Adder {
	return a.Handler(spec, StringHandler(p, def), desc)
}

func (a *Adder) Func(spec string, fn Func, desc string) *Adder {
	return a.Handler(spec, FuncHandler(fn), desc)
}

// RegisterStruct registers the fields of the struct target points to.
// Fields carry the alias spec in an `opt:"..."` tag and an optional `desc:"..."` tag.
// The current field value becomes the default. Untagged fields and `opt:"-"` are skipped;
// nested structs are walked recursively.
func (o *Options) RegisterStruct(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("%w: RegisterStruct requires a non-nil struct pointer, got %T", ErrMalformedRegistration, target)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: RegisterStruct requires a struct pointer, got %T", ErrMalformedRegistration, target)
	}

	var errors []string
	o.registerFields(v, "", &errors)

	if len(errors) > 0 {
		return fmt.Errorf("%w: failed to register %d field(s): %s", ErrMalformedRegistration, len(errors), strings.Join(errors, "; "))
	}
	return nil
}

// registerFields is a helper function that handles the recursive field registration.
func (o *Options) registerFields(v reflect.Value, fieldPath string, errors *[]string) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		spec, tagged := field.Tag.Lookup("opt")
		if spec == "-" {
			continue
		}

		if !tagged {
			if fieldValue.Kind() == reflect.Struct {
				o.registerFields(fieldValue, fieldPath+field.Name+".", errors)
			}
			continue
		}

		h := handlerFor(fieldValue)
		if _, err := o.Register(spec, h, field.Tag.Get("desc")); err != nil {
			*errors = append(*errors, fmt.Sprintf("field %s%s: %v", fieldPath, field.Name, err))
		}
	}
}

// handlerFor picks the handler for an addressable struct field.
func handlerFor(fv reflect.Value) Handler {
	switch p := fv.Addr().Interface().(type) {
	case *bool:
		return BoolHandler(p, *p)
	case *int:
		return IntHandler(p, *p)
	case *int64:
		return Int64Handler(p, *p)
	case *uint:
		return UintHandler(p, *p)
	case *float64:
		return Float64Handler(p, *p)
	case *string:
		return StringHandler(p, *p)
	}
	return newVarHandler(fv.Addr(), fv)
}
