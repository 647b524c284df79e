// FILE: argopt/handler.go
package argopt

import (
	"regexp"
	"strconv"
)

// quotedEmpty is how an empty string value is displayed.
const quotedEmpty = `""`

// decimalFloat is the float grammar: ParseFloat alone also takes inf, NaN and hex floats.
var decimalFloat = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

type boolHandler struct {
	p   *bool
	def bool
}

// BoolHandler binds p. Empty text sets it to true.
func BoolHandler(p *bool, def bool) Handler {
	return &boolHandler{p: p, def: def}
}

func (h *boolHandler) Kind() Kind { return KindBool }

func (h *boolHandler) Parse(text string) error {
	if text == "" {
		*h.p = true
		return nil
	}
	v, err := strconv.ParseBool(text)
	if err != nil {
		return &CoercionError{Text: text, Err: unwrapNum(err)}
	}
	*h.p = v
	return nil
}

func (h *boolHandler) ApplyDefault()   { *h.p = h.def }
func (h *boolHandler) Value() string   { return strconv.FormatBool(*h.p) }
func (h *boolHandler) Default() string { return strconv.FormatBool(h.def) }
func (h *boolHandler) Get() any        { return *h.p }

// number covers the numeric types with a strict strconv grammar.
type number interface {
	~int | ~int64 | ~uint | ~float64
}

type numberHandler[T number] struct {
	p      *T
	def    T
	kind   Kind
	parse  func(string) (T, error)
	format func(T) string
}

func (h *numberHandler[T]) Kind() Kind { return h.kind }

// Parse rejects empty text rather than leaving storage at a silent zero.
func (h *numberHandler[T]) Parse(text string) error {
	if text == "" {
		return &CoercionError{Text: text, Err: strconv.ErrSyntax}
	}
	v, err := h.parse(text)
	if err != nil {
		return &CoercionError{Text: text, Err: unwrapNum(err)}
	}
	*h.p = v
	return nil
}

func (h *numberHandler[T]) ApplyDefault()   { *h.p = h.def }
func (h *numberHandler[T]) Value() string   { return h.format(*h.p) }
func (h *numberHandler[T]) Default() string { return h.format(h.def) }
func (h *numberHandler[T]) Get() any        { return *h.p }

// IntHandler binds a platform int.
func IntHandler(p *int, def int) Handler {
	return &numberHandler[int]{
		p: p, def: def, kind: KindInt,
		parse: func(s string) (int, error) {
			v, err := strconv.ParseInt(s, 10, strconv.IntSize)
			return int(v), err
		},
		format: strconv.Itoa,
	}
}

// Int64Handler binds an int64.
func Int64Handler(p *int64, def int64) Handler {
	return &numberHandler[int64]{
		p: p, def: def, kind: KindInt,
		parse: func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		},
		format: func(v int64) string { return strconv.FormatInt(v, 10) },
	}
}

// UintHandler binds a platform uint. A leading sign is a parse failure.
func UintHandler(p *uint, def uint) Handler {
	return &numberHandler[uint]{
		p: p, def: def, kind: KindInt,
		parse: func(s string) (uint, error) {
			v, err := strconv.ParseUint(s, 10, strconv.IntSize)
			return uint(v), err
		},
		format: func(v uint) string { return strconv.FormatUint(uint64(v), 10) },
	}
}

// Float64Handler binds a float64. Only decimal notation with an optional exponent is accepted.
func Float64Handler(p *float64, def float64) Handler {
	return &numberHandler[float64]{
		p: p, def: def, kind: KindFloat,
		parse: func(s string) (float64, error) {
			if !decimalFloat.MatchString(s) {
				return 0, strconv.ErrSyntax
			}
			return strconv.ParseFloat(s, 64)
		},
		format: func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
	}
}

type stringHandler struct {
	p   *string
	def string
}

// StringHandler binds p; text is stored verbatim.
func StringHandler(p *string, def string) Handler {
	return &stringHandler{p: p, def: def}
}

func (h *stringHandler) Kind() Kind { return KindString }

func (h *stringHandler) Parse(text string) error {
	*h.p = text
	return nil
}

func (h *stringHandler) ApplyDefault()   { *h.p = h.def }
func (h *stringHandler) Value() string   { return quoteEmpty(*h.p) }
func (h *stringHandler) Default() string { return quoteEmpty(h.def) }
func (h *stringHandler) Get() any        { return *h.p }

func quoteEmpty(s string) string {
	if s == "" {
		return quotedEmpty
	}
	return s
}

// Func is invoked with the raw value text of a callback option.
type Func func(value string) error

type funcHandler struct {
	fn Func
}

// FuncHandler runs fn instead of writing storage. It has no default.
func FuncHandler(fn Func) Handler {
	return &funcHandler{fn: fn}
}

func (h *funcHandler) Kind() Kind { return KindFunc }

func (h *funcHandler) Parse(text string) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(text)
}

func (h *funcHandler) ApplyDefault()   {}
func (h *funcHandler) Value() string   { return "" }
func (h *funcHandler) Default() string { return "" }
func (h *funcHandler) Get() any        { return nil }

// unwrapNum drops the *strconv.NumError envelope, which repeats the input text.
func unwrapNum(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
