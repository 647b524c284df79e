// FILE: argopt/decode.go
package argopt

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

var timeType = reflect.TypeOf(time.Time{})

// varHandler decodes text into an arbitrary bound type through mapstructure.
type varHandler struct {
	target reflect.Value // pointer to caller storage
	def    reflect.Value // addressable copy of the default
}

// VarHandler binds p to any type the decode hooks understand: durations, RFC3339 times,
// comma separated slices, net.IP, net.IPNet, url.URL and the basic kinds.
func VarHandler[T any](p *T, def T) Handler {
	return newVarHandler(reflect.ValueOf(p), reflect.ValueOf(def))
}

func newVarHandler(target, def reflect.Value) *varHandler {
	d := reflect.New(target.Type().Elem()).Elem()
	if def.IsValid() {
		d.Set(cloneValue(def))
	}
	return &varHandler{target: target, def: d}
}

// cloneValue copies slice backing arrays so storage and the captured default never alias.
func cloneValue(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice || v.IsNil() {
		return v
	}
	c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(c, v)
	return c
}

func (h *varHandler) Kind() Kind { return KindVar }

// Parse decodes into a fresh value first so a failed decode leaves storage untouched.
// Empty text resets slices, maps and pointers to nil, the form renderValue prints them in.
func (h *varHandler) Parse(text string) error {
	fresh := reflect.New(h.target.Type().Elem())
	if text == "" && nilable(fresh.Elem().Kind()) {
		h.target.Elem().Set(fresh.Elem())
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           fresh.Interface(),
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	if err := decoder.Decode(text); err != nil {
		return &CoercionError{Text: text, Err: err}
	}
	h.target.Elem().Set(fresh.Elem())
	return nil
}

func (h *varHandler) ApplyDefault()   { h.target.Elem().Set(cloneValue(h.def)) }
func (h *varHandler) Value() string   { return renderValue(h.target.Elem()) }
func (h *varHandler) Default() string { return renderValue(h.def) }
func (h *varHandler) Get() any        { return h.target.Elem().Interface() }

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Slice, reflect.Map, reflect.Ptr, reflect.Interface:
		return true
	}
	return false
}

// renderValue formats a decoded value the way it would be typed on the command line,
// so that Parse accepts its output.
func renderValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if nilable(v.Kind()) && v.IsNil() {
		return ""
	}
	if v.Kind() == reflect.Ptr {
		return renderValue(v.Elem())
	}
	if v.Type() == timeType && v.CanInterface() {
		// decodeHook reads RFC3339; the fraction is kept so the value survives a reload
		return v.Interface().(time.Time).Format(time.RFC3339Nano)
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	if v.CanAddr() && v.Addr().CanInterface() {
		if s, ok := v.Addr().Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}

	switch v.Kind() {
	case reflect.String:
		return quoteEmpty(v.String())
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = renderValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v.Interface())
}
