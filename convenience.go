// File: argopt/convenience.go
package argopt

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// RenderValue renders the current storage of opt for help or usage output.
func RenderValue(opt *Option) string {
	return opt.handler.Value()
}

// RenderDefault renders the default captured when opt was registered.
func RenderDefault(opt *Option) string {
	return opt.handler.Default()
}

// Quick registers the tagged fields of target, applies defaults and scans args.
func Quick(target any, args []string) ([]string, error) {
	opts := New()
	if err := opts.RegisterStruct(target); err != nil {
		return nil, err
	}
	return NewBuilder(opts).WithArgs(args).Build()
}

// WriteTOML encodes the current value of every storing option under its primary name.
// Values of generic options are written as the text they would be parsed from.
func (o *Options) WriteTOML(w io.Writer) error {
	data := make(map[string]any)
	for _, opt := range o.list {
		switch opt.Kind() {
		case KindFunc:
			continue
		case KindVar:
			text := opt.handler.Value()
			if text == quotedEmpty {
				text = ""
			}
			data[opt.Name()] = text
		default:
			data[opt.Name()] = opt.handler.Get()
		}
	}

	if err := toml.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to marshal options to TOML: %w", err)
	}
	return nil
}

// Debug returns a formatted listing of every option with its current and default values.
func (o *Options) Debug() string {
	var b strings.Builder
	b.WriteString("Options:\n")
	for _, opt := range o.list {
		b.WriteString(fmt.Sprintf("  %s (%s):\n", opt.Spec, opt.Kind()))
		if opt.Kind() == KindFunc {
			continue
		}
		b.WriteString(fmt.Sprintf("    Current: %s\n", opt.handler.Value()))
		b.WriteString(fmt.Sprintf("    Default: %s\n", opt.handler.Default()))
	}
	return b.String()
}
