// FILE: argopt/scan.go
package argopt

import (
	"regexp"
	"slices"
	"strings"
)

// WhereCommandLine labels diagnostics raised while scanning argv.
const WhereCommandLine = "command line"

// numericValue matches tokens that are taken as a long option's value even when they start with '-'.
var numericValue = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]*)?$`)

// dispatcher resolves (name, value) pairs against the registry.
// It is shared by argv scanning and the file and environment sources.
type dispatcher struct {
	opts   *Options
	r      *Reporter
	where  string
	strict bool
	err    error // first failure, kept for strict callers

	// observe, when set, receives each resolved pair instead of the handlers
	observe func(group []*Option, value string)
}

// stopped reports whether a strict dispatcher has already failed.
func (d *dispatcher) stopped() bool {
	return d.strict && d.err != nil
}

func (d *dispatcher) fail(err error) {
	if d.err == nil {
		d.err = err
	}
	if d.r != nil {
		d.r.Report(d.where, err)
	}
}

// storePair applies value to every option registered under name.
// Long names are looked up first when both forms are allowed.
func (d *dispatcher) storePair(allowLong, allowShort bool, name, value string) bool {
	var group []*Option
	found := false
	if allowLong {
		group, found = d.opts.Lookup(name, FormLong)
	}
	if allowShort && !found {
		group, found = d.opts.Lookup(name, FormShort)
	}

	if d.observe != nil {
		if found {
			d.observe(group, value)
		}
		return found
	}

	if !found {
		d.fail(&unknownOptionError{name: name, value: value})
		return false
	}

	// multiple options may share a name: each parses the value
	for _, opt := range group {
		if err := opt.parse(value); err != nil {
			d.fail(err)
			if d.stopped() {
				break
			}
		}
	}
	return true
}

// ScanArgv walks args once, applying options to their bound storage and reporting
// problems to r. It returns the arguments that were not consumed, in their original order.
// Scanning does not reset storage: call ApplyDefaults first when reusing a registry.
func (o *Options) ScanArgv(args []string, r *Reporter) []string {
	d := &dispatcher{opts: o, r: r, where: WhereCommandLine}
	return d.scan(args)
}

// ScanArgvStrict is ScanArgv that stops at the first unknown option or parse failure
// and returns it.
func (o *Options) ScanArgvStrict(args []string) ([]string, error) {
	d := &dispatcher{opts: o, where: WhereCommandLine, strict: true}
	positionals := d.scan(args)
	return positionals, d.err
}

// Parse scans args with a fresh reporter and returns the leftovers and diagnostics.
func (o *Options) Parse(args []string) ([]string, []Diagnostic) {
	r := NewReporter()
	positionals := o.ScanArgv(args, r)
	return positionals, r.Diagnostics()
}

// Peek returns the last value args give to the option registered under name, looking at
// long names first. Tokens are classified exactly as ScanArgv does, but no handler runs
// and nothing is reported.
func (o *Options) Peek(args []string, name string) (string, bool) {
	target, found := o.Lookup(name, FormLong)
	if !found {
		if target, found = o.Lookup(name, FormShort); !found {
			return "", false
		}
	}

	var value string
	seen := false
	d := &dispatcher{opts: o, observe: func(group []*Option, v string) {
		for _, opt := range group {
			if slices.Contains(target, opt) {
				value, seen = v, true
				return
			}
		}
	}}
	d.scan(args)
	return value, seen
}

func (d *dispatcher) scan(args []string) []string {
	positionals := []string{}

	for i := 0; i < len(args) && !d.stopped(); i++ {
		arg := args[i]

		switch {
		case !strings.HasPrefix(arg, "-"):
			positionals = append(positionals, arg)

		case arg == "-":
			// a lone dash is an argument, usually stdin
			positionals = append(positionals, arg)

		case arg == "--":
			// end of options: everything after is positional
			return append(positionals, args[i+1:]...)

		case !strings.HasPrefix(arg, "--"):
			i += d.parseShort(args[i:])

		default:
			i += d.parseLong(args[i:])
		}
	}

	return positionals
}

// parseLong handles --name=value, --name value and --name.
// It returns the number of tokens consumed beyond args[0].
func (d *dispatcher) parseLong(args []string) int {
	name, value, inline := strings.Cut(args[0][2:], "=")
	name = strings.ToLower(name)

	if inline {
		d.storePair(true, false, name, value)
		return 0
	}

	if len(args) > 1 && isLongValue(args[1]) {
		d.storePair(true, false, name, args[1])
		return 1
	}

	d.storePair(true, false, name, "")
	return 0
}

// isLongValue decides whether the token after a bare long option is its value.
func isLongValue(next string) bool {
	return !strings.HasPrefix(next, "-") || numericValue.MatchString(next) || next == "-"
}

// parseShort handles -name value and -name.
// It returns the number of tokens consumed beyond args[0].
func (d *dispatcher) parseShort(args []string) int {
	name := strings.TrimLeft(args[0], "-")

	if len(args) == 1 {
		d.storePair(false, true, name, "")
		return 0
	}

	next := args[1]
	if len(next) > 1 && next[0] == '-' {
		// "--x" is the next option; "-x" is too unless it looks like a negative number
		if next[1] == '-' || !isDigit(next[1]) {
			d.storePair(false, true, name, "")
			return 0
		}
	}

	d.storePair(false, true, name, next)
	return 1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
