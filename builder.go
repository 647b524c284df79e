// File: argopt/builder.go
package argopt

import (
	"errors"
	"fmt"
	"os"
)

// ValidatorFunc checks the bound storage after every source has been applied.
type ValidatorFunc func(o *Options) error

// Builder runs the sources against a registry in a fixed order:
// defaults, configuration file, environment, command line. Later sources override earlier ones.
type Builder struct {
	opts          *Options
	reporter      *Reporter
	file          string
	envPrefix     string
	useEnv        bool
	args          []string
	applyDefaults bool
	strict        bool
	validators    []ValidatorFunc
	discovery     *FileDiscoveryOptions
}

// NewBuilder creates a builder over opts that reads os.Args[1:] and applies defaults.
func NewBuilder(opts *Options) *Builder {
	return &Builder{
		opts:          opts,
		reporter:      NewReporter(),
		args:          os.Args[1:],
		applyDefaults: true,
	}
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithFile sets a configuration file read before the environment and the command line.
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithEnvPrefix enables the environment source with the given variable prefix.
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	b.useEnv = true
	return b
}

// WithDefaults controls whether ApplyDefaults runs first.
func (b *Builder) WithDefaults(apply bool) *Builder {
	b.applyDefaults = apply
	return b
}

// WithStrict makes the command-line scan stop at the first problem.
func (b *Builder) WithStrict(strict bool) *Builder {
	b.strict = strict
	return b
}

// WithReporter collects diagnostics into r instead of a private reporter.
func (b *Builder) WithReporter(r *Reporter) *Builder {
	if r != nil {
		b.reporter = r
	}
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Reporter returns the reporter diagnostics are written to.
func (b *Builder) Reporter() *Reporter {
	return b.reporter
}

// Build applies every configured source and returns the positional arguments.
// A missing configuration file is reported as a warning. Other diagnostics are
// returned joined; the positionals are valid either way.
func (b *Builder) Build() ([]string, error) {
	if b.applyDefaults {
		b.opts.ApplyDefaults()
	}

	file := b.file
	if file == "" && b.discovery != nil {
		file = b.discoverFile()
	}
	if file != "" {
		if err := b.opts.LoadFile(file, b.reporter); err != nil {
			if !errors.Is(err, ErrConfigNotFound) {
				return nil, err
			}
			b.reporter.Warnf(file, "%v", err)
		}
	}

	if b.useEnv {
		b.opts.LoadEnv(b.envPrefix, b.reporter)
	}

	var positionals []string
	if b.strict {
		var err error
		positionals, err = b.opts.ScanArgvStrict(b.args)
		if err != nil {
			b.reporter.Report(WhereCommandLine, err)
			return positionals, err
		}
	} else {
		positionals = b.opts.ScanArgv(b.args, b.reporter)
	}

	if err := b.reporter.Err(); err != nil {
		return positionals, err
	}

	for _, validator := range b.validators {
		if err := validator(b.opts); err != nil {
			return positionals, fmt.Errorf("option validation failed: %w", err)
		}
	}

	return positionals, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() []string {
	positionals, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("argopt build failed: %v", err))
	}
	return positionals
}
