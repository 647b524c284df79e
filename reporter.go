// FILE: argopt/reporter.go
package argopt

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Where    string // context label, e.g. "command line" or a file path
	Message  string
	Err      error // set for error diagnostics
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Where, d.Severity, d.Message)
}

// Reporter accumulates diagnostics in insertion order. It never panics or aborts.
type Reporter struct {
	mu         sync.Mutex
	diags      []Diagnostic
	hasError   bool
	hasWarning bool
	logger     log.FieldLogger
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// WithLogger mirrors every diagnostic to logger as it is recorded.
func (r *Reporter) WithLogger(logger log.FieldLogger) *Reporter {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
	return r
}

// Report records err as an error diagnostic.
func (r *Reporter) Report(where string, err error) {
	if err == nil {
		return
	}
	r.add(Diagnostic{Severity: SeverityError, Where: where, Message: err.Error(), Err: err})
}

// Errorf records a formatted error diagnostic.
func (r *Reporter) Errorf(where, format string, args ...any) {
	err := fmt.Errorf(format, args...)
	r.add(Diagnostic{Severity: SeverityError, Where: where, Message: err.Error(), Err: err})
}

// Warnf records a formatted warning.
func (r *Reporter) Warnf(where, format string, args ...any) {
	r.add(Diagnostic{Severity: SeverityWarning, Where: where, Message: fmt.Sprintf(format, args...)})
}

func (r *Reporter) add(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.diags = append(r.diags, d)
	switch d.Severity {
	case SeverityError:
		r.hasError = true
	case SeverityWarning:
		r.hasWarning = true
	}

	if r.logger == nil {
		return
	}
	entry := r.logger.WithFields(log.Fields{"where": d.Where, "severity": d.Severity.String()})
	if d.Severity == SeverityWarning {
		entry.Warn(d.Message)
	} else {
		entry.Error(d.Message)
	}
}

// HasError reports whether any error diagnostic was recorded.
func (r *Reporter) HasError() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasError
}

// HasWarning reports whether any warning was recorded.
func (r *Reporter) HasWarning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasWarning
}

// Diagnostics returns a copy of the recorded diagnostics.
func (r *Reporter) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// Err joins the error diagnostics, or returns nil when there are none.
func (r *Reporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, d := range r.diags {
		if d.Severity == SeverityError {
			errs = append(errs, fmt.Errorf("%s: %w", d.Where, d.Err))
		}
	}
	return errors.Join(errs...)
}

// String renders one diagnostic per line.
func (r *Reporter) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	for _, d := range r.diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
