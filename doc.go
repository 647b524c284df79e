// File: argopt/doc.go

// Package argopt binds command-line options to caller-owned storage and scans argument
// vectors, leaving whatever is not an option or an option value as positional arguments.
//
// Features:
//   - GNU long options (--name, --name=value, --name value), matched case-insensitively
//   - Short options (-n, -n value), matched exactly, possibly multi-character
//   - Several aliases per option and several options per alias
//   - Typed handlers for bool, int, int64, uint, float64, string, callbacks, and any type
//     mapstructure can decode (durations, slices, net.IP, url.URL)
//   - Diagnostics accumulated in a Reporter instead of stopping at the first problem
//   - Configuration files (TOML, JSON, YAML, legacy cfg) and environment variables
//     applied through the same dispatch
//
// Quick Start:
//
//	var width, height int
//	var input string
//
//	opts := argopt.New()
//	opts.Add().
//	    String("InputFile,i", &input, "", "input file name or '-' for stdin").
//	    Int("SourceWidth,w", &width, 0, "source picture width").
//	    Int("SourceHeight,h", &height, 0, "source picture height")
//
//	opts.ApplyDefaults()
//	r := argopt.NewReporter()
//	rest := opts.ScanArgv(os.Args[1:], r)
//	if r.HasError() {
//	    log.Fatal(r.Err())
//	}
//
// Value lookahead is decided from the shape of the next token alone, before the option's
// type is considered: "--level -3" passes "-3" to level, "-v -x" treats -v as a bare flag.
//
// Options holds no locks. Scan one argument vector at a time per registry.
package argopt
