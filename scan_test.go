// FILE: argopt/scan_test.go
package argopt

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encoderFields struct {
	input   string
	width   int
	height  int
	fps     int
	verbose bool
	qp      float64
}

func newEncoderOptions(t *testing.T) (*Options, *encoderFields) {
	t.Helper()
	f := &encoderFields{}
	opts := New()
	opts.Add().
		String("InputFile,i", &f.input, "", "input file").
		Int("SourceWidth,w", &f.width, 0, "width").
		Int("SourceHeight,h", &f.height, 0, "height").
		Int("FrameRate,-fr", &f.fps, 0, "frame rate").
		Bool("Verbose,v", &f.verbose, false, "verbose").
		Float64("QP,q", &f.qp, 32, "quantizer")
	opts.ApplyDefaults()
	return opts, f
}

func TestScanLongOptions(t *testing.T) {
	t.Run("CaseInsensitiveName", func(t *testing.T) {
		for _, name := range []string{"--SourceWidth", "--sourcewidth", "--SOURCEWIDTH"} {
			opts, f := newEncoderOptions(t)
			r := NewReporter()
			rest := opts.ScanArgv([]string{name, "10"}, r)

			assert.Empty(t, rest, name)
			assert.False(t, r.HasError(), name)
			assert.Equal(t, 10, f.width, name)
		}
	})

	t.Run("SeparateAndInlineValueAgree", func(t *testing.T) {
		optsA, a := newEncoderOptions(t)
		optsB, b := newEncoderOptions(t)

		restA := optsA.ScanArgv([]string{"--FrameRate", "30"}, NewReporter())
		restB := optsB.ScanArgv([]string{"--FrameRate=30"}, NewReporter())

		assert.Empty(t, restA)
		assert.Empty(t, restB)
		assert.Equal(t, 30, a.fps)
		assert.Equal(t, *a, *b)
	})

	t.Run("InlineValueKeepsLaterEquals", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		opts.ScanArgv([]string{"--InputFile=a=b.yuv"}, NewReporter())
		assert.Equal(t, "a=b.yuv", f.input)
	})

	t.Run("InlineEmptyValue", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		f.input = "preset"
		opts.ScanArgv([]string{"--InputFile="}, NewReporter())
		assert.Equal(t, "", f.input)
	})

	t.Run("LookaheadClassification", func(t *testing.T) {
		tests := []struct {
			name     string
			args     []string
			qp       float64
			verbose  bool
			rest     []string
			hasError bool
		}{
			{name: "PlainValue", args: []string{"--QP", "27"}, qp: 27, rest: []string{}},
			{name: "NegativeInteger", args: []string{"--QP", "-3"}, qp: -3, rest: []string{}},
			{name: "SignedFraction", args: []string{"--QP", "+2.5"}, qp: 2.5, rest: []string{}},
			{name: "TrailingDot", args: []string{"--QP", "-4."}, qp: -4, rest: []string{}},
			{name: "FlagLikeNotConsumed", args: []string{"--Verbose", "-x"}, qp: 32, verbose: true, rest: []string{}, hasError: true},
			{name: "LongNotConsumed", args: []string{"--Verbose", "--QP", "20"}, qp: 20, verbose: true, rest: []string{}},
			{name: "LoneDashConsumed", args: []string{"--InputFile", "-"}, qp: 32, rest: []string{}},
			{name: "LastToken", args: []string{"--Verbose"}, qp: 32, verbose: true, rest: []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				opts, f := newEncoderOptions(t)
				r := NewReporter()
				rest := opts.ScanArgv(tt.args, r)

				if diff := cmp.Diff(tt.rest, rest); diff != "" {
					t.Errorf("positionals mismatch (-want +got):\n%s", diff)
				}
				assert.Equal(t, tt.qp, f.qp)
				assert.Equal(t, tt.verbose, f.verbose)
				assert.Equal(t, tt.hasError, r.HasError())
			})
		}
	})

	t.Run("LoneDashBecomesInput", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		opts.ScanArgv([]string{"--InputFile", "-"}, NewReporter())
		assert.Equal(t, "-", f.input)
	})
}

func TestScanShortOptions(t *testing.T) {
	t.Run("WidthAndHeight", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"-w", "1920", "-h", "1080"}, r)

		assert.Empty(t, rest)
		assert.False(t, r.HasError())
		assert.Equal(t, 1920, f.width)
		assert.Equal(t, 1080, f.height)
	})

	t.Run("ForcedShortMultiChar", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"-fr", "60"}, r)

		assert.Empty(t, rest)
		assert.False(t, r.HasError())
		assert.Equal(t, 60, f.fps)
	})

	t.Run("ShortNamesAreCaseSensitive", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		opts.ScanArgv([]string{"-W", "1920"}, r)

		assert.Equal(t, 0, f.width)
		require.True(t, r.HasError())
		assert.ErrorIs(t, r.Diagnostics()[0].Err, ErrUnknownOption)
	})

	t.Run("ShortNotInLongTable", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		opts.ScanArgv([]string{"-SourceWidth", "5"}, r)

		assert.Equal(t, 0, f.width)
		assert.True(t, r.HasError())
	})

	t.Run("NegativeNumberValue", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		rest := opts.ScanArgv([]string{"-q", "-7"}, NewReporter())

		assert.Empty(t, rest)
		assert.Equal(t, float64(-7), f.qp)
	})

	t.Run("NextShortOptionIsNotValue", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"-v", "-w", "640"}, r)

		assert.Empty(t, rest)
		assert.False(t, r.HasError())
		assert.True(t, f.verbose)
		assert.Equal(t, 640, f.width)
	})

	t.Run("NextLongOptionIsNotValue", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"-v", "--SourceWidth", "640"}, r)

		assert.Empty(t, rest)
		assert.False(t, r.HasError())
		assert.True(t, f.verbose)
		assert.Equal(t, 640, f.width)
	})

	t.Run("LoneDashIsValue", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		rest := opts.ScanArgv([]string{"-i", "-"}, NewReporter())

		assert.Empty(t, rest)
		assert.Equal(t, "-", f.input)
	})

	t.Run("LastTokenIsBareFlag", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		rest := opts.ScanArgv([]string{"in.yuv", "-v"}, NewReporter())

		assert.Equal(t, []string{"in.yuv"}, rest)
		assert.True(t, f.verbose)
	})
}

// Classification is lexical: the option's type does not influence what is consumed.
func TestScanLexicalPrecedence(t *testing.T) {
	t.Run("NumericTokenSwallowedByBoolean", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"-v", "-3", "-w", "5"}, r)

		// "-3" is number shaped, so -v takes it and fails to coerce
		assert.Empty(t, rest)
		assert.False(t, f.verbose)
		assert.Equal(t, 5, f.width)
		require.Len(t, r.Diagnostics(), 1)
		var ce *CoercionError
		require.ErrorAs(t, r.Diagnostics()[0].Err, &ce)
		assert.Equal(t, "Verbose,v", ce.Option)
		assert.Equal(t, "-3", ce.Text)
	})

	t.Run("NumericTokenReachesNextOption", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"--Verbose", "--QP", "-3"}, r)

		assert.Empty(t, rest)
		assert.False(t, r.HasError())
		assert.True(t, f.verbose)
		assert.Equal(t, float64(-3), f.qp)
	})

	t.Run("WordSwallowedByBoolean", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"--Verbose", "in.yuv"}, r)

		assert.Empty(t, rest)
		assert.False(t, f.verbose)
		assert.True(t, r.HasError())
	})

	t.Run("FlagNeverSwallowedByString", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		f.input = "unchanged"
		rest := opts.ScanArgv([]string{"--InputFile", "-v"}, NewReporter())

		assert.Empty(t, rest)
		assert.Equal(t, "", f.input)
		assert.True(t, f.verbose)
	})
}

func TestScanPositionals(t *testing.T) {
	t.Run("Terminator", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"-w", "8", "a", "--", "-h", "--SourceWidth=1", "-", "b"}, r)

		want := []string{"a", "-h", "--SourceWidth=1", "-", "b"}
		if diff := cmp.Diff(want, rest); diff != "" {
			t.Errorf("positionals mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 8, f.width)
		assert.Equal(t, 0, f.height)
		assert.False(t, r.HasError())
	})

	t.Run("LoneDashAlwaysPositional", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"-", "-w", "4", "-", "x", "-"}, r)

		assert.Equal(t, []string{"-", "-", "x", "-"}, rest)
		assert.Equal(t, 4, f.width)
		assert.False(t, r.HasError())
	})

	t.Run("OrderPreserved", func(t *testing.T) {
		opts, _ := newEncoderOptions(t)
		rest := opts.ScanArgv([]string{"c", "-v", "--QP=1", "a", "", "b"}, NewReporter())
		assert.Equal(t, []string{"c", "a", "", "b"}, rest)
	})

	t.Run("EmptyArgs", func(t *testing.T) {
		opts, _ := newEncoderOptions(t)
		r := NewReporter()
		assert.Empty(t, opts.ScanArgv(nil, r))
		assert.Empty(t, r.Diagnostics())
	})
}

func TestScanDiagnostics(t *testing.T) {
	t.Run("UnknownLongOptionConsumesValue", func(t *testing.T) {
		opts := New()
		r := NewReporter()
		rest := opts.ScanArgv([]string{"--bogus", "5"}, r)

		// "5" qualifies as a value by shape, so it goes down with the unknown option
		assert.Empty(t, rest)
		assert.True(t, r.HasError())
		diags := r.Diagnostics()
		require.Len(t, diags, 1)
		assert.Equal(t, WhereCommandLine, diags[0].Where)
		assert.ErrorIs(t, diags[0].Err, ErrUnknownOption)
		assert.Contains(t, diags[0].Message, "bogus")
		assert.Contains(t, diags[0].Message, "5")
	})

	t.Run("UnknownLongFlagLeavesNextOption", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		opts.ScanArgv([]string{"--bogus", "-w", "3"}, r)

		assert.Equal(t, 3, f.width)
		require.Len(t, r.Diagnostics(), 1)
	})

	t.Run("ContinuesAfterErrors", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		r := NewReporter()
		rest := opts.ScanArgv([]string{"--SourceWidth", "wide", "--nope=1", "-h", "720", "out.bin"}, r)

		assert.Equal(t, []string{"out.bin"}, rest)
		assert.Equal(t, 720, f.height)
		assert.Equal(t, 0, f.width)

		diags := r.Diagnostics()
		require.Len(t, diags, 2)
		var ce *CoercionError
		require.ErrorAs(t, diags[0].Err, &ce)
		assert.Equal(t, "wide", ce.Text)
		assert.ErrorIs(t, diags[0].Err, strconv.ErrSyntax)
		assert.ErrorIs(t, diags[1].Err, ErrUnknownOption)
	})

	t.Run("EmptyNumericValue", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		f.width = 99
		r := NewReporter()
		opts.ScanArgv([]string{"--SourceWidth"}, r)

		assert.Equal(t, 99, f.width)
		require.True(t, r.HasError())
		assert.ErrorIs(t, r.Diagnostics()[0].Err, ErrCoercion)
	})

	t.Run("ParseReturnsDiagnostics", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		rest, diags := opts.Parse([]string{"-w", "12", "--x", "in"})

		assert.Equal(t, 12, f.width)
		assert.Empty(t, rest)
		require.Len(t, diags, 1)
		assert.Equal(t, SeverityError, diags[0].Severity)
	})
}

func TestScanDispatch(t *testing.T) {
	t.Run("SharedNameInvokesAllInOrder", func(t *testing.T) {
		var calls []string
		var level int
		opts := New()
		opts.Add().
			Func("preset,p", func(v string) error { calls = append(calls, "first:"+v); return nil }, "").
			Int("preset", &level, 0, "").
			Func("-p", func(v string) error { calls = append(calls, "second:"+v); return nil }, "")

		r := NewReporter()
		opts.ScanArgv([]string{"--PRESET", "3", "-p", "4"}, r)

		assert.False(t, r.HasError())
		assert.Equal(t, []string{"first:3", "first:4", "second:4"}, calls)
		assert.Equal(t, 3, level)
	})

	t.Run("CallbackErrorIsReported", func(t *testing.T) {
		boom := errors.New("boom")
		opts := New()
		opts.Add().Func("explode", func(string) error { return boom }, "")

		r := NewReporter()
		opts.ScanArgv([]string{"--explode"}, r)

		require.True(t, r.HasError())
		assert.ErrorIs(t, r.Diagnostics()[0].Err, boom)
		assert.ErrorIs(t, r.Diagnostics()[0].Err, ErrCoercion)
	})

	t.Run("RescanAccumulates", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		opts.ScanArgv([]string{"-w", "10"}, NewReporter())
		opts.ScanArgv([]string{"-h", "20"}, NewReporter())

		assert.Equal(t, 10, f.width)
		assert.Equal(t, 20, f.height)

		opts.ApplyDefaults()
		assert.Equal(t, 0, f.width)
		assert.Equal(t, 0, f.height)
	})
}

func TestScanArgvStrict(t *testing.T) {
	t.Run("StopsAtFirstProblem", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		rest, err := opts.ScanArgvStrict([]string{"a", "--bogus", "1", "-w", "5", "b"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownOption)
		assert.Equal(t, []string{"a"}, rest)
		assert.Equal(t, 0, f.width)
	})

	t.Run("CoercionFailure", func(t *testing.T) {
		opts, _ := newEncoderOptions(t)
		_, err := opts.ScanArgvStrict([]string{"-w", "x"})

		var ce *CoercionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "SourceWidth,w", ce.Option)
	})

	t.Run("Clean", func(t *testing.T) {
		opts, f := newEncoderOptions(t)
		rest, err := opts.ScanArgvStrict([]string{"-w", "5", "in.yuv"})

		require.NoError(t, err)
		assert.Equal(t, []string{"in.yuv"}, rest)
		assert.Equal(t, 5, f.width)
	})
}

func TestPeek(t *testing.T) {
	newConfigOptions := func() (*Options, *string) {
		var path string
		opts := New()
		opts.Add().
			String("config,c", &path, "default.toml", "").
			Bool("Verbose,v", new(bool), false, "")
		return opts, &path
	}

	t.Run("LastValueAcrossAliases", func(t *testing.T) {
		opts, path := newConfigOptions()
		value, ok := opts.Peek([]string{"in.yuv", "--CONFIG=a.toml", "-c", "b.toml"}, "config")

		require.True(t, ok)
		assert.Equal(t, "b.toml", value)
		assert.Equal(t, "", *path, "storage is not written")
	})

	t.Run("ResolvesShortName", func(t *testing.T) {
		opts, _ := newConfigOptions()
		value, ok := opts.Peek([]string{"--config", "a.toml"}, "c")
		require.True(t, ok)
		assert.Equal(t, "a.toml", value)
	})

	t.Run("UsesScanLookahead", func(t *testing.T) {
		opts, _ := newConfigOptions()
		value, ok := opts.Peek([]string{"-c", "-v"}, "config")
		require.True(t, ok)
		assert.Equal(t, "", value)
	})

	t.Run("IgnoresUnknownAndTerminated", func(t *testing.T) {
		opts, _ := newConfigOptions()
		_, ok := opts.Peek([]string{"--bogus", "x", "--", "-c", "late.toml"}, "config")
		assert.False(t, ok)

		_, ok = opts.Peek([]string{"-c", "a.toml"}, "missing")
		assert.False(t, ok)
	})
}
