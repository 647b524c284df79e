// FILE: argopt/cmd/main.go
// Demo encoder front end wiring its options through argopt.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"argopt"
)

// EncoderConfig mirrors the settings an encoder application reads from its command line.
type EncoderConfig struct {
	InputFile     string `opt:"InputFile,i" desc:"original YUV input file name or '-' for reading from stdin"`
	BitstreamFile string `opt:"BitstreamFile,b" desc:"Bitstream output file name"`
	ReconFile     string `opt:"ReconFile,o" desc:"Reconstructed YUV output file name"`

	SourceWidth  int `opt:"SourceWidth,w" desc:"Source picture width"`
	SourceHeight int `opt:"SourceHeight,h" desc:"Source picture height"`
	FrameRate    int `opt:"FrameRate,-fr" desc:"Temporal rate (framerate numerator) e.g. 25,30, 30000, 50,60, 60000"`

	Verbose bool          `opt:"Verbose,v" desc:"Print progress information"`
	Timeout time.Duration `opt:"Timeout" desc:"Abort encoding after this duration (0 disables)"`
}

func main() {
	cfg := &EncoderConfig{FrameRate: 30}

	opts := argopt.New()
	if err := opts.RegisterStruct(cfg); err != nil {
		log.Fatalf("failed to register options: %v", err)
	}

	r := argopt.NewReporter().WithLogger(log.StandardLogger())

	showHelp := false
	var configFile string
	opts.Add().
		Func("help", func(string) error {
			showHelp = true
			return nil
		}, "Print the option list and exit").
		String("c", &configFile, "", "Read options from a configuration file")

	// -c is read before the file is loaded; the command line still overrides the file
	discovery := argopt.DefaultDiscoveryOptions("encoder")
	discovery.Option = "c"

	rest, err := argopt.NewBuilder(opts).
		WithArgs(os.Args[1:]).
		WithFileDiscovery(discovery).
		WithEnvPrefix("ENC_").
		WithReporter(r).
		WithValidator(validate).
		Build()

	if showHelp {
		for _, opt := range opts.Options() {
			fmt.Printf("  %-24s %s (default: %s)\n", opt.Spec, opt.Description, argopt.RenderDefault(opt))
		}
		return
	}

	if err != nil {
		var ce *argopt.CoercionError
		if errors.As(err, &ce) {
			log.WithField("option", ce.Option).Error("invalid option value")
		}
		log.WithError(err).Fatal("failed to parse command line")
	}

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.WithFields(log.Fields{
		"input":  cfg.InputFile,
		"output": cfg.BitstreamFile,
		"width":  cfg.SourceWidth,
		"height": cfg.SourceHeight,
		"fps":    cfg.FrameRate,
		"config": configFile,
	}).Info("configuration loaded")

	if len(rest) > 0 {
		log.WithField("args", rest).Warn("ignoring positional arguments")
	}
	log.Debug(opts.Debug())
}

func validate(opts *argopt.Options) error {
	for _, name := range []string{"SourceWidth", "SourceHeight"} {
		group, _ := opts.Lookup(name, argopt.FormLong)
		for _, opt := range group {
			if v, ok := opt.Handler().Get().(int); ok && v < 0 {
				return fmt.Errorf("%s must not be negative, got %d", name, v)
			}
		}
	}
	return nil
}
