// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulator{}, err
	}

	if err := validateOptions(opts); err != nil {
		return opts, options.Emulator{}, err
	}

	opts.Input = args[0]

	emuOptions, err := createEmulatorOptions(opts)
	if err != nil {
		return opts, options.Emulator{}, err
	}

	return opts, emuOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions checks option combinations
func validateOptions(opts options.Program) error {
	if opts.IPF > 0 {
		if opts.IPS != 0 {
			return fmt.Errorf("-ipf and -ips are mutually exclusive")
		}
		if opts.FPS == 0 {
			return fmt.Errorf("-ipf requires a frame rate limit set with -fps")
		}
	}
	if opts.FPS < 0 || opts.IPS < 0 || opts.IPF < 0 {
		return fmt.Errorf("rate limits can not be negative")
	}
	return nil
}

// createEmulatorOptions creates emulator options based on program options
func createEmulatorOptions(opts options.Program) (options.Emulator, error) {
	emuOptions := options.NewEmulator()
	emuOptions.SkipFrames = !opts.NoSkip
	emuOptions.FPSLimit = opts.FPS
	emuOptions.IPSLimit = opts.IPS
	emuOptions.InstructionsPerFrame = opts.IPF
	emuOptions.Debug = opts.Debug

	if opts.Palette != "" {
		colors, count, err := options.ParsePalette(opts.Palette)
		if err != nil {
			return emuOptions, err
		}
		if count == 2 {
			colors[2] = chip8.DefaultPalette[2]
			colors[3] = chip8.DefaultPalette[3]
		}
		emuOptions.Colors = colors
		emuOptions.HasPalette = true
	}

	return emuOptions, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.IntVar(&opts.Debug, "debug", 0, "debug log level, 1 logs execution rates, 2 traces every instruction")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Mute, "mute", false, "disable audio output")
	flags.BoolVar(&opts.NoSkip, "noskip", false, "deliver every frame to the window instead of dropping unconsumed ones")
	flags.Float64Var(&opts.FPS, "fps", 0, "limit the frame rate, 0 means unlimited")
	flags.Float64Var(&opts.IPS, "ips", 0, "limit the instruction rate, 0 means unlimited")
	flags.IntVar(&opts.IPF, "ipf", 0, "execute a fixed number of instructions per frame, requires -fps")
	flags.StringVar(&opts.Palette, "palette", "", "comma separated display colors as hex values, 2 or 4 entries")
}
