// Package main implements the main entry point for a CHIP-8, SUPER-CHIP and
// XO-CHIP emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/gui"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, emuOptions, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts, emuOptions); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner(logger *log.Logger, opts options.Program) {
	if !opts.Quiet {
		fmt.Println("[---------------------------------------------]")
		fmt.Println("[ retrochip8 - CHIP-8 / XO-CHIP emulator      ]")
		fmt.Printf("[---------------------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
		logger.Info("Running ROM", log.String("file", opts.Input))
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program,
	emuOptions options.Emulator) error {

	rom, err := loader.Load(opts.Input)
	if err != nil {
		return err
	}

	var player chip8.PatternPlayer
	if opts.Mute {
		player = audio.Nop{}
	} else {
		synth, err := audio.NewSynth()
		if err != nil {
			return fmt.Errorf("initializing audio: %w", err)
		}
		defer func() {
			_ = synth.Close()
		}()
		player = synth
	}

	cpu := chip8.New(chip8.Config{Player: player})
	if err := cpu.LoadROM(rom); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	if emuOptions.HasPalette {
		cpu.Display().SetPalette(emuOptions.Colors)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	emu := emulator.New(logger, cpu, emuOptions)
	emu.Start(ctx)

	if err := gui.Run(ctx, cancel, logger, emu, emuOptions); err != nil {
		return err
	}

	cancel()
	return emu.Wait()
}
