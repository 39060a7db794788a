// Package emulator runs the CHIP-8 CPU on its own goroutine and exchanges
// keypad snapshots and rendered frames with a frontend over single slot
// channels.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Frame is a rendered display snapshot handed to the frontend.
type Frame struct {
	Pixels []uint32
	Width  int
	Height int
}

// Emulator drives the CPU loop and owns the handoff channels. The frontend
// sends keypad state with OfferKeys and receives frames by first waiting on
// FrameReady and then reading Frames.
type Emulator struct {
	logger *log.Logger
	cpu    *chip8.CPU
	opts   options.Emulator

	keys       chan [16]bool
	frameReady chan struct{}
	frames     chan Frame

	done chan struct{}
	err  error
}

// New returns an emulator for the given CPU.
func New(logger *log.Logger, cpu *chip8.CPU, opts options.Emulator) *Emulator {
	return &Emulator{
		logger:     logger,
		cpu:        cpu,
		opts:       opts,
		keys:       make(chan [16]bool, 1),
		frameReady: make(chan struct{}, 1),
		frames:     make(chan Frame, 1),
		done:       make(chan struct{}),
	}
}

// Start launches the CPU loop. It runs until the program halts, an execution
// error occurs or the context is canceled.
func (e *Emulator) Start(ctx context.Context) {
	go func() {
		e.err = e.run(ctx)
		close(e.done)
	}()
}

// Wait blocks until the CPU loop finished and returns its error.
func (e *Emulator) Wait() error {
	<-e.done
	return e.err
}

// Done returns a channel that is closed when the CPU loop finished.
func (e *Emulator) Done() <-chan struct{} {
	return e.done
}

// OfferKeys hands a keypad snapshot to the engine. The snapshot is dropped
// when the previous one has not been consumed yet, the frontend will deliver
// a fresh one on its next iteration.
func (e *Emulator) OfferKeys(keys [16]bool) {
	select {
	case e.keys <- keys:
	default:
	}
}

// FrameReady signals that a frame is about to be delivered on Frames.
func (e *Emulator) FrameReady() <-chan struct{} {
	return e.frameReady
}

// Frames delivers rendered frames after a FrameReady signal.
func (e *Emulator) Frames() <-chan Frame {
	return e.frames
}

func (e *Emulator) run(ctx context.Context) error {
	limiter := NewLimiter(e.opts.IPSLimit)
	frameLimiter := NewLimiter(e.opts.FPSLimit)
	ticker := NewLimiter(1.0)

	for ctx.Err() == nil {
		if e.opts.Debug >= 2 {
			e.traceInstruction()
		}

		executed, err := e.cpu.Step()
		if err != nil {
			if errors.Is(err, chip8.ErrHalted) {
				e.logger.Info("Program halted")
				return nil
			}
			return fmt.Errorf("executing instruction: %w", err)
		}

		// Emitting a frame after every instruction instead of only on display
		// changes reduces flicker: sampling at frame rate mostly observes
		// complete frames, while change driven updates often catch the
		// display in a half drawn state.
		display := e.cpu.Display()
		if e.opts.ReduceFlicker || display.Updated() {
			if !e.emitFrame(ctx, display) {
				return nil
			}
			display.ClearUpdated()
		}

		select {
		case keys := <-e.keys:
			e.cpu.SetKeys(keys)
		default:
		}

		switch {
		case !executed:
			// stuck on wait-for-keypress, yield without counting a tick
			time.Sleep(time.Millisecond)
		case e.opts.InstructionsPerFrame > 0:
			// the ips limit is unset in batch mode, Wait only counts the
			// tick for the rate measurement
			limiter.Wait()
			if e.cpu.Steps()%uint64(e.opts.InstructionsPerFrame) == 0 {
				frameLimiter.Wait()
			}
		default:
			limiter.Wait()
		}

		if e.opts.Debug >= 1 && ticker.TryTick() {
			e.logger.Info("Instructions per second",
				log.String("ips", fmt.Sprintf("%.0f", limiter.Rate())))
		}
	}
	return nil
}

// emitFrame delivers a frame to the frontend. With frame skipping enabled an
// unconsumed ready signal drops the frame, otherwise delivery blocks until
// the frontend catches up. It reports false when the context was canceled.
func (e *Emulator) emitFrame(ctx context.Context, display *chip8.Display) bool {
	if e.opts.SkipFrames {
		select {
		case e.frameReady <- struct{}{}:
		default:
			return true // frontend still busy, skip this frame
		}
	} else {
		select {
		case e.frameReady <- struct{}{}:
		case <-ctx.Done():
			return false
		}
	}

	frame := Frame{
		Pixels: display.Frame(),
		Width:  display.Width(),
		Height: display.Height(),
	}
	select {
	case e.frames <- frame:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *Emulator) traceInstruction() {
	opcode := e.cpu.NextOpcode()
	e.logger.Debug("Executing instruction",
		log.Hex("pc", e.cpu.PC()),
		log.Hex("opcode", opcode),
		log.String("name", chip8.InstructionName(opcode)))
}
