// Package gui renders emulator frames in a desktop window and feeds keypad
// state back to the engine.
package gui

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// windowScale is the initial window size in screen pixels per display pixel.
const windowScale = 8

// keypadKeys maps the emulated keypad keys 0x0 to 0xF to physical keys,
// laying the 4x4 keypad out on the left side of a QWERTY keyboard.
var keypadKeys = [16]ebiten.Key{
	ebiten.KeyX, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyA,
	ebiten.KeyS, ebiten.KeyD, ebiten.KeyZ, ebiten.KeyC,
	ebiten.KeyDigit4, ebiten.KeyR, ebiten.KeyF, ebiten.KeyV,
}

// Window is the ebiten frontend. Update runs at the display tick rate,
// offering keypad snapshots to the engine and pulling the latest frame.
type Window struct {
	logger *log.Logger
	emu    *emulator.Emulator
	ctx    context.Context
	cancel context.CancelFunc

	image  *ebiten.Image
	pixels []byte
	width  int
	height int

	ticker *emulator.Limiter
	debug  int
}

// compile time interface check
var _ ebiten.Game = &Window{}

// Run opens the window and blocks until it is closed, the context is
// canceled or the engine stopped. It must be called on the main goroutine.
func Run(ctx context.Context, cancel context.CancelFunc, logger *log.Logger,
	emu *emulator.Emulator, opts options.Emulator) error {

	w := &Window{
		logger: logger,
		emu:    emu,
		ctx:    ctx,
		cancel: cancel,
		ticker: emulator.NewLimiter(1.0),
		debug:  opts.Debug,
	}
	w.resize(chip8.Width, chip8.Height)

	ebiten.SetWindowTitle("retrochip8")
	ebiten.SetWindowSize(chip8.Width*windowScale, chip8.Height*windowScale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.FPSLimit > 0 {
		ebiten.SetTPS(int(opts.FPSLimit))
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	defer cancel()
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Update offers the keypad state to the engine and pulls the next frame when
// one is announced. It returns ebiten.Termination to close the window.
func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || w.ctx.Err() != nil {
		w.cancel()
		return ebiten.Termination
	}

	select {
	case <-w.emu.Done():
		return ebiten.Termination
	default:
	}

	var keys [16]bool
	for i, key := range keypadKeys {
		keys[i] = ebiten.IsKeyPressed(key)
	}
	w.emu.OfferKeys(keys)

	select {
	case <-w.emu.FrameReady():
		select {
		case frame := <-w.emu.Frames():
			w.applyFrame(frame)
		case <-w.ctx.Done():
			return ebiten.Termination
		case <-w.emu.Done():
			return ebiten.Termination
		}
	default:
	}

	if w.debug >= 1 && w.ticker.TryTick() {
		w.logger.Info("Frames per second",
			log.String("fps", fmt.Sprintf("%.0f", ebiten.ActualTPS())))
	}
	return nil
}

// Draw copies the current frame image to the screen.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.DrawImage(w.image, nil)
}

// Layout reports the logical screen size, ebiten scales it to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}

// applyFrame uploads the frame pixels, reallocating the image when the
// display switched resolution mid stream.
func (w *Window) applyFrame(frame emulator.Frame) {
	if frame.Width != w.width || frame.Height != w.height {
		w.resize(frame.Width, frame.Height)
	}

	for i, color := range frame.Pixels {
		w.pixels[i*4] = byte(color >> 16)
		w.pixels[i*4+1] = byte(color >> 8)
		w.pixels[i*4+2] = byte(color)
		w.pixels[i*4+3] = 0xFF
	}
	w.image.WritePixels(w.pixels)
}

func (w *Window) resize(width, height int) {
	w.width = width
	w.height = height
	w.image = ebiten.NewImage(width, height)
	w.pixels = make([]byte, width*height*4)
}
