package emulator

import (
	"context"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestEmulator(t *testing.T, opts options.Emulator, rom []byte) *Emulator {
	t.Helper()

	cpu := chip8.New(chip8.Config{})
	assert.NoError(t, cpu.LoadROM(rom))
	return New(log.NewTestLogger(t), cpu, opts)
}

func TestEmulatorHalts(t *testing.T) {
	emu := newTestEmulator(t, options.NewEmulator(), []byte{0x00, 0xFD})

	emu.Start(context.Background())
	assert.NoError(t, emu.Wait())
}

func TestEmulatorUnknownOpcodeStops(t *testing.T) {
	emu := newTestEmulator(t, options.NewEmulator(), []byte{0xFF, 0xFF})

	emu.Start(context.Background())
	err := emu.Wait()
	assert.Error(t, err)
	assert.ErrorContains(t, err, "unknown opcode")
}

func TestEmulatorCancellation(t *testing.T) {
	// endless loop, only the context stops it
	emu := newTestEmulator(t, options.NewEmulator(), []byte{0x12, 0x00})

	ctx, cancel := context.WithCancel(context.Background())
	emu.Start(ctx)

	select {
	case <-emu.Done():
		t.Fatal("emulator stopped before cancellation")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, emu.Wait())
}

func TestEmulatorSkipFramesKeepsRunning(t *testing.T) {
	// with frame skipping a frontend that never drains the frame channel
	// must not stall the engine
	emu := newTestEmulator(t, options.NewEmulator(), []byte{0x12, 0x00})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	emu.Start(ctx)

	// consume a single frame, then stop draining
	select {
	case <-emu.FrameReady():
	case <-time.After(time.Second):
		t.Fatal("no frame ready signal received")
	}
	frame := <-emu.Frames()
	assert.Equal(t, chip8.Width, frame.Width)
	assert.Equal(t, chip8.Height, frame.Height)
	assert.Equal(t, chip8.Width*chip8.Height, len(frame.Pixels))

	time.Sleep(50 * time.Millisecond)
	cancel()
	assert.NoError(t, emu.Wait())
}

func TestEmulatorNoSkipDeliversEveryFrame(t *testing.T) {
	opts := options.NewEmulator()
	opts.SkipFrames = false

	emu := newTestEmulator(t, opts, []byte{0x12, 0x00})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	emu.Start(ctx)

	const frames = 10
	for range frames {
		select {
		case <-emu.FrameReady():
		case <-time.After(time.Second):
			t.Fatal("no frame ready signal received")
		}
		// a slow frontend, the blocking delivery must hold the engine back
		time.Sleep(time.Millisecond)
		frame := <-emu.Frames()
		assert.Equal(t, chip8.Width*chip8.Height, len(frame.Pixels))
	}

	cancel()
	assert.NoError(t, emu.Wait())

	// one frame is emitted per executed instruction, so the unlimited engine
	// may only run a few ticks ahead of the consumed frames: one buffered in
	// each handoff channel plus the iteration in flight during cancellation
	steps := emu.cpu.Steps()
	assert.True(t, steps >= frames, "engine executed fewer steps than frames consumed")
	assert.True(t, steps <= frames+5, "engine ran ahead of the frame consumer")
}

func TestEmulatorKeyDelivery(t *testing.T) {
	// the program blocks on wait-for-keypress and exits once a key arrives
	emu := newTestEmulator(t, options.NewEmulator(), []byte{
		0xF0, 0x0A, // LD V0, K
		0x00, 0xFD, // EXIT
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	emu.Start(ctx)

	var keys [16]bool
	keys[0x4] = true
	for {
		select {
		case <-emu.Done():
			assert.NoError(t, emu.Wait())
			return
		case <-time.After(time.Millisecond):
			emu.OfferKeys(keys)
		}
	}
}
