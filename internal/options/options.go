// Package options contains the program options.
package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Parameters contains file path options.
type Parameters struct {
	Input string // ROM file to run
}

// Flags contains behavior options.
type Flags struct {
	Debug   int  // debug log verbosity, 0 disables debug output
	Quiet   bool // only log errors
	Mute    bool // disable audio output
	NoSkip  bool // deliver every frame to the frontend instead of dropping
	Palette string
}

// Limits contains execution speed options.
type Limits struct {
	FPS float64 // frame rate limit, 0 means unlimited
	IPS float64 // instruction rate limit, 0 means unlimited
	IPF int     // instructions per frame, paced by the frame limiter
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Limits
}

// Emulator defines options to control the emulator scheduler.
type Emulator struct {
	SkipFrames           bool    // drop frames the frontend did not consume in time
	ReduceFlicker        bool    // emit a frame after every tick, not only on changes
	FPSLimit             float64 // 0 means unlimited
	IPSLimit             float64 // 0 means unlimited
	InstructionsPerFrame int     // 0 disables batch mode
	Debug                int

	Colors     [4]uint32 // display palette override
	HasPalette bool
}

// NewEmulator returns a new options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		SkipFrames:    true,
		ReduceFlicker: true,
	}
}

// ParsePalette parses a comma separated list of hex colors. Two colors
// override the background and foreground of plane 0, four colors replace the
// whole palette. It returns the parsed colors and how many were given.
func ParsePalette(value string) ([4]uint32, int, error) {
	var colors [4]uint32

	parts := strings.Split(value, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return colors, 0, fmt.Errorf("palette needs 2 or 4 colors, got %d", len(parts))
	}

	for i, part := range parts {
		part = strings.TrimPrefix(strings.TrimSpace(part), "0x")
		color, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return colors, 0, fmt.Errorf("parsing palette color %q: %w", part, err)
		}
		colors[i] = uint32(color)
	}
	return colors, len(parts), nil
}
