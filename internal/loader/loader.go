// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Load reads a raw CHIP-8 ROM file and validates that it fits into the
// program space of the interpreter.
func Load(filename string) ([]byte, error) {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file %s: %w", filename, err)
	}

	if len(rom) == 0 {
		return nil, fmt.Errorf("ROM file %s is empty", filename)
	}
	if len(rom) > chip8.MemorySize-chip8.ProgramStart {
		return nil, fmt.Errorf("ROM file %s with %d bytes exceeds the program space of %d bytes",
			filename, len(rom), chip8.MemorySize-chip8.ProgramStart)
	}

	return rom, nil
}
