package chip8

import (
	"errors"
	"fmt"
)

// ErrHalted is returned by Step when the program executed the exit
// instruction. It signals a clean shutdown, not a failure.
var ErrHalted = errors.New("interpreter halted")

// OpcodeError is returned when the CPU fetches an instruction word that does
// not decode to any known opcode. The interpreter can not continue past it.
type OpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%04X at $%04X", e.Opcode, e.PC)
}
