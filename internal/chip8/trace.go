package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// InstructionName returns the mnemonic of an instruction word for trace
// output. Opcodes missing from the base instruction table, like the XO-CHIP
// extensions, yield an empty string.
func InstructionName(opcode uint16) string {
	firstNibble := int(opcode >> 12)
	for _, op := range chip8.Opcodes[firstNibble] {
		if op.Instruction == nil {
			continue
		}
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}
