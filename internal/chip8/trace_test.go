package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestInstructionName(t *testing.T) {
	assert.True(t, InstructionName(0x00E0) != "", "CLS should resolve to a name")
	assert.True(t, InstructionName(0x1234) != "", "JP should resolve to a name")
	assert.True(t, InstructionName(0x8AB4) != "", "ADD should resolve to a name")

	// XO-CHIP extensions are not part of the base instruction table
	assert.Equal(t, "", InstructionName(0x5AB2))
}
