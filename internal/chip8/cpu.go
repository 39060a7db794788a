// Package chip8 implements the CHIP-8, SUPER-CHIP and XO-CHIP virtual
// machine core: instruction engine, plane display, wall clock timers,
// keypad and the audio pattern boundary. The package has no frontend
// dependencies, frames and sound patterns cross the boundary as values.
package chip8

import (
	"fmt"
	"math/rand/v2"
)

const (
	// MemorySize is the byte addressable memory space. It exceeds the
	// classic 4KB to support the XO-CHIP 16 bit index load instruction.
	MemorySize = 0x10000

	// ProgramStart is the address where programs are loaded and execution
	// begins. The area below it holds the built-in fonts.
	ProgramStart = 0x200

	// timerFreqHz is the decay rate of the delay and sound timers.
	timerFreqHz = 60.0

	// longLoadOpcode is the only 4 byte instruction (LD I, NNNN). Skip
	// logic has to step over its trailing address word.
	longLoadOpcode = 0xF000
)

// Config configures a CPU. The zero value of every field selects a default.
type Config struct {
	Player     PatternPlayer // audio pattern sink, nil disables sound output
	Clock      Clock         // time source for the timers, defaults to the system clock
	Multiplier float64       // timer speed multiplier, defaults to 1.0
	Random     func() byte   // random byte source for the RND instruction
}

// CPU is the CHIP-8 instruction engine together with its tightly coupled
// peripherals. It is not safe for concurrent use, the scheduler owns it
// exclusively and exchanges values with other goroutines.
type CPU struct {
	display  *Display
	keyboard Keyboard
	delay    *Timer
	sound    *Timer
	player   PatternPlayer
	random   func() byte

	pattern [PatternLength]byte
	memory  [MemorySize]byte
	v       [16]byte
	stack   [16]uint16
	rpl     [8]byte
	pc      uint16
	i       uint16
	sp      uint8
	steps   uint64
}

// New returns a CPU in its initial state: PC at the program start, registers
// and timers zeroed, display cleared and the fonts installed.
func New(cfg Config) *CPU {
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 1.0
	}
	if cfg.Random == nil {
		cfg.Random = func() byte {
			return byte(rand.IntN(256))
		}
	}

	c := &CPU{
		display: NewDisplay(),
		delay:   NewTimer(cfg.Clock, timerFreqHz, cfg.Multiplier),
		sound:   NewTimer(cfg.Clock, timerFreqHz, cfg.Multiplier),
		player:  cfg.Player,
		random:  cfg.Random,
		pc:      ProgramStart,
	}
	for i := range c.pattern {
		c.pattern[i] = defaultPattern
	}
	copy(c.memory[fontOffset:], smallFont[:])
	copy(c.memory[hiresFontOffset:], hiresFont[:])
	return c
}

// LoadROM copies a raw binary instruction stream to the program start
// address. It rejects programs that do not fit into memory.
func (c *CPU) LoadROM(rom []byte) error {
	if len(rom) > MemorySize-ProgramStart {
		return fmt.Errorf("ROM size %d exceeds program space of %d bytes",
			len(rom), MemorySize-ProgramStart)
	}
	copy(c.memory[ProgramStart:], rom)
	return nil
}

// Display returns the display compositor owned by the CPU.
func (c *CPU) Display() *Display {
	return c.display
}

// SetKeys replaces the keypad state with a frontend snapshot.
func (c *CPU) SetKeys(keys [16]bool) {
	c.keyboard.SetKeys(keys)
}

// PC returns the current program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// Steps returns the number of executed ticks.
func (c *CPU) Steps() uint64 {
	return c.steps
}

// NextOpcode returns the instruction word at the program counter without
// executing it.
func (c *CPU) NextOpcode() uint16 {
	return c.readWord(c.pc)
}

// Step fetches, decodes and executes one instruction. It reports false
// without an error when the wait-for-keypress instruction blocked without
// observing a fresh press. A decode failure returns an OpcodeError, the
// exit instruction returns ErrHalted.
func (c *CPU) Step() (bool, error) {
	executed, err := c.execute(c.readWord(c.pc))
	if err != nil {
		return false, err
	}
	c.steps++
	return executed, nil
}

// nolint: funlen, gocognit, cyclop, maintidx
func (c *CPU) execute(opcode uint16) (bool, error) {
	var n [4]byte
	n[0] = byte(opcode >> 12)
	n[1] = byte(opcode>>8) & 0xF
	n[2] = byte(opcode>>4) & 0xF
	n[3] = byte(opcode) & 0xF
	x := n[1]
	y := n[2]
	nnn := opcode & 0x0FFF
	kk := byte(opcode)

	switch n[0] {
	case 0x0:
		return c.executeSystem(opcode, n)

	case 0x1: // JP addr
		c.pc = nnn
		return true, nil

	case 0x2: // CALL addr
		c.sp++
		c.stack[c.sp] = c.pc
		c.pc = nnn
		return true, nil

	case 0x3: // SE Vx, byte
		if c.v[x] == kk {
			c.skipInstruction()
		}

	case 0x4: // SNE Vx, byte
		if c.v[x] != kk {
			c.skipInstruction()
		}

	case 0x5:
		switch n[3] {
		case 0x0: // SE Vx, Vy
			if c.v[x] == c.v[y] {
				c.skipInstruction()
			}
		case 0x2: // LD [I], Vx-Vy
			c.storeRegisterRange(x, y)
		case 0x3: // LD Vx-Vy, [I]
			c.loadRegisterRange(x, y)
		default:
			return false, &OpcodeError{Opcode: opcode, PC: c.pc}
		}

	case 0x6: // LD Vx, byte
		c.v[x] = kk

	case 0x7: // ADD Vx, byte - the carry flag is not changed
		c.v[x] += kk

	case 0x8:
		if err := c.executeALU(opcode, x, y, n[3]); err != nil {
			return false, err
		}

	case 0x9: // SNE Vx, Vy
		if c.v[x] != c.v[y] {
			c.skipInstruction()
		}

	case 0xA: // LD I, addr
		c.i = nnn

	case 0xB: // JP V0, addr - always offsets by V0, not Vx
		c.pc = nnn + uint16(c.v[0])
		return true, nil

	case 0xC: // RND Vx, byte
		c.v[x] = c.random() & kk

	case 0xD: // DRW Vx, Vy, nibble
		c.draw(x, y, n[3])

	case 0xE:
		switch kk {
		case 0x9E: // SKP Vx
			if c.keyboard.Pressed(c.v[x]) {
				c.skipInstruction()
			}
		case 0xA1: // SKNP Vx
			if !c.keyboard.Pressed(c.v[x]) {
				c.skipInstruction()
			}
		default:
			return false, &OpcodeError{Opcode: opcode, PC: c.pc}
		}

	case 0xF:
		return c.executeMisc(opcode, x, kk, n)

	default:
		return false, &OpcodeError{Opcode: opcode, PC: c.pc}
	}

	c.pc += 2
	return true, nil
}

// executeSystem handles the 0x0 opcode group: display control and return.
func (c *CPU) executeSystem(opcode uint16, n [4]byte) (bool, error) {
	switch {
	case n[1] == 0x0 && n[2] == 0xC: // 00CN - scroll display N rows down
		c.display.ScrollDown(n[3])

	case n[1] == 0x0 && n[2] == 0xD: // 00DN - scroll display N rows up
		c.display.ScrollUp(n[3])

	case n[2] == 0xE && n[3] == 0x0: // 00E0 - CLS
		c.display.Clear()

	case n[2] == 0xE && n[3] == 0xE: // 00EE - RET
		c.pc = c.stack[c.sp]
		c.sp--

	case opcode == 0x00FB: // scroll display 4 pixels right
		c.display.ScrollRight()

	case opcode == 0x00FC: // scroll display 4 pixels left
		c.display.ScrollLeft()

	case opcode == 0x00FD: // EXIT
		return false, ErrHalted

	case opcode == 0x00FE: // disable extended screen mode
		c.display.SetExtended(false)

	case opcode == 0x00FF: // enable extended screen mode
		c.display.SetExtended(true)

	default:
		return false, &OpcodeError{Opcode: opcode, PC: c.pc}
	}

	c.pc += 2
	return true, nil
}

// executeALU handles the 0x8 opcode group. The shift instructions operate on
// Vy and take the flag from the bit shifted out of Vy, the borrow flags are
// set to 1 when no borrow occurred. Vx is written before the flag so that
// VF as destination receives the flag value.
func (c *CPU) executeALU(opcode uint16, x, y, op byte) error {
	switch op {
	case 0x0: // LD Vx, Vy
		c.v[x] = c.v[y]
	case 0x1: // OR Vx, Vy
		c.v[x] |= c.v[y]
	case 0x2: // AND Vx, Vy
		c.v[x] &= c.v[y]
	case 0x3: // XOR Vx, Vy
		c.v[x] ^= c.v[y]
	case 0x4: // ADD Vx, Vy
		sum := uint16(c.v[x]) + uint16(c.v[y])
		c.v[x] = byte(sum)
		c.v[0xF] = flag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		noBorrow := c.v[x] >= c.v[y]
		c.v[x] -= c.v[y]
		c.v[0xF] = flag(noBorrow)
	case 0x6: // SHR Vx {, Vy}
		bit := c.v[y] & 0x1
		c.v[x] = c.v[y] >> 1
		c.v[0xF] = bit
	case 0x7: // SUBN Vx, Vy
		noBorrow := c.v[y] >= c.v[x]
		c.v[x] = c.v[y] - c.v[x]
		c.v[0xF] = flag(noBorrow)
	case 0xE: // SHL Vx {, Vy}
		bit := c.v[y] >> 7
		c.v[x] = c.v[y] << 1
		c.v[0xF] = bit
	default:
		return &OpcodeError{Opcode: opcode, PC: c.pc}
	}
	return nil
}

// executeMisc handles the 0xF opcode group: timers, keyboard wait, fonts,
// memory block transfers and the XO-CHIP extensions.
func (c *CPU) executeMisc(opcode uint16, x, kk byte, n [4]byte) (bool, error) {
	switch {
	case opcode == longLoadOpcode: // F000 NNNN - LD I, 16 bit address
		c.pc += 2
		c.i = c.readWord(c.pc)

	case n[2] == 0x0 && n[3] == 0x1: // FN01 - select drawing planes
		c.display.SetActivePlanes(n[1])

	case opcode == 0xF002: // LD AUDIO, [I] - fill the audio pattern buffer
		copy(c.pattern[:], c.memory[c.i:int(c.i)+PatternLength])

	case kk == 0x07: // LD Vx, DT
		c.v[x] = c.delay.Get()

	case kk == 0x0A: // LD Vx, K - blocks until a fresh key press
		key, fresh := c.keyboard.WaitPress()
		if !fresh {
			return false, nil
		}
		c.v[x] = key

	case kk == 0x15: // LD DT, Vx
		c.delay.Set(c.v[x])

	case kk == 0x18: // LD ST, Vx - arming the sound timer emits the pattern
		c.sound.Set(c.v[x])
		if duration, armed := c.sound.TimeRemaining(); armed && c.player != nil {
			c.player.PlayPattern(c.pattern, duration)
		}

	case kk == 0x1E: // ADD I, Vx
		c.i += uint16(c.v[x])

	case kk == 0x29: // LD F, Vx
		c.i = fontOffset + uint16(c.v[x])*5

	case kk == 0x30: // LD HF, Vx
		c.i = hiresFontOffset + uint16(c.v[x])*10

	case kk == 0x33: // LD B, Vx - binary coded decimal
		c.memory[c.i] = c.v[x] / 100
		c.memory[c.i+1] = c.v[x] / 10 % 10
		c.memory[c.i+2] = c.v[x] % 10

	case kk == 0x55: // LD [I], V0-Vx - I is left unmodified
		copy(c.memory[c.i:int(c.i)+int(x)+1], c.v[:x+1])

	case kk == 0x65: // LD V0-Vx, [I]
		copy(c.v[:x+1], c.memory[c.i:int(c.i)+int(x)+1])

	case kk == 0x75: // LD R, V0-Vx - save to RPL user flags
		copy(c.rpl[:], c.v[:x+1])

	case kk == 0x85: // LD V0-Vx, R - restore from RPL user flags, a range
		// larger than the 8 flag registers restores only what exists
		copy(c.v[:x+1], c.rpl[:])

	default:
		return false, &OpcodeError{Opcode: opcode, PC: c.pc}
	}

	c.pc += 2
	return true, nil
}

// draw executes DRW. A row count of zero selects the 16x16 sprite form.
// When both planes are active the sprite data doubles, first half for
// plane 0 and second half for plane 1.
func (c *CPU) draw(x, y, rows byte) {
	bothPlanes := c.display.ActivePlanes() == 0x3

	var collision bool
	if rows == 0 {
		size := 32
		if bothPlanes {
			size *= 2
		}
		collision = c.display.WriteSprite16(c.memory[c.i:int(c.i)+size], c.v[x], c.v[y])
	} else {
		size := int(rows)
		if bothPlanes {
			size *= 2
		}
		collision = c.display.WriteSprite(c.memory[c.i:int(c.i)+size], c.v[x], c.v[y])
	}
	c.v[0xF] = flag(collision)
}

// skipInstruction advances the program counter past the next instruction,
// stepping over 4 bytes when that instruction is the long index load.
func (c *CPU) skipInstruction() {
	c.pc += 2
	if c.readWord(c.pc) == longLoadOpcode {
		c.pc += 2
	}
}

// storeRegisterRange copies the inclusive register range Vx..Vy to memory
// starting at I. A descending range stores the registers in reverse order.
func (c *CPU) storeRegisterRange(x, y byte) {
	addr := c.i
	if x <= y {
		for r := x; r <= y; r++ {
			c.memory[addr] = c.v[r]
			addr++
		}
		return
	}
	for r := int(x); r >= int(y); r-- {
		c.memory[addr] = c.v[r]
		addr++
	}
}

// loadRegisterRange fills the inclusive register range Vx..Vy from memory
// starting at I.
func (c *CPU) loadRegisterRange(x, y byte) {
	addr := c.i
	if x <= y {
		for r := x; r <= y; r++ {
			c.v[r] = c.memory[addr]
			addr++
		}
		return
	}
	for r := int(x); r >= int(y); r-- {
		c.v[r] = c.memory[addr]
		addr++
	}
}

func (c *CPU) readWord(addr uint16) uint16 {
	return uint16(c.memory[addr])<<8 | uint16(c.memory[addr+1])
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}
