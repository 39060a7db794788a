package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeyboardPressed(t *testing.T) {
	var k Keyboard

	assert.False(t, k.Pressed(0x5))

	var keys [16]bool
	keys[0x5] = true
	k.SetKeys(keys)

	assert.True(t, k.Pressed(0x5))
	assert.False(t, k.Pressed(0x6))
	// key index wraps into the keypad range
	assert.True(t, k.Pressed(0x15))
}

func TestKeyboardWaitPress(t *testing.T) {
	var k Keyboard

	_, fresh := k.WaitPress()
	assert.False(t, fresh)

	var keys [16]bool
	keys[0xA] = true
	k.SetKeys(keys)

	key, fresh := k.WaitPress()
	assert.True(t, fresh)
	assert.Equal(t, uint8(0xA), key)

	// the held key is not reported again
	_, fresh = k.WaitPress()
	assert.False(t, fresh)

	// releasing and pressing again counts as a fresh press
	k.SetKeys([16]bool{})
	_, fresh = k.WaitPress()
	assert.False(t, fresh)

	k.SetKeys(keys)
	key, fresh = k.WaitPress()
	assert.True(t, fresh)
	assert.Equal(t, uint8(0xA), key)
}

func TestKeyboardWaitPressLowestKey(t *testing.T) {
	var k Keyboard

	var keys [16]bool
	keys[0x3] = true
	keys[0x7] = true
	k.SetKeys(keys)

	key, fresh := k.WaitPress()
	assert.True(t, fresh)
	assert.Equal(t, uint8(0x3), key)
}
