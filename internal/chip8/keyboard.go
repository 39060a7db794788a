package chip8

// Keyboard tracks the 16 key hex keypad. A second snapshot vector enables
// edge detection for the wait-for-keypress instruction: a key held down
// across multiple ticks is reported as a fresh press only once.
type Keyboard struct {
	keys     [16]bool
	prevKeys [16]bool
}

// SetKeys replaces the current key state with a frontend snapshot.
func (k *Keyboard) SetKeys(keys [16]bool) {
	k.keys = keys
}

// Pressed returns whether the given key is currently down.
func (k *Keyboard) Pressed(key byte) bool {
	return k.keys[key&0xF]
}

// WaitPress returns the lowest pressed key that was not already down at the
// previous call. The previous snapshot is refreshed on every call, so the
// instruction keeps blocking until a new press arrives.
func (k *Keyboard) WaitPress() (byte, bool) {
	pressed := byte(0)
	fresh := false
	for i, down := range k.keys {
		if down && !k.prevKeys[i] {
			pressed = byte(i)
			fresh = true
			break
		}
	}
	k.prevKeys = k.keys
	return pressed, fresh
}
