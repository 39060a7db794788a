package chip8

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisplayFrameCompositing(t *testing.T) {
	d := NewDisplay()

	// plane 0 sets the left pixel, plane 1 the right one, both the middle
	d.SetActivePlanes(0x1)
	d.WriteSprite([]byte{0xC0}, 0, 0)
	d.SetActivePlanes(0x2)
	d.WriteSprite([]byte{0x60}, 0, 0)

	frame := d.Frame()
	assert.Equal(t, Width*Height, len(frame))

	want := []uint32{
		DefaultPalette[1], // plane 0 only
		DefaultPalette[3], // both planes
		DefaultPalette[2], // plane 1 only
		DefaultPalette[0], // background
	}
	if diff := cmp.Diff(want, frame[:4]); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayCustomPalette(t *testing.T) {
	d := NewDisplay()
	palette := [4]uint32{0x111111, 0x222222, 0x333333, 0x444444}
	d.SetPalette(palette)

	d.WriteSprite([]byte{0x80}, 0, 0)
	frame := d.Frame()
	assert.Equal(t, palette[1], frame[0])
	assert.Equal(t, palette[0], frame[1])
}

func TestDisplayBothPlanesSpriteSplit(t *testing.T) {
	d := NewDisplay()
	d.SetActivePlanes(0x3)

	// first half drives plane 0, second half plane 1
	collision := d.WriteSprite([]byte{0x80, 0x40}, 0, 0)
	assert.False(t, collision)

	frame := d.Frame()
	assert.Equal(t, DefaultPalette[1], frame[0])
	assert.Equal(t, DefaultPalette[2], frame[1])

	// redrawing collides on both planes and erases the pixels
	collision = d.WriteSprite([]byte{0x80, 0x40}, 0, 0)
	assert.True(t, collision)
	frame = d.Frame()
	assert.Equal(t, DefaultPalette[0], frame[0])
	assert.Equal(t, DefaultPalette[0], frame[1])
}

func TestDisplaySetExtended(t *testing.T) {
	d := NewDisplay()
	d.SetActivePlanes(0x2)
	d.WriteSprite([]byte{0xFF}, 0, 0)

	d.SetExtended(true)
	assert.Equal(t, Width*2, d.Width())
	assert.Equal(t, Height*2, d.Height())
	assert.True(t, d.Extended())
	// mode switches zero the planes but keep the plane selection
	assert.Equal(t, uint8(0x2), d.ActivePlanes())
	for _, pixel := range d.Frame() {
		assert.Equal(t, DefaultPalette[0], pixel)
	}

	d.SetExtended(false)
	assert.Equal(t, Width, d.Width())
	assert.Equal(t, Height, d.Height())
}

func TestDisplayClearAffectsActivePlanesOnly(t *testing.T) {
	d := NewDisplay()
	d.SetActivePlanes(0x3)
	d.WriteSprite([]byte{0x80, 0x80}, 0, 0)

	d.SetActivePlanes(0x1)
	d.Clear()

	frame := d.Frame()
	assert.Equal(t, DefaultPalette[2], frame[0])
}

func TestDisplayUpdateTracking(t *testing.T) {
	d := NewDisplay()
	assert.True(t, d.Updated())
	d.ClearUpdated()
	assert.False(t, d.Updated())

	updates := d.Updates()
	d.WriteSprite([]byte{0x80}, 0, 0)
	assert.True(t, d.Updated())
	assert.Equal(t, updates+1, d.Updates())
}
