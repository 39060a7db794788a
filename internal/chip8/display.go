package chip8

// Standard display dimensions, doubled in extended mode.
const (
	Width  = 64
	Height = 32
)

// DefaultPalette maps the combined plane bits (plane 0 | plane 1 << 1) to
// 0RGB colors.
var DefaultPalette = [4]uint32{0x00AA4400, 0x00FFAA00, 0x00AAAAAA, 0x00000000}

// Display composites up to two bit planes into a paletted frame. An active
// plane mask selects which planes respond to clear, scroll and draw
// operations. All mutating operations bump an update counter that lets the
// scheduler detect content changes.
type Display struct {
	planes       [2]*plane
	width        int
	height       int
	updates      uint64
	updated      bool
	extended     bool
	colors       [4]uint32
	activePlanes byte
}

// NewDisplay returns a standard resolution display with plane 0 active.
func NewDisplay() *Display {
	return &Display{
		planes:       [2]*plane{newPlane(Height, Width), newPlane(Height, Width)},
		width:        Width,
		height:       Height,
		updated:      true,
		colors:       DefaultPalette,
		activePlanes: 0x1,
	}
}

// Width returns the current display width in pixels.
func (d *Display) Width() int {
	return d.width
}

// Height returns the current display height in pixels.
func (d *Display) Height() int {
	return d.height
}

// Extended returns whether the display is in extended (128x64) mode.
func (d *Display) Extended() bool {
	return d.extended
}

// SetExtended switches between standard and extended resolution. Both planes
// are reallocated and zeroed, the active plane mask is preserved.
func (d *Display) SetExtended(extended bool) {
	if extended {
		d.width = Width * 2
		d.height = Height * 2
	} else {
		d.width = Width
		d.height = Height
	}
	d.extended = extended
	d.planes = [2]*plane{newPlane(d.height, d.width), newPlane(d.height, d.width)}
	d.flagUpdated()
}

// SetPalette overrides the 4 entry color palette.
func (d *Display) SetPalette(colors [4]uint32) {
	d.colors = colors
}

// SetActivePlanes selects which planes respond to drawing operations.
func (d *Display) SetActivePlanes(mask byte) {
	d.activePlanes = mask & 0x3
}

// ActivePlanes returns the active plane bitmask.
func (d *Display) ActivePlanes() byte {
	return d.activePlanes
}

// Updated returns whether display content changed since the last ClearUpdated.
func (d *Display) Updated() bool {
	return d.updated
}

// ClearUpdated resets the content change flag after a frame was observed.
func (d *Display) ClearUpdated() {
	d.updated = false
}

// Updates returns the monotonically increasing update counter.
func (d *Display) Updates() uint64 {
	return d.updates
}

func (d *Display) flagUpdated() {
	d.updated = true
	d.updates++
}

// Clear zeroes all active planes.
func (d *Display) Clear() {
	d.eachActive(func(p *plane) {
		p.clear()
	})
	d.flagUpdated()
}

// ScrollDown scrolls all active planes down by n rows.
func (d *Display) ScrollDown(n byte) {
	d.eachActive(func(p *plane) {
		p.scrollDown(n)
	})
	d.flagUpdated()
}

// ScrollUp scrolls all active planes up by n rows.
func (d *Display) ScrollUp(n byte) {
	d.eachActive(func(p *plane) {
		p.scrollUp(n)
	})
	d.flagUpdated()
}

// ScrollRight scrolls all active planes 4 pixels to the right.
func (d *Display) ScrollRight() {
	d.eachActive(func(p *plane) {
		p.scrollRight()
	})
	d.flagUpdated()
}

// ScrollLeft scrolls all active planes 4 pixels to the left.
func (d *Display) ScrollLeft() {
	d.eachActive(func(p *plane) {
		p.scrollLeft()
	})
	d.flagUpdated()
}

// WriteSprite XOR draws a sprite onto the active planes and reports whether
// any set pixel was cleared. When both planes are active the sprite bytes
// contain the data for both planes, first half for plane 0 and second half
// for plane 1.
func (d *Display) WriteSprite(sprite []byte, x, y byte) bool {
	collision := false
	if d.activePlanes == 0x3 {
		half := len(sprite) / 2
		collision = d.planes[0].writeSprite(sprite[:half], x, y)
		collision = d.planes[1].writeSprite(sprite[half:], x, y) || collision
	} else {
		d.eachActive(func(p *plane) {
			collision = p.writeSprite(sprite, x, y) || collision
		})
	}
	d.flagUpdated()
	return collision
}

// WriteSprite16 draws a 16x16 sprite (32 bytes per plane) onto the active
// planes, split between the planes like WriteSprite when both are active.
func (d *Display) WriteSprite16(sprite []byte, x, y byte) bool {
	collision := false
	if d.activePlanes == 0x3 {
		half := len(sprite) / 2
		collision = d.planes[0].writeSprite16(sprite[:half], x, y)
		collision = d.planes[1].writeSprite16(sprite[half:], x, y) || collision
	} else {
		d.eachActive(func(p *plane) {
			collision = p.writeSprite16(sprite, x, y) || collision
		})
	}
	d.flagUpdated()
	return collision
}

// Frame renders the planes into a row-major pixel buffer by combining the
// plane bits at each coordinate into a palette index.
func (d *Display) Frame() []uint32 {
	buf := make([]uint32, 0, d.height*d.width)
	for y := range d.height {
		for x := range d.width {
			idx := d.planes[0].bit(x, y) | d.planes[1].bit(x, y)<<1
			buf = append(buf, d.colors[idx])
		}
	}
	return buf
}

func (d *Display) eachActive(fn func(p *plane)) {
	for i, p := range d.planes {
		if d.activePlanes>>i&0x1 == 1 {
			fn(p)
		}
	}
}
