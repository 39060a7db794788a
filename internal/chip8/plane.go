package chip8

// plane is a single monochrome bit layer of the display. Pixels are packed
// 8 per byte in row-major order, the width is always a multiple of 8.
type plane struct {
	cells  []byte
	width  int
	height int
}

func newPlane(height, width int) *plane {
	return &plane{
		cells:  make([]byte, height*width/8),
		width:  width,
		height: height,
	}
}

func (p *plane) clear() {
	clear(p.cells)
}

// scrollDown moves all rows down by n, filling the vacated top rows with zeros.
func (p *plane) scrollDown(n byte) {
	shift := int(n) * p.width / 8
	if shift >= len(p.cells) {
		p.clear()
		return
	}
	copy(p.cells[shift:], p.cells[:len(p.cells)-shift])
	clear(p.cells[:shift])
}

// scrollUp moves all rows up by n, filling the vacated bottom rows with zeros.
func (p *plane) scrollUp(n byte) {
	shift := int(n) * p.width / 8
	if shift >= len(p.cells) {
		p.clear()
		return
	}
	copy(p.cells, p.cells[shift:])
	clear(p.cells[len(p.cells)-shift:])
}

// scrollRight shifts every row 4 pixels to the right. The scroll amount is a
// half byte, so the low nibble of each storage byte carries over into the
// high nibble of its right neighbor.
func (p *plane) scrollRight() {
	rowBytes := p.width / 8
	for y := range p.height {
		row := p.cells[y*rowBytes : (y+1)*rowBytes]
		carry := byte(0)
		for i, val := range row {
			row[i] = val>>4 | carry<<4
			carry = val & 0x0F
		}
	}
}

// scrollLeft shifts every row 4 pixels to the left with zero fill on the right.
func (p *plane) scrollLeft() {
	rowBytes := p.width / 8
	for y := range p.height {
		row := p.cells[y*rowBytes : (y+1)*rowBytes]
		carry := byte(0)
		for i := len(row) - 1; i >= 0; i-- {
			val := row[i]
			row[i] = val<<4 | carry
			carry = val >> 4
		}
	}
}

// writeSprite XORs the sprite rows onto the plane at (x, y). Coordinates wrap
// at the plane edges, sprite rows past the bottom wrap back to the top.
// It reports whether any previously set pixel was cleared by the write.
func (p *plane) writeSprite(sprite []byte, x, y byte) bool {
	collision := false
	x %= byte(p.width)
	y %= byte(p.height)
	for i, b := range sprite {
		row := byte((int(y) + i) % p.height)
		cur := p.byteAt(x, row)
		if cur&b != 0 {
			collision = true
		}
		p.setByte(x, row, cur^b)
	}
	return collision
}

// writeSprite16 draws a 16x16 sprite given as 32 bytes of interleaved
// left/right column pairs.
func (p *plane) writeSprite16(sprite []byte, x, y byte) bool {
	var left, right [16]byte
	for i := range left {
		left[i] = sprite[i*2]
		right[i] = sprite[i*2+1]
	}
	collision := p.writeSprite(left[:], x, y)
	collision = p.writeSprite(right[:], x+8, y) || collision
	return collision
}

// byteAt returns the 8 pixel window starting at column x of the given row.
// The window can straddle two storage bytes and wraps around the row edge.
func (p *plane) byteAt(x, y byte) byte {
	rowBytes := p.width / 8
	row := p.cells[int(y)*rowBytes : (int(y)+1)*rowBytes]
	idx := int(x) / 8
	bits := int(x) % 8
	word := uint16(row[idx])<<8 | uint16(row[(idx+1)%rowBytes])
	return byte(word >> (8 - bits))
}

// setByte stores an 8 pixel window starting at column x of the given row,
// splitting it across the two underlying storage bytes where needed.
func (p *plane) setByte(x, y, val byte) {
	rowBytes := p.width / 8
	row := p.cells[int(y)*rowBytes : (int(y)+1)*rowBytes]
	idx := int(x) / 8
	bits := int(x) % 8
	word := uint16(row[idx])<<8 | uint16(row[(idx+1)%rowBytes])
	word &^= 0xFF << (8 - bits)
	word |= uint16(val) << (8 - bits)
	row[idx] = byte(word >> 8)
	row[(idx+1)%rowBytes] = byte(word)
}

// bit returns whether the pixel at (x, y) is set.
func (p *plane) bit(x, y int) byte {
	rowBytes := p.width / 8
	return p.cells[y*rowBytes+x/8] >> (7 - x%8) & 0x1
}
