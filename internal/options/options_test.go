package options

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParsePalette(t *testing.T) {
	colors, count, err := ParsePalette("0x00112233,0x00445566")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, uint32(0x00112233), colors[0])
	assert.Equal(t, uint32(0x00445566), colors[1])

	colors, count, err = ParsePalette("AA4400, FFAA00, AAAAAA, 000000")
	assert.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, uint32(0x00AA4400), colors[0])
	assert.Equal(t, uint32(0x00000000), colors[3])
}

func TestParsePaletteErrors(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"single color", "AA4400"},
		{"three colors", "AA4400,FFAA00,AAAAAA"},
		{"invalid hex", "AA4400,nothex"},
		{"value too large", "AA4400,1FFFFFFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePalette(tt.value)
			assert.Error(t, err)
		})
	}
}
