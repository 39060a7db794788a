package gui

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeypadMappingIsUnique(t *testing.T) {
	seen := map[int]bool{}
	for _, key := range keypadKeys {
		assert.False(t, seen[int(key)], "key %s mapped twice", key)
		seen[int(key)] = true
	}
	assert.Equal(t, 16, len(seen))
}
