package sym

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByCommand(t *testing.T) {
	glyph, ok := ByCommand("layout")
	assert.True(t, ok)
	assert.Equal(t, Layout, glyph)

	_, ok = ByCommand("pulse")
	assert.False(t, ok)
}

func TestGlyphsAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for glyph, name := range All {
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate command name %s", name)
		seen[name] = true
		assert.NotEmpty(t, glyph)
	}
}
