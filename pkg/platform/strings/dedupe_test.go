package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	t.Run("removes duplicates and blanks", func(t *testing.T) {
		got := DedupeAndTrim([]string{"  review MVR ", "review MVR", "", "  ", "confirm address"})
		assert.Equal(t, []string{"review MVR", "confirm address"}, got)
	})

	t.Run("preserves order", func(t *testing.T) {
		got := DedupeAndTrim([]string{"b", "a", "b"})
		assert.Equal(t, []string{"b", "a"}, got)
	})

	t.Run("empty input passes through", func(t *testing.T) {
		assert.Empty(t, DedupeAndTrim(nil))
	})
}

func TestDedupeAndTrimLower(t *testing.T) {
	got := DedupeAndTrimLower([]string{"  SPEEDING ", "speeding", "Careless Driving"})
	assert.Equal(t, []string{"speeding", "careless driving"}, got)
}
