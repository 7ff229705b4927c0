package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomPicker_SameSeedSameSequence(t *testing.T) {
	a := NewRandomPicker(42)
	b := NewRandomPicker(42)
	for range 20 {
		assert.Equal(t, a.Pick(responseMessages), b.Pick(responseMessages))
	}
}

func TestRandomPicker_PicksFromOptions(t *testing.T) {
	p := NewRandomPicker(7)
	for range 50 {
		assert.Contains(t, responseMessages, p.Pick(responseMessages))
	}
	assert.Empty(t, p.Pick(nil))
}

func TestFixedPicker(t *testing.T) {
	options := []string{"a", "b", "c"}
	assert.Equal(t, "a", FixedPicker(0).Pick(options))
	assert.Equal(t, "c", FixedPicker(2).Pick(options))
	assert.Equal(t, "b", FixedPicker(4).Pick(options))
	assert.Equal(t, "c", FixedPicker(-1).Pick(options))
	assert.Empty(t, FixedPicker(1).Pick(nil))
}
