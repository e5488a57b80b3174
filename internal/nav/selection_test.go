package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSelectionReplaceThenRange replays the plain-click plus
// shift-click sequence from a visible order of four entries.
func TestSelectionReplaceThenRange(t *testing.T) {
	visible := []string{"a", "b", "c", "d"}
	s := NewSelection()

	s.Replace("b")
	assert.Equal(t, []string{"b"}, s.Keys())

	s.ExtendRange("b", "d", visible)
	assert.Equal(t, []string{"b", "c", "d"}, s.Keys())
	assert.False(t, s.Contains("a"))
}

// TestSelectionRangeReversed checks ranges work regardless of anchor
// order.
func TestSelectionRangeReversed(t *testing.T) {
	visible := []string{"a", "b", "c", "d"}
	s := NewSelection()

	s.ExtendRange("d", "b", visible)
	assert.ElementsMatch(t, []string{"b", "c", "d"}, s.Keys())
}

// TestSelectionRangeMissingAnchor falls back to selecting only the
// target when the anchor is not in the visible order.
func TestSelectionRangeMissingAnchor(t *testing.T) {
	s := NewSelection()
	s.ExtendRange("gone", "c", []string{"a", "b", "c"})
	assert.Equal(t, []string{"c"}, s.Keys())
}

// TestSelectionToggle checks add/remove semantics.
func TestSelectionToggle(t *testing.T) {
	s := NewSelection()

	s.Toggle("a")
	s.Toggle("b")
	assert.Equal(t, 2, s.Len())

	s.Toggle("a")
	assert.Equal(t, []string{"b"}, s.Keys())

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Keys())
}
