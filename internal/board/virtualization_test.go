package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideStrategy(t *testing.T) {
	assert.False(t, DecideStrategy(0, 50).Windowed)
	assert.False(t, DecideStrategy(50, 50).Windowed, "at the threshold stays direct")

	s := DecideStrategy(51, 50)
	assert.True(t, s.Windowed)
	assert.Equal(t, EstimatedRowHeight, s.RowHeight)
	assert.Equal(t, OverscanCards, s.Overscan)
}

func TestWindowDirectReturnsAll(t *testing.T) {
	s := DecideStrategy(10, 50)
	start, end := s.Window(10, 4, 9)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}

func TestWindowBounds(t *testing.T) {
	s := DecideStrategy(100, 50)

	// 9 view rows at 3 lines per card shows 3 cards plus overscan
	start, end := s.Window(100, 0, 9)
	assert.Equal(t, 0, start)
	assert.Equal(t, 7, end)

	start, end = s.Window(100, 20, 9)
	assert.Equal(t, 16, start)
	assert.Equal(t, 27, end)

	// near the tail the window clamps to the card count
	start, end = s.Window(100, 98, 9)
	assert.Equal(t, 94, start)
	assert.Equal(t, 100, end)
}

func TestWindowDegenerateViewport(t *testing.T) {
	s := DecideStrategy(100, 50)
	start, end := s.Window(100, 0, 1)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end, "at least one visible card plus overscan")

	start, end = s.Window(0, 0, 9)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
