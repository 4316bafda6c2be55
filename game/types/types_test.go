package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionRoundTrip(t *testing.T) {
	origin := Point{X: 3, Y: 3}
	for _, d := range Directions {
		next := origin.Add(d)
		got, ok := DirectionBetween(origin, next)
		assert.True(t, ok, "direction %v", d)
		assert.Equal(t, d, got)
		assert.Equal(t, origin, next.Add(d.Opposite()))
	}
}

func TestDirectionBetweenRejectsNonAdjacent(t *testing.T) {
	for _, to := range []Point{{X: 1, Y: 1}, {X: 0, Y: 0}, {X: 2, Y: 0}, {X: -1, Y: 1}} {
		_, ok := DirectionBetween(Point{}, to)
		assert.False(t, ok, "delta to %v", to)
	}
}

func TestRightAndDownAxes(t *testing.T) {
	assert.Equal(t, Point{X: 1, Y: 0}, Right.ToPoint())
	assert.Equal(t, Point{X: 0, Y: 1}, Down.ToPoint())
	assert.Equal(t, Point{X: 0, Y: -1}, Up.ToPoint())
	assert.Equal(t, Point{X: -1, Y: 0}, Left.ToPoint())
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, 8, Manhattan(Point{}, Point{X: 4, Y: 4}))
	assert.Equal(t, 3, Manhattan(Point{X: 2, Y: 5}, Point{X: 1, Y: 3}))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "(1,2)", Point{X: 1, Y: 2}.String())
	assert.Equal(t, "down", Down.String())
	assert.Equal(t, "grew", Grew.String())
	assert.Equal(t, "invariant-violation", InvariantViolation.String())
}
