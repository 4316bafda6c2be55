package world

import (
	"testing"

	"snake-astar/game/types"

	"github.com/stretchr/testify/assert"
)

func TestOccupancyTailVacates(t *testing.T) {
	body := []types.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}

	full := NewOccupancy(body, false)
	assert.Equal(t, 3, full.Size())
	assert.True(t, full.Has(types.Point{X: 0, Y: 0}))

	moving := NewOccupancy(body, true)
	assert.Equal(t, 2, moving.Size())
	assert.False(t, moving.Has(types.Point{X: 0, Y: 0}))
	assert.True(t, moving.Has(types.Point{X: 2, Y: 0}))
	assert.ElementsMatch(t, body[1:], moving.Points())
}

func TestOccupancySingleCellBody(t *testing.T) {
	body := []types.Point{{X: 4, Y: 4}}
	assert.Zero(t, NewOccupancy(body, true).Size())
	assert.Equal(t, 1, NewOccupancy(body, false).Size())
}

func TestOccupancyZeroValue(t *testing.T) {
	var o Occupancy
	assert.False(t, o.Has(types.Point{}))
	assert.Zero(t, o.Size())
	assert.Empty(t, o.Points())
}
