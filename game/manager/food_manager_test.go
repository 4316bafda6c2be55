package manager

import (
	"testing"

	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newFoodManager(t *testing.T, g *world.Grid, seed uint64, attempts int) *FoodManager {
	t.Helper()
	return NewFoodManager(g, NewCollisionManager(g), rand.New(rand.NewSource(seed)), attempts)
}

func TestPlaceFoodAvoidsObstaclesAndBody(t *testing.T) {
	g, err := world.NewGrid(8, 8, 30, 4)
	require.NoError(t, err)
	body := g.FreeCells()[:10]

	fm := newFoodManager(t, g, 1, 0)
	cm := NewCollisionManager(g)
	for i := 0; i < 200; i++ {
		food, err := fm.PlaceFood(body)
		require.NoError(t, err)
		assert.True(t, cm.ValidateSpawnPosition(food, body), "target %v", food)
	}
}

func TestPlaceFoodIsDeterministicPerSeed(t *testing.T) {
	g, err := world.NewGrid(12, 12, 10, 2)
	require.NoError(t, err)
	body := []types.Point{g.FreeCells()[0]}

	a := newFoodManager(t, g, 77, 0)
	b := newFoodManager(t, g, 77, 0)
	for i := 0; i < 20; i++ {
		fa, errA := a.PlaceFood(body)
		fb, errB := b.PlaceFood(body)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, fa, fb)
	}
}

func TestPlaceFoodFallsBackToRowMajorScan(t *testing.T) {
	g, err := world.NewGridWithObstacles(3, 3, []types.Point{{X: 0, Y: 1}})
	require.NoError(t, err)
	fm := newFoodManager(t, g, 1, 0)
	// no random draws at all
	fm.maxAttempts = 0

	food, err := fm.PlaceFood([]types.Point{{X: 0, Y: 0}})
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: 0, Y: 2}, food)
}

func TestPlaceFoodFindsLastFreeCell(t *testing.T) {
	g, err := world.ParseLayout(
		"###",
		"#..",
		"###",
	)
	require.NoError(t, err)
	fm := newFoodManager(t, g, 9, 1)

	food, err := fm.PlaceFood([]types.Point{{X: 1, Y: 1}})
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: 2, Y: 1}, food)
}

func TestPlaceFoodExhausted(t *testing.T) {
	g, err := world.ParseLayout(
		"###",
		"#..",
		"###",
	)
	require.NoError(t, err)
	fm := newFoodManager(t, g, 9, 0)

	_, err = fm.PlaceFood([]types.Point{{X: 1, Y: 1}, {X: 2, Y: 1}})
	assert.ErrorIs(t, err, ErrTargetPlacementExhausted)

	full, err := world.NewGrid(4, 4, 100, 1)
	require.NoError(t, err)
	_, err = newFoodManager(t, full, 1, 0).PlaceFood(nil)
	assert.ErrorIs(t, err, ErrTargetPlacementExhausted)
}
