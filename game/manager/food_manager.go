package manager

import (
	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// ErrTargetPlacementExhausted means no free cell is left for a target. The
// body fills every unblocked cell, or the rest are unreachable obstacles.
var ErrTargetPlacementExhausted = errors.New("no free cell for target")

type FoodManager struct {
	grid         *world.Grid
	collisionMgr *CollisionManager
	rng          *rand.Rand
	maxAttempts  int
}

// NewFoodManager uses rng for every draw. A non-positive maxAttempts falls
// back to types.MaxPlacementAttempts.
func NewFoodManager(grid *world.Grid, collisionMgr *CollisionManager, rng *rand.Rand, maxAttempts int) *FoodManager {
	if maxAttempts <= 0 {
		maxAttempts = types.MaxPlacementAttempts
	}
	return &FoodManager{
		grid:         grid,
		collisionMgr: collisionMgr,
		rng:          rng,
		maxAttempts:  maxAttempts,
	}
}

// PlaceFood picks a target cell that is neither blocked nor part of body. It
// draws uniformly up to maxAttempts times, then scans in row-major order.
func (fm *FoodManager) PlaceFood(body []types.Point) (types.Point, error) {
	occ := world.NewOccupancy(body, false)

	for i := 0; i < fm.maxAttempts; i++ {
		food := types.Point{
			X: fm.rng.Intn(fm.grid.Rows()),
			Y: fm.rng.Intn(fm.grid.Cols()),
		}
		if fm.collisionMgr.spawnable(food, occ) {
			return food, nil
		}
	}

	for _, p := range fm.grid.FreeCells() {
		if !occ.Has(p) {
			return p, nil
		}
	}
	return types.Point{}, ErrTargetPlacementExhausted
}
