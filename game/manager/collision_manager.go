package manager

import (
	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/pkg/errors"
)

type CollisionManager struct {
	grid *world.Grid
}

func NewCollisionManager(grid *world.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// ValidateMove checks a candidate head cell before it is committed. body is
// tail first. The tail only counts as occupied when growing, since otherwise
// it leaves on the same step.
func (cm *CollisionManager) ValidateMove(candidate types.Point, body []types.Point, growing bool) error {
	if cm.isWallCollision(candidate) {
		return errors.Wrapf(types.ErrInvariantViolation, "wall collision at %v", candidate)
	}
	if cm.grid.IsBlocked(candidate) {
		return errors.Wrapf(types.ErrInvariantViolation, "obstacle collision at %v", candidate)
	}
	if cm.isSelfCollision(candidate, body, growing) {
		return errors.Wrapf(types.ErrInvariantViolation, "self collision at %v", candidate)
	}
	return nil
}

// ValidateSpawnPosition reports whether a target may be placed at pos.
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, body []types.Point) bool {
	if cm.isWallCollision(pos) || cm.grid.IsBlocked(pos) {
		return false
	}
	for _, b := range body {
		if pos == b {
			return false
		}
	}
	return true
}

// spawnable is ValidateSpawnPosition against a prebuilt occupancy set.
func (cm *CollisionManager) spawnable(pos types.Point, occ world.Occupancy) bool {
	return !cm.isWallCollision(pos) && !cm.grid.IsBlocked(pos) && !occ.Has(pos)
}

func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.InBounds(pos)
}

func (cm *CollisionManager) isSelfCollision(pos types.Point, body []types.Point, growing bool) bool {
	from := 1
	if growing {
		from = 0
	}
	for i := from; i < len(body); i++ {
		if pos == body[i] {
			return true
		}
	}
	return false
}
