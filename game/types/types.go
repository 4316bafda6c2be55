package types

import (
	"errors"
	"fmt"
)

// Point is a cell coordinate. X spans the grid rows, Y spans the columns.
type Point struct {
	X, Y int
}

// Add returns the point shifted by one step in direction d
func (p Point) Add(d Direction) Point {
	delta := d.ToPoint()
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four cardinal moves
type Direction int

const (
	Right Direction = iota
	Left
	Up
	Down
)

// Directions lists the moves in canonical neighbour order.
var Directions = [4]Direction{Right, Left, Up, Down}

// ToPoint converts a Direction into a displacement vector
func (d Direction) ToPoint() Point {
	switch d {
	case Right:
		return Point{X: 1, Y: 0}
	case Left:
		return Point{X: -1, Y: 0}
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	default:
		return Point{X: 0, Y: 0}
	}
}

// Opposite returns the reverse move.
func (d Direction) Opposite() Direction {
	switch d {
	case Right:
		return Left
	case Left:
		return Right
	case Up:
		return Down
	default:
		return Up
	}
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// DirectionBetween returns the move that takes from to to. The second result is
// false when the two points are not 4-adjacent.
func DirectionBetween(from, to Point) (Direction, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	for _, d := range Directions {
		if delta := d.ToPoint(); delta.X == dx && delta.Y == dy {
			return d, true
		}
	}
	return 0, false
}

// Manhattan returns the 4-connected distance between two points.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// TickOutcome reports what a single controller tick did
type TickOutcome int

const (
	Moved TickOutcome = iota
	Grew
	Blocked
	InvariantViolation
)

func (o TickOutcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Grew:
		return "grew"
	case Blocked:
		return "blocked"
	case InvariantViolation:
		return "invariant-violation"
	default:
		return fmt.Sprintf("TickOutcome(%d)", int(o))
	}
}

// ErrInvariantViolation marks a planner/body consistency defect. It is never
// recoverable.
var ErrInvariantViolation = errors.New("invariant violation")

// Game constants
const (
	DefaultRows                = 25
	DefaultCols                = 25
	DefaultObstacleProbability = 2
	DefaultTickRate            = 12
	MaxPlacementAttempts       = 100
)
