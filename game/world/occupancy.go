package world

import (
	"snake-astar/game/types"

	"github.com/zyedidia/generic/mapset"
)

// Occupancy is the set of cells a body holds for one planning call. The zero
// value is an empty set.
type Occupancy struct {
	cells mapset.Set[types.Point]
}

// NewOccupancy marks every body cell as occupied. With tailVacates set the
// tail (body[0]) is left free, since it moves away on a non-growth step.
func NewOccupancy(body []types.Point, tailVacates bool) Occupancy {
	cells := mapset.New[types.Point]()
	start := 0
	if tailVacates && len(body) > 0 {
		start = 1
	}
	for _, p := range body[start:] {
		cells.Put(p)
	}
	return Occupancy{cells: cells}
}

func (o Occupancy) Has(p types.Point) bool {
	return o.cells.Has(p)
}

func (o Occupancy) Size() int {
	return o.cells.Size()
}

// Points returns the occupied cells in no particular order.
func (o Occupancy) Points() []types.Point {
	out := make([]types.Point, 0, o.Size())
	o.cells.Each(func(p types.Point) {
		out = append(out, p)
	})
	return out
}
