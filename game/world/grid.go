package world

import (
	"fmt"
	"strings"

	"snake-astar/game/types"

	"golang.org/x/exp/rand"
)

// Cell is one grid location. Neighbours are stored as cell indices in
// right/left/up/down order; the planner's tie-breaking depends on it.
type Cell struct {
	Pos       types.Point
	Blocked   bool
	neighbors []int
}

// Grid is an immutable Rows x Cols lattice. X runs over rows, Y over columns,
// and the flat index is X*Cols + Y.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// NewGrid builds a grid whose cells are blocked independently with probability
// obstacleProbability/100, drawn from a source seeded with seed.
func NewGrid(rows, cols, obstacleProbability int, seed int64) (*Grid, error) {
	if obstacleProbability < 0 || obstacleProbability > 100 {
		return nil, fmt.Errorf("obstacle probability %d outside 0-100", obstacleProbability)
	}
	g, err := newGrid(rows, cols)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(uint64(seed)))
	for i := range g.cells {
		g.cells[i].Blocked = rng.Intn(100) < obstacleProbability
	}
	g.link()
	return g, nil
}

// NewGridWithObstacles builds a grid with exactly the given cells blocked.
func NewGridWithObstacles(rows, cols int, blocked []types.Point) (*Grid, error) {
	g, err := newGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	for _, p := range blocked {
		if !g.InBounds(p) {
			return nil, fmt.Errorf("obstacle %v outside %dx%d grid", p, rows, cols)
		}
		g.cells[g.Index(p)].Blocked = true
	}
	g.link()
	return g, nil
}

// ParseLayout builds a grid from a picture. Every line is one Y, every
// character one X: '#' is an obstacle, anything else is free.
func ParseLayout(lines ...string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty layout")
	}
	rows := len(lines[0])
	var blocked []types.Point
	for y, line := range lines {
		if len(line) != rows {
			return nil, fmt.Errorf("layout line %d has width %d, want %d", y, len(line), rows)
		}
		for x, c := range line {
			if c == '#' {
				blocked = append(blocked, types.Point{X: x, Y: y})
			}
		}
	}
	return NewGridWithObstacles(rows, len(lines), blocked)
}

func newGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", rows, cols)
	}
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			g.cells[x*cols+y].Pos = types.Point{X: x, Y: y}
		}
	}
	return g, nil
}

// link sets every cell's neighbour list once. No wraparound.
func (g *Grid) link() {
	for i := range g.cells {
		c := &g.cells[i]
		c.neighbors = make([]int, 0, 4)
		for _, d := range types.Directions {
			if n := c.Pos.Add(d); g.InBounds(n) {
				c.neighbors = append(c.neighbors, g.Index(n))
			}
		}
	}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Size returns the total cell count.
func (g *Grid) Size() int { return len(g.cells) }

func (g *Grid) InBounds(p types.Point) bool {
	return p.X >= 0 && p.X < g.rows && p.Y >= 0 && p.Y < g.cols
}

// Index returns the flat index of an in-bounds point.
func (g *Grid) Index(p types.Point) int {
	return p.X*g.cols + p.Y
}

func (g *Grid) PointAt(i int) types.Point {
	return g.cells[i].Pos
}

// CellAt returns a copy of the cell at p
func (g *Grid) CellAt(p types.Point) (Cell, bool) {
	if !g.InBounds(p) {
		return Cell{}, false
	}
	return g.cells[g.Index(p)], true
}

// IsBlocked reports whether p is a static obstacle. Out-of-bounds points count
// as blocked.
func (g *Grid) IsBlocked(p types.Point) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.cells[g.Index(p)].Blocked
}

// BlockedAt is IsBlocked by flat index.
func (g *Grid) BlockedAt(i int) bool {
	return g.cells[i].Blocked
}

// Neighbors returns the neighbour indices of cell i. The slice must not be
// modified.
func (g *Grid) Neighbors(i int) []int {
	return g.cells[i].neighbors
}

// Neighbors returns the neighbour positions of c in canonical order.
func (c Cell) Neighbors(g *Grid) []types.Point {
	out := make([]types.Point, len(c.neighbors))
	for i, n := range c.neighbors {
		out[i] = g.cells[n].Pos
	}
	return out
}

// FreeCells returns every unblocked cell in row-major order.
func (g *Grid) FreeCells() []types.Point {
	out := make([]types.Point, 0, len(g.cells))
	for i := range g.cells {
		if !g.cells[i].Blocked {
			out = append(out, g.cells[i].Pos)
		}
	}
	return out
}

// BlockedCount returns the number of static obstacles.
func (g *Grid) BlockedCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Blocked {
			n++
		}
	}
	return n
}

// String draws the grid in the ParseLayout format.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.cols; y++ {
		for x := 0; x < g.rows; x++ {
			if g.cells[g.Index(types.Point{X: x, Y: y})].Blocked {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
