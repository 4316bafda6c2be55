package ai

import (
	"math"

	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/pkg/errors"
	"github.com/zyedidia/generic/heap"
)

var (
	// ErrNoPathFound is the normal "cannot currently reach the goal" result.
	ErrNoPathFound = errors.New("no path found")

	// ErrSearchCapped is returned when the expansion count exceeds the cell
	// count. It is a NoPathFound.
	ErrSearchCapped = errors.Wrap(ErrNoPathFound, "iteration cap exceeded")
)

// Occupied reports cells the search must not enter.
type Occupied interface {
	Has(p types.Point) bool
}

// SearchStats describes the last FindPath call.
type SearchStats struct {
	Expanded int // nodes popped and closed
	Pushed   int // open set insertions, including re-pushes on improvement
}

type nodeState uint8

const (
	unseen nodeState = iota
	inOpen
	inClosed
)

// openEntry orders the frontier by f, then by the cell's first insertion.
type openEntry struct {
	idx int
	f   float64
	seq int
}

func lessEntry(a, b openEntry) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.seq < b.seq
}

// Planner runs A* over a grid using a scratch table indexed by cell. The
// table is zeroed before every return, so a Planner can be reused across
// calls but not shared between goroutines.
type Planner struct {
	grid          *world.Grid
	maxIterations int

	g      []int
	h      []float64
	f      []float64
	parent []int // predecessor index + 1, 0 means none
	seq    []int
	state  []nodeState

	stats SearchStats
}

func NewPlanner(grid *world.Grid) *Planner {
	n := grid.Size()
	return &Planner{
		grid:          grid,
		maxIterations: n,
		g:             make([]int, n),
		h:             make([]float64, n),
		f:             make([]float64, n),
		parent:        make([]int, n),
		seq:           make([]int, n),
		state:         make([]nodeState, n),
	}
}

// FindPath plans on a throwaway Planner. Safe for concurrent use on a shared
// grid.
func FindPath(grid *world.Grid, occupied Occupied, start, goal types.Point) ([]types.Direction, error) {
	return NewPlanner(grid).FindPath(occupied, start, goal)
}

// Stats returns counters for the most recent FindPath call.
func (p *Planner) Stats() SearchStats {
	return p.stats
}

// FindPath returns the moves from start to goal ordered goal first: the last
// element is the first move to make. occupied may be nil. The start cell is
// never checked against occupied.
func (p *Planner) FindPath(occupied Occupied, start, goal types.Point) ([]types.Direction, error) {
	p.stats = SearchStats{}

	if !p.grid.InBounds(start) {
		return nil, errors.Wrapf(types.ErrInvariantViolation, "start %v outside %dx%d grid", start, p.grid.Rows(), p.grid.Cols())
	}
	if p.grid.IsBlocked(goal) || (occupied != nil && occupied.Has(goal)) {
		return nil, ErrNoPathFound
	}
	if start == goal {
		return []types.Direction{}, nil
	}
	defer p.reset()

	startIdx := p.grid.Index(start)
	goalIdx := p.grid.Index(goal)

	open := heap.New[openEntry](lessEntry)
	nextSeq := 0
	p.h[startIdx] = heuristic(start, goal)
	p.f[startIdx] = p.h[startIdx]
	p.seq[startIdx] = nextSeq
	p.state[startIdx] = inOpen
	nextSeq++
	open.Push(openEntry{idx: startIdx, f: p.f[startIdx], seq: p.seq[startIdx]})
	p.stats.Pushed++

	for open.Size() > 0 {
		cur, _ := open.Pop()
		if p.state[cur.idx] == inClosed {
			// superseded by a cheaper re-push
			continue
		}
		p.state[cur.idx] = inClosed
		p.stats.Expanded++
		if p.stats.Expanded > p.maxIterations {
			return nil, ErrSearchCapped
		}

		if cur.idx == goalIdx {
			return p.reconstruct(startIdx, goalIdx)
		}

		for _, n := range p.grid.Neighbors(cur.idx) {
			if p.state[n] == inClosed || p.grid.BlockedAt(n) {
				continue
			}
			if occupied != nil && occupied.Has(p.grid.PointAt(n)) {
				continue
			}

			tentative := p.g[cur.idx] + 1
			if p.state[n] == inOpen && tentative >= p.g[n] {
				continue
			}
			if p.state[n] == unseen {
				p.state[n] = inOpen
				p.seq[n] = nextSeq
				nextSeq++
				p.h[n] = heuristic(p.grid.PointAt(n), goal)
			}
			p.g[n] = tentative
			p.f[n] = float64(tentative) + p.h[n]
			p.parent[n] = cur.idx + 1
			open.Push(openEntry{idx: n, f: p.f[n], seq: p.seq[n]})
			p.stats.Pushed++
		}
	}

	return nil, ErrNoPathFound
}

// reconstruct walks predecessors from goal back to start.
func (p *Planner) reconstruct(startIdx, goalIdx int) ([]types.Direction, error) {
	trail := []types.Point{p.grid.PointAt(goalIdx)}
	for cur := goalIdx; cur != startIdx; {
		prev := p.parent[cur] - 1
		if prev < 0 || len(trail) > p.grid.Size() {
			return nil, errors.Wrapf(types.ErrInvariantViolation, "broken predecessor chain at %v", p.grid.PointAt(cur))
		}
		trail = append(trail, p.grid.PointAt(prev))
		cur = prev
	}
	return stepsAlong(trail)
}

// stepsAlong converts a goal-to-start trail of cells into moves, goal end
// first. Every consecutive pair must be 4-adjacent.
func stepsAlong(trail []types.Point) ([]types.Direction, error) {
	if len(trail) == 0 {
		return []types.Direction{}, nil
	}
	steps := make([]types.Direction, 0, len(trail)-1)
	for i := 0; i+1 < len(trail); i++ {
		from, to := trail[i+1], trail[i]
		d, ok := types.DirectionBetween(from, to)
		if !ok {
			return nil, errors.Wrapf(types.ErrInvariantViolation, "non-cardinal step %v -> %v", from, to)
		}
		steps = append(steps, d)
	}
	return steps, nil
}

func (p *Planner) reset() {
	clear(p.g)
	clear(p.h)
	clear(p.f)
	clear(p.parent)
	clear(p.seq)
	clear(p.state)
}

func heuristic(a, b types.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
