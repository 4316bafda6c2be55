package game

import (
	"log"

	"snake-astar/ai"
	"snake-astar/game/entity"
	"snake-astar/game/manager"
	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

var (
	// ErrStuck terminates a controller that stayed Blocked for stuckLimit
	// consecutive ticks. It is a NoPathFound.
	ErrStuck = errors.Wrap(ai.ErrNoPathFound, "agent stuck")

	// ErrTerminated is returned by Advance and Retarget once the controller
	// has stopped.
	ErrTerminated = errors.New("controller terminated")
)

// DefaultStuckLimit is the number of consecutive blocked ticks tolerated.
const DefaultStuckLimit = 2

type State int

const (
	Idle State = iota
	Following
	Replanning
	Blocked
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Following:
		return "following"
	case Replanning:
		return "replanning"
	case Blocked:
		return "blocked"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

type options struct {
	body              []types.Point
	target            *types.Point
	stuckLimit        int
	placementAttempts int
}

type Option func(*options)

// WithBody starts the controller with the given cells, tail first.
func WithBody(cells ...types.Point) Option {
	return func(o *options) { o.body = cells }
}

// WithTarget fixes the first target instead of placing one at random.
func WithTarget(p types.Point) Option {
	return func(o *options) { o.target = &p }
}

func WithStuckLimit(n int) Option {
	return func(o *options) { o.stuckLimit = n }
}

func WithPlacementAttempts(n int) Option {
	return func(o *options) { o.placementAttempts = n }
}

// Controller drives one body toward successive targets. It is not safe for
// concurrent use; run one controller per goroutine.
type Controller struct {
	id           string
	grid         *world.Grid
	planner      *ai.Planner
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager

	snake  *entity.Snake
	target types.Point
	plan   []types.Direction // goal first, next move last
	state  State

	score        int
	ticks        int
	blockedTicks int
	stuckLimit   int
	err          error
}

// NewController places a body on grid and picks its first target with rng.
// Without WithBody the body is the centre cell, or the first free cell in
// row-major order when the centre is an obstacle.
func NewController(grid *world.Grid, rng *rand.Rand, opts ...Option) (*Controller, error) {
	if rng == nil {
		return nil, errors.New("nil random source")
	}
	o := options{stuckLimit: DefaultStuckLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.stuckLimit < 1 {
		return nil, errors.Errorf("stuck limit %d must be positive", o.stuckLimit)
	}

	body := o.body
	if len(body) == 0 {
		start, err := defaultStart(grid)
		if err != nil {
			return nil, err
		}
		body = []types.Point{start}
	}
	snake, err := entity.NewSnake(body...)
	if err != nil {
		return nil, err
	}
	for _, p := range snake.Body {
		if grid.IsBlocked(p) {
			return nil, errors.Errorf("body cell %v is blocked or outside the grid", p)
		}
	}

	collisionMgr := manager.NewCollisionManager(grid)
	c := &Controller{
		id:           uuid.New().String(),
		grid:         grid,
		planner:      ai.NewPlanner(grid),
		collisionMgr: collisionMgr,
		foodMgr:      manager.NewFoodManager(grid, collisionMgr, rng, o.placementAttempts),
		snake:        snake,
		state:        Idle,
		stuckLimit:   o.stuckLimit,
	}

	if o.target != nil {
		if !collisionMgr.ValidateSpawnPosition(*o.target, snake.Body) {
			return nil, errors.Errorf("target %v is blocked or on the body", *o.target)
		}
		c.target = *o.target
	} else {
		target, err := c.foodMgr.PlaceFood(snake.Body)
		if err != nil {
			return nil, err
		}
		c.target = target
	}

	log.Printf("agent %s: start head=%v target=%v", c.id, c.Head(), c.target)
	return c, nil
}

// NewAgent builds a default controller whose targets are drawn from seed.
func NewAgent(grid *world.Grid, seed int64) (manager.Agent, error) {
	return NewController(grid, rand.New(rand.NewSource(uint64(seed))))
}

func defaultStart(grid *world.Grid) (types.Point, error) {
	center := types.Point{X: grid.Rows() / 2, Y: grid.Cols() / 2}
	if !grid.IsBlocked(center) {
		return center, nil
	}
	free := grid.FreeCells()
	if len(free) == 0 {
		return types.Point{}, errors.New("grid has no free cell to start on")
	}
	return free[0], nil
}

// Advance runs one tick: replan if there is no plan, then take one step.
func (c *Controller) Advance() (types.TickOutcome, error) {
	if c.state == Terminated {
		return types.Blocked, ErrTerminated
	}
	c.ticks++

	if len(c.plan) == 0 {
		if err := c.replan(); err != nil {
			return c.handleReplanError(err)
		}
	}

	last := len(c.plan) - 1
	d := c.plan[last]
	c.plan = c.plan[:last]
	candidate := c.Head().Add(d)
	growing := candidate == c.target

	if err := c.collisionMgr.ValidateMove(candidate, c.snake.Body, growing); err != nil {
		c.terminate(err)
		return types.InvariantViolation, err
	}

	c.snake.Move(candidate)

	if !growing {
		c.snake.RemoveTail()
		if len(c.plan) > 0 {
			c.state = Following
		} else {
			c.state = Replanning
		}
		return types.Moved, nil
	}

	c.score++
	target, err := c.foodMgr.PlaceFood(c.snake.Body)
	if err != nil {
		c.terminate(err)
		return types.Grew, err
	}
	c.target = target
	log.Printf("agent %s: reached target, score=%d length=%d next=%v", c.id, c.score, c.snake.Len(), c.target)

	if err := c.replan(); err != nil {
		if errors.Is(err, ai.ErrNoPathFound) {
			c.state = Blocked
			log.Printf("agent %s: no path to %v after growth", c.id, c.target)
			return types.Grew, nil
		}
		c.terminate(err)
		return types.InvariantViolation, err
	}
	return types.Grew, nil
}

func (c *Controller) handleReplanError(err error) (types.TickOutcome, error) {
	if !errors.Is(err, ai.ErrNoPathFound) {
		c.terminate(err)
		return types.InvariantViolation, err
	}
	c.state = Blocked
	c.blockedTicks++
	log.Printf("agent %s: blocked %d/%d, head=%v target=%v: %v", c.id, c.blockedTicks, c.stuckLimit, c.Head(), c.target, err)
	if c.blockedTicks >= c.stuckLimit {
		c.terminate(ErrStuck)
		return types.Blocked, ErrStuck
	}
	return types.Blocked, nil
}

// replan replaces the plan with a fresh search from the head to the target.
// The tail is treated as free since it leaves on the next non-growth step.
func (c *Controller) replan() error {
	c.state = Replanning
	occ := world.NewOccupancy(c.snake.Body, true)
	plan, err := c.planner.FindPath(occ, c.Head(), c.target)
	if err != nil {
		c.plan = nil
		return err
	}
	if len(plan) == 0 {
		return errors.Wrapf(types.ErrInvariantViolation, "empty plan from %v to target %v", c.Head(), c.target)
	}
	stats := c.planner.Stats()
	log.Printf("agent %s: replanned %v -> %v: %d steps, %d expanded", c.id, c.Head(), c.target, len(plan), stats.Expanded)
	c.plan = plan
	c.blockedTicks = 0
	c.state = Following
	return nil
}

// Retarget picks a new target and drops the current plan. It clears the
// blocked count.
func (c *Controller) Retarget() error {
	if c.state == Terminated {
		return ErrTerminated
	}
	target, err := c.foodMgr.PlaceFood(c.snake.Body)
	if err != nil {
		c.terminate(err)
		return err
	}
	c.target = target
	c.plan = nil
	c.blockedTicks = 0
	c.state = Replanning
	log.Printf("agent %s: retarget to %v", c.id, c.target)
	return nil
}

func (c *Controller) terminate(err error) {
	c.err = err
	c.state = Terminated
	c.plan = nil
	log.Printf("agent %s: terminated after %d ticks, score=%d: %v", c.id, c.ticks, c.score, err)
}

func (c *Controller) ID() string { return c.id }
func (c *Controller) Grid() *world.Grid { return c.grid }
func (c *Controller) Head() types.Point { return c.snake.GetHead() }
func (c *Controller) Target() types.Point { return c.target }
func (c *Controller) Score() int { return c.score }
func (c *Controller) State() State { return c.state }
func (c *Controller) Ticks() int { return c.ticks }
func (c *Controller) Done() bool { return c.state == Terminated }
func (c *Controller) Err() error { return c.err }
func (c *Controller) Body() []types.Point { return c.snake.Cells() }

// Plan returns a copy of the remaining moves, next move last.
func (c *Controller) Plan() []types.Direction {
	out := make([]types.Direction, len(c.plan))
	copy(out, c.plan)
	return out
}

// PlannedCells returns the cells the remaining plan visits, in walk order.
func (c *Controller) PlannedCells() []types.Point {
	out := make([]types.Point, 0, len(c.plan))
	cur := c.Head()
	for i := len(c.plan) - 1; i >= 0; i-- {
		cur = cur.Add(c.plan[i])
		out = append(out, cur)
	}
	return out
}
