package manager

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFakeStuck = errors.New("stuck")

// fakeAgent grows once per tick until it has lived `life` ticks.
type fakeAgent struct {
	id       string
	life     int
	ticks    int
	score    int
	violate  bool
	err      error
	inFlight *int32
	maxSeen  *int32
}

func (a *fakeAgent) ID() string { return a.id }

func (a *fakeAgent) Advance() (types.TickOutcome, error) {
	if a.inFlight != nil {
		n := atomic.AddInt32(a.inFlight, 1)
		for {
			m := atomic.LoadInt32(a.maxSeen)
			if n <= m || atomic.CompareAndSwapInt32(a.maxSeen, m, n) {
				break
			}
		}
		defer atomic.AddInt32(a.inFlight, -1)
	}
	if a.violate {
		a.err = errors.Wrap(types.ErrInvariantViolation, "self collision")
		return types.InvariantViolation, a.err
	}
	a.ticks++
	a.score++
	if a.ticks >= a.life {
		a.err = errFakeStuck
	}
	return types.Grew, nil
}

func (a *fakeAgent) Body() []types.Point { return make([]types.Point, a.score+1) }
func (a *fakeAgent) Score() int          { return a.score }
func (a *fakeAgent) Ticks() int          { return a.ticks }
func (a *fakeAgent) Done() bool          { return a.err != nil }
func (a *fakeAgent) Err() error          { return a.err }

func testGrid(t *testing.T) *world.Grid {
	t.Helper()
	g, err := world.NewGrid(5, 5, 0, 1)
	require.NoError(t, err)
	return g
}

func TestPopulationRunOrdersAndRecordsResults(t *testing.T) {
	g := testGrid(t)
	sm := NewStateManager()
	pm := NewPopulationManager(g, sm, 10, 0)

	var sawGrid atomic.Bool
	results, err := pm.Run(context.Background(), 6, func(grid *world.Grid, seed int64) (Agent, error) {
		if grid == g {
			sawGrid.Store(true)
		}
		return &fakeAgent{id: fmt.Sprint(seed), life: int(seed)}, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.True(t, sawGrid.Load())

	for i, r := range results {
		seed := int64(10 + i)
		assert.Equal(t, seed, r.Seed)
		assert.Equal(t, fmt.Sprint(seed), r.ID)
		assert.Equal(t, int(seed), r.Score)
		assert.Equal(t, int(seed), r.Ticks)
		assert.Equal(t, int(seed)+1, r.Length)
		assert.Equal(t, "stuck", r.Reason)
	}
	assert.Len(t, sm.History(), 6)
	assert.Equal(t, 15, sm.HighScore())
}

func TestPopulationRunBoundsWorkers(t *testing.T) {
	old := NumWorkers
	NumWorkers = 2
	defer func() { NumWorkers = old }()

	var inFlight, maxSeen int32
	pm := NewPopulationManager(testGrid(t), NewStateManager(), 0, 0)
	results, err := pm.Run(context.Background(), 8, func(_ *world.Grid, seed int64) (Agent, error) {
		return &fakeAgent{life: 50, inFlight: &inFlight, maxSeen: &maxSeen}, nil
	})
	require.NoError(t, err)
	assert.Len(t, results, 8)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxSeen), int32(2))
}

func TestPopulationRunTickCap(t *testing.T) {
	pm := NewPopulationManager(testGrid(t), NewStateManager(), 0, 5)
	results, err := pm.Run(context.Background(), 2, func(_ *world.Grid, _ int64) (Agent, error) {
		return &fakeAgent{life: 1000}, nil
	})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, 5, r.Ticks)
		assert.Equal(t, "tick-cap", r.Reason)
	}
}

func TestPopulationRunSurfacesInvariantViolation(t *testing.T) {
	sm := NewStateManager()
	pm := NewPopulationManager(testGrid(t), sm, 0, 0)
	results, err := pm.Run(context.Background(), 4, func(_ *world.Grid, seed int64) (Agent, error) {
		return &fakeAgent{life: 3, violate: seed == 2}, nil
	})
	require.ErrorIs(t, err, types.ErrInvariantViolation)
	assert.Contains(t, err.Error(), "seed 2")
	assert.Len(t, results, 3)
	assert.Len(t, sm.History(), 3)
}

func TestPopulationRunFactoryError(t *testing.T) {
	pm := NewPopulationManager(testGrid(t), NewStateManager(), 0, 0)
	_, err := pm.Run(context.Background(), 1, func(_ *world.Grid, _ int64) (Agent, error) {
		return nil, fmt.Errorf("boom")
	})
	assert.ErrorContains(t, err, "boom")
}

func TestPopulationRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pm := NewPopulationManager(testGrid(t), NewStateManager(), 0, 0)
	results, err := pm.Run(ctx, 100, func(_ *world.Grid, _ int64) (Agent, error) {
		return &fakeAgent{life: 1 << 30}, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.Equal(t, "cancelled", r.Reason)
	}
}

func TestPopulationRunZeroTrials(t *testing.T) {
	pm := NewPopulationManager(testGrid(t), NewStateManager(), 0, 0)
	results, err := pm.Run(context.Background(), 0, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
