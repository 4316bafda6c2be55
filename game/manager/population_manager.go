package manager

import (
	"context"
	"log"
	"runtime"
	"sync"

	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/pkg/errors"
)

// NumWorkers bounds how many trials run at once.
var NumWorkers = runtime.NumCPU()

// Agent is one independently planning body.
type Agent interface {
	ID() string
	Advance() (types.TickOutcome, error)
	Body() []types.Point
	Score() int
	Ticks() int
	Done() bool
	Err() error
}

// AgentFactory builds the agent for one trial. Every agent gets the same grid
// and must keep its own planner.
type AgentFactory func(grid *world.Grid, seed int64) (Agent, error)

// PopulationManager runs independent trials over one shared grid and records
// the results in a StateManager.
type PopulationManager struct {
	grid     *world.Grid
	stateMgr *StateManager
	baseSeed int64
	maxTicks int
}

// NewPopulationManager gives trial i the seed baseSeed+i. A non-positive
// maxTicks means no cap.
func NewPopulationManager(grid *world.Grid, stateMgr *StateManager, baseSeed int64, maxTicks int) *PopulationManager {
	return &PopulationManager{
		grid:     grid,
		stateMgr: stateMgr,
		baseSeed: baseSeed,
		maxTicks: maxTicks,
	}
}

type trialOutcome struct {
	result RunResult
	err    error
}

// Run plays trials agents to completion on NumWorkers goroutines. Results are
// returned in trial order. An invariant violation in any trial is returned as
// the error; the other trials still finish. When ctx is cancelled the trials
// in flight stop and ctx.Err() is returned with the results gathered so far.
func (pm *PopulationManager) Run(ctx context.Context, trials int, newAgent AgentFactory) ([]RunResult, error) {
	if trials <= 0 {
		return []RunResult{}, nil
	}

	jobs := make(chan int)
	outcomes := make([]trialOutcome, trials)
	done := make([]bool, trials)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	workers := NumWorkers
	if workers > trials {
		workers = trials
	}
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out := pm.runTrial(ctx, pm.baseSeed+int64(i), newAgent)
				mu.Lock()
				outcomes[i] = out
				done[i] = true
				mu.Unlock()
			}
		}()
	}

feed:
	for i := 0; i < trials; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	results := make([]RunResult, 0, trials)
	var firstErr error
	for i, out := range outcomes {
		if !done[i] {
			continue
		}
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}
			continue
		}
		results = append(results, out.result)
	}
	if firstErr != nil {
		return results, firstErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (pm *PopulationManager) runTrial(ctx context.Context, seed int64, newAgent AgentFactory) trialOutcome {
	agent, err := newAgent(pm.grid, seed)
	if err != nil {
		return trialOutcome{err: errors.Wrapf(err, "trial seed %d", seed)}
	}

	reason := ""
	for !agent.Done() {
		if ctx.Err() != nil {
			reason = "cancelled"
			break
		}
		if pm.maxTicks > 0 && agent.Ticks() >= pm.maxTicks {
			reason = "tick-cap"
			break
		}
		outcome, err := agent.Advance()
		if outcome == types.InvariantViolation {
			log.Printf("trial %s seed %d: %+v", agent.ID(), seed, err)
			return trialOutcome{err: errors.Wrapf(err, "trial %s seed %d", agent.ID(), seed)}
		}
	}
	if reason == "" && agent.Err() != nil {
		reason = agent.Err().Error()
	}

	r := RunResult{
		ID:     agent.ID(),
		Seed:   seed,
		Score:  agent.Score(),
		Length: len(agent.Body()),
		Ticks:  agent.Ticks(),
		Reason: reason,
	}
	pm.stateMgr.RecordRun(r)
	log.Printf("trial %s seed %d finished: score=%d length=%d ticks=%d reason=%q", r.ID, seed, r.Score, r.Length, r.Ticks, r.Reason)
	return trialOutcome{result: r}
}
