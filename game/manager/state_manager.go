package manager

import (
	"sync"
)

// RunResult is the outcome of one agent run.
type RunResult struct {
	ID     string `yaml:"id"`
	Seed   int64  `yaml:"seed"`
	Score  int    `yaml:"score"`
	Length int    `yaml:"length"`
	Ticks  int    `yaml:"ticks"`
	Reason string `yaml:"reason"`
}

// StateManager keeps the high score and every recorded run in memory. Safe
// for concurrent use.
type StateManager struct {
	mu        sync.Mutex
	highScore int
	history   []RunResult
}

func NewStateManager() *StateManager {
	return &StateManager{
		history: make([]RunResult, 0),
	}
}

func (sm *StateManager) RecordRun(r RunResult) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if r.Score > sm.highScore {
		sm.highScore = r.Score
	}
	sm.history = append(sm.history, r)
}

func (sm *StateManager) HighScore() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.highScore
}

// History returns the recorded runs in recording order.
func (sm *StateManager) History() []RunResult {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make([]RunResult, len(sm.history))
	copy(out, sm.history)
	return out
}
