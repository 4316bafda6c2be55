package manager

import (
	"testing"

	"snake-astar/game/types"
	"snake-astar/game/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMove(t *testing.T) {
	g, err := world.ParseLayout(
		"....",
		".#..",
		"....",
	)
	require.NoError(t, err)
	cm := NewCollisionManager(g)

	// tail (0,0) -> (1,0) -> head (2,0)
	body := []types.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}

	tests := []struct {
		name      string
		candidate types.Point
		growing   bool
		wantErr   string
	}{
		{"free", types.Point{X: 3, Y: 0}, false, ""},
		{"wall", types.Point{X: 2, Y: -1}, false, "wall"},
		{"obstacle", types.Point{X: 1, Y: 1}, false, "obstacle"},
		{"body", types.Point{X: 1, Y: 0}, false, "self"},
		{"tail vacates", types.Point{X: 0, Y: 0}, false, ""},
		{"tail stays when growing", types.Point{X: 0, Y: 0}, true, "self"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cm.ValidateMove(tt.candidate, body, tt.growing)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, types.ErrInvariantViolation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateSpawnPosition(t *testing.T) {
	g, err := world.NewGridWithObstacles(3, 3, []types.Point{{X: 1, Y: 1}})
	require.NoError(t, err)
	cm := NewCollisionManager(g)
	body := []types.Point{{X: 0, Y: 0}, {X: 0, Y: 1}}

	assert.True(t, cm.ValidateSpawnPosition(types.Point{X: 2, Y: 2}, body))
	assert.False(t, cm.ValidateSpawnPosition(types.Point{X: 1, Y: 1}, body), "obstacle")
	assert.False(t, cm.ValidateSpawnPosition(types.Point{X: 0, Y: 0}, body), "tail")
	assert.False(t, cm.ValidateSpawnPosition(types.Point{X: 0, Y: 1}, body), "head")
	assert.False(t, cm.ValidateSpawnPosition(types.Point{X: 3, Y: 0}, body), "out of bounds")
}
