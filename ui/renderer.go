package ui

import (
	"fmt"

	"snake-astar/game"
	"snake-astar/game/manager"
	"snake-astar/game/types"
	"snake-astar/game/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxScores     = 200 // Maximum number of scores to show in graph
	borderPadding = 10
)

var (
	obstacleColor = rl.Color{R: 90, G: 90, B: 110, A: 255}
	planColor     = rl.Color{R: 40, G: 70, B: 40, A: 255}
	bodyColor     = rl.Color{R: 0, G: 200, B: 80, A: 255}
	headColor     = rl.Color{R: 0, G: 255, B: 110, A: 255}
)

// View is what the renderer reads from a running agent.
type View interface {
	Grid() *world.Grid
	Body() []types.Point
	Target() types.Point
	PlannedCells() []types.Point
	Score() int
	Ticks() int
	State() game.State
	Done() bool
	Err() error
}

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	graphHeight     int32
	graphWidth      int32
	gameWidth       int32
	gameHeight      int32
	statsPanel      int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	r.statsPanel = r.screenWidth / 5
	r.gameWidth = r.screenWidth - r.statsPanel
	r.gameHeight = r.screenHeight

	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5
}

// Layout sizes cells so the whole grid fits the game area.
func (r *Renderer) Layout(rows, cols int) {
	availableWidth := r.gameWidth - (borderPadding * 2)
	availableHeight := r.gameHeight - (borderPadding * 2)

	r.cellSize = max(min(availableWidth/int32(rows), availableHeight/int32(cols)), 1)

	r.totalGridWidth = r.cellSize * int32(rows)
	r.totalGridHeight = r.cellSize * int32(cols)

	r.offsetX = borderPadding
	r.offsetY = (r.screenHeight - r.totalGridHeight) / 2
}

func (r *Renderer) Draw(v View, state *manager.StateManager, seed int64) {
	r.UpdateDimensions()
	grid := v.Grid()
	r.Layout(grid.Rows(), grid.Cols())

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := min(r.screenHeight/45, r.statsPanel/15)
	lineHeight := min(r.screenHeight/35, r.statsPanel/12)

	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.DarkGray)

	for x := 0; x < grid.Rows(); x++ {
		for y := 0; y < grid.Cols(); y++ {
			p := types.Point{X: x, Y: y}
			if grid.IsBlocked(p) {
				r.fillCell(p, obstacleColor)
				continue
			}
			rl.DrawRectangleLines(r.cellX(p), r.cellY(p), r.cellSize, r.cellSize, rl.Gray)
		}
	}

	for _, p := range v.PlannedCells() {
		r.fillCell(p, planColor)
	}
	r.fillCell(v.Target(), rl.Red)

	body := v.Body()
	for j, p := range body {
		color := bodyColor
		if j == 0 && len(body) > 1 {
			color = rl.White
		} else if j == len(body)-1 {
			color = headColor
		}
		r.fillCell(p, color)
	}
	if len(body) > 1 {
		if d, ok := types.DirectionBetween(body[len(body)-2], body[len(body)-1]); ok {
			r.drawHeading(body[len(body)-1], d)
		}
	}

	if v.Done() {
		text := fmt.Sprintf("Terminated: %v (restarting)", v.Err())
		textWidth := rl.MeasureText(text, fontSize)
		rl.DrawText(text,
			r.offsetX+(r.totalGridWidth-textWidth)/2,
			r.offsetY+r.totalGridHeight/2,
			fontSize, rl.Yellow)
	}

	r.drawStatsPanel(v, state, seed, fontSize, lineHeight)
	rl.EndDrawing()
}

func (r *Renderer) cellX(p types.Point) int32 { return r.offsetX + int32(p.X)*r.cellSize }
func (r *Renderer) cellY(p types.Point) int32 { return r.offsetY + int32(p.Y)*r.cellSize }

func (r *Renderer) fillCell(p types.Point, color rl.Color) {
	rl.DrawRectangle(r.cellX(p), r.cellY(p), r.cellSize, r.cellSize, color)
}

func (r *Renderer) drawHeading(head types.Point, d types.Direction) {
	headX := r.cellX(head)
	headY := r.cellY(head)
	halfCell := r.cellSize / 2
	switch d {
	case types.Right:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Yellow)
	case types.Left:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Yellow)
	case types.Down:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Yellow)
	case types.Up:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Yellow)
	}
}

func (r *Renderer) drawStatsPanel(v View, state *manager.StateManager, seed int64, fontSize, lineHeight int32) {
	statsX := r.gameWidth + 5
	statsY := int32(10)

	rl.DrawRectangle(statsX-5, 0, r.statsPanel+5, r.screenHeight, rl.DarkGray)

	lines := []string{
		fmt.Sprintf("Score: %d", v.Score()),
		fmt.Sprintf("Length: %d", len(v.Body())),
		fmt.Sprintf("Ticks: %d", v.Ticks()),
		fmt.Sprintf("State: %s", v.State()),
		fmt.Sprintf("High: %d", state.HighScore()),
		fmt.Sprintf("Runs: %d", len(state.History())),
		fmt.Sprintf("Seed: %d", seed),
	}
	for _, line := range lines {
		rl.DrawText(line, statsX, statsY, fontSize, rl.White)
		statsY += lineHeight
	}

	r.drawScoreGraph(state, statsX, fontSize)
}

func (r *Renderer) drawScoreGraph(state *manager.StateManager, graphX, fontSize int32) {
	graphHeight := r.graphHeight
	graphY := r.screenHeight - graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, r.graphWidth, graphHeight, rl.White)
	rl.DrawText("Scores", graphX, graphY-fontSize-5, fontSize, rl.White)

	history := state.History()
	if len(history) > maxScores {
		history = history[len(history)-maxScores:]
	}
	maxScore := 1
	for _, run := range history {
		maxScore = max(maxScore, run.Score)
	}

	for j := 1; j < len(history); j++ {
		x1 := graphX + int32(float32(r.graphWidth)*float32(j-1)/float32(maxScores))
		y1 := graphY + graphHeight - int32(float32(graphHeight)*float32(history[j-1].Score)/float32(maxScore))
		x2 := graphX + int32(float32(r.graphWidth)*float32(j)/float32(maxScores))
		y2 := graphY + graphHeight - int32(float32(graphHeight)*float32(history[j].Score)/float32(maxScore))
		rl.DrawLine(x1, y1, x2, y2, bodyColor)
	}
}
