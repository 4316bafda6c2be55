package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"snake-astar/game"
	"snake-astar/game/manager"
	"snake-astar/game/types"
	"snake-astar/game/world"
	"snake-astar/ui"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

// ticksPerCell bounds a headless run at ticksPerCell*Rows*Cols ticks.
const ticksPerCell = 50

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if logFile := setupLogging(opts.Debug); logFile != nil {
		defer logFile.Close()
	}

	cfg = cfg.ResolveSeed(time.Now())
	log.Printf("config: %+v", cfg)
	fmt.Fprintf(stdout, "seed %d\n", cfg.Seed)

	grid, err := world.NewGrid(cfg.Rows, cfg.Cols, cfg.ObstacleProbability, cfg.Seed)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	log.Printf("grid %dx%d with %d obstacles", grid.Rows(), grid.Cols(), grid.BlockedCount())

	switch {
	case opts.Trials > 0:
		err = runTrials(grid, cfg, opts.Trials, stdout)
	case opts.Headless:
		err = runHeadless(grid, cfg, stdout)
	default:
		err = runViewer(grid, cfg)
	}
	if err != nil {
		if errors.Is(err, types.ErrInvariantViolation) {
			log.Printf("%+v", err)
			fmt.Fprintf(stderr, "%+v\n", err)
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// agentSeed keeps target placement independent of the obstacle draw.
func agentSeed(cfg Config, run int) int64 {
	return cfg.Seed + 1 + int64(run)
}

func maxTicks(grid *world.Grid) int {
	return ticksPerCell * grid.Size()
}

func runHeadless(grid *world.Grid, cfg Config, stdout io.Writer) error {
	seed := agentSeed(cfg, 0)
	c, err := game.NewController(grid, rand.New(rand.NewSource(uint64(seed))))
	if err != nil {
		return err
	}

	limit := maxTicks(grid)
	for !c.Done() && c.Ticks() < limit {
		outcome, err := c.Advance()
		if outcome == types.InvariantViolation {
			return err
		}
	}

	reason := "tick-cap"
	if c.Err() != nil {
		reason = c.Err().Error()
	}
	fmt.Fprintf(stdout, "score %d, length %d, ticks %d (%s)\n", c.Score(), len(c.Body()), c.Ticks(), reason)
	return nil
}

func runTrials(grid *world.Grid, cfg Config, trials int, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stateMgr := manager.NewStateManager()
	popMgr := manager.NewPopulationManager(grid, stateMgr, agentSeed(cfg, 0), maxTicks(grid))
	results, err := popMgr.Run(ctx, trials, game.NewAgent)

	report := struct {
		Seed      int64               `yaml:"seed"`
		HighScore int                 `yaml:"high_score"`
		Runs      []manager.RunResult `yaml:"runs"`
	}{
		Seed:      cfg.Seed,
		HighScore: stateMgr.HighScore(),
		Runs:      results,
	}
	enc := yaml.NewEncoder(stdout)
	if encErr := enc.Encode(report); encErr != nil {
		return errors.Wrap(encErr, "write results")
	}
	if closeErr := enc.Close(); closeErr != nil {
		return errors.Wrap(closeErr, "write results")
	}
	return err
}

func runViewer(grid *world.Grid, cfg Config) error {
	rl.InitWindow(1280, 800, "Snake A*")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	stateMgr := manager.NewStateManager()
	renderer := ui.NewRenderer()

	runs := 0
	newController := func() (*game.Controller, error) {
		seed := agentSeed(cfg, runs)
		runs++
		return game.NewController(grid, rand.New(rand.NewSource(uint64(seed))))
	}
	c, err := newController()
	if err != nil {
		return err
	}

	updateInterval := cfg.TickInterval()
	lastUpdate := time.Now()

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		if rl.IsWindowResized() {
			renderer.UpdateDimensions()
		}

		if time.Since(lastUpdate) >= updateInterval {
			lastUpdate = time.Now()
			if c.Done() {
				stateMgr.RecordRun(manager.RunResult{
					ID:     c.ID(),
					Seed:   agentSeed(cfg, runs-1),
					Score:  c.Score(),
					Length: len(c.Body()),
					Ticks:  c.Ticks(),
					Reason: c.Err().Error(),
				})
				if c, err = newController(); err != nil {
					return err
				}
			} else if outcome, err := c.Advance(); outcome == types.InvariantViolation {
				return err
			}
		}

		renderer.Draw(c, stateMgr, cfg.Seed)
	}
	return nil
}
