package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"time"

	"snake-astar/game/types"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the engine configuration. Every field can come from a YAML file
// or a flag; flags given on the command line win.
type Config struct {
	Rows                int   `yaml:"rows"`
	Cols                int   `yaml:"cols"`
	ObstacleProbability int   `yaml:"obstacle_probability"`
	TickRate            int   `yaml:"tick_rate"`
	Seed                int64 `yaml:"seed"` // 0 derives a seed from the clock
}

func DefaultConfig() Config {
	return Config{
		Rows:                types.DefaultRows,
		Cols:                types.DefaultCols,
		ObstacleProbability: types.DefaultObstacleProbability,
		TickRate:            types.DefaultTickRate,
	}
}

func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return errors.Errorf("grid must be at least 1x1, got %dx%d", c.Rows, c.Cols)
	}
	if c.ObstacleProbability < 0 || c.ObstacleProbability > 100 {
		return errors.Errorf("obstacle_probability must be 0-100, got %d", c.ObstacleProbability)
	}
	if c.TickRate <= 0 {
		return errors.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	return nil
}

// TickInterval is the viewer's time between Advance calls.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// ResolveSeed returns c with a clock-derived seed when Seed is 0.
func (c Config) ResolveSeed(now time.Time) Config {
	if c.Seed == 0 {
		c.Seed = now.UnixNano()
	}
	return c
}

// LoadConfig reads a YAML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// Options selects how the driver runs. None of it reaches the engine.
type Options struct {
	ConfigPath string
	Headless   bool
	Trials     int
	Debug      bool
}

// parseFlags builds the config from defaults, then the -config file, then the
// flags that were set explicitly.
func parseFlags(args []string, stderr io.Writer) (Config, Options, error) {
	fs := flag.NewFlagSet("snake-astar", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := DefaultConfig()
	var (
		flagCfg Config
		opts    Options
	)
	fs.IntVar(&flagCfg.Rows, "rows", def.Rows, "grid rows (x extent)")
	fs.IntVar(&flagCfg.Cols, "cols", def.Cols, "grid columns (y extent)")
	fs.IntVar(&flagCfg.ObstacleProbability, "obstacle-probability", def.ObstacleProbability, "obstacle probability in percent")
	fs.IntVar(&flagCfg.TickRate, "tick-rate", def.TickRate, "viewer ticks per second")
	fs.Int64Var(&flagCfg.Seed, "seed", def.Seed, "random seed, 0 derives one from the clock")
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	fs.BoolVar(&opts.Headless, "headless", false, "run without a window")
	fs.IntVar(&opts.Trials, "trials", 0, "run N independent headless trials and print the results")
	fs.BoolVar(&opts.Debug, "debug", false, "write logs to logs/")

	if err := fs.Parse(args); err != nil {
		return Config{}, Options{}, err
	}
	if opts.Trials < 0 {
		return Config{}, Options{}, errors.Errorf("trials must not be negative, got %d", opts.Trials)
	}

	cfg := def
	if opts.ConfigPath != "" {
		fileCfg, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return Config{}, Options{}, err
		}
		cfg = fileCfg
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			cfg.Rows = flagCfg.Rows
		case "cols":
			cfg.Cols = flagCfg.Cols
		case "obstacle-probability":
			cfg.ObstacleProbability = flagCfg.ObstacleProbability
		case "tick-rate":
			cfg.TickRate = flagCfg.TickRate
		case "seed":
			cfg.Seed = flagCfg.Seed
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, Options{}, errors.Wrap(err, "invalid config")
	}
	return cfg, opts, nil
}
