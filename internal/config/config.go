package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mazelab/internal/script"
)

const (
	DefaultMaze         = "classic"
	DefaultDataDir      = ".mazelab"
	DefaultSpeedMin     = 3
	DefaultSpeedMax     = 300
	DefaultSpeed        = 50
	DefaultTimeoutSecs  = 10.0
	DefaultMaxActions   = script.DefaultMaxActions
	DefaultMaxLoopIters = script.DefaultMaxLoopIters
)

type Config struct {
	Maze    string       `yaml:"maze"`
	DataDir string       `yaml:"data_dir"`
	Speed   SpeedConfig  `yaml:"speed"`
	Budget  BudgetConfig `yaml:"budget"`
}

// SpeedConfig declares the speed range exposed to the user; higher values
// animate faster.
type SpeedConfig struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Default int `yaml:"default"`
}

type BudgetConfig struct {
	MaxActions   int     `yaml:"max_actions"`
	MaxLoopIters int     `yaml:"max_loop_iters"`
	TimeoutSecs  float64 `yaml:"timeout_seconds"`
}

func DefaultConfig() *Config {
	return &Config{
		Maze:    DefaultMaze,
		DataDir: DefaultDataDir,
		Speed: SpeedConfig{
			Min:     DefaultSpeedMin,
			Max:     DefaultSpeedMax,
			Default: DefaultSpeed,
		},
		Budget: BudgetConfig{
			MaxActions:   DefaultMaxActions,
			MaxLoopIters: DefaultMaxLoopIters,
			TimeoutSecs:  DefaultTimeoutSecs,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Limits maps the budget section onto execution limits.
func (c *Config) Limits() script.Limits {
	return script.Limits{
		MaxActions:   c.Budget.MaxActions,
		MaxLoopIters: c.Budget.MaxLoopIters,
	}
}

// Timeout returns the wall-clock budget for one program execution.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Budget.TimeoutSecs * float64(time.Second))
}
