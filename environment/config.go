package environment

import "treasurehunt/board"

// Config describes the boards an environment generates and its step budget.
// Every reset draws a jump count uniformly from [MinJumps, MaxJumps] and a wall density
// uniformly from [MinDensity, MaxDensity); equal bounds fix the value.
type Config struct {
	Size       int     `mapstructure:"size" yaml:"size"`
	MaxSteps   int     `mapstructure:"maxSteps" yaml:"maxsteps"`
	MinJumps   int     `mapstructure:"minJumps" yaml:"minjumps"`
	MaxJumps   int     `mapstructure:"maxJumps" yaml:"maxjumps"`
	MinDensity float64 `mapstructure:"minDensity" yaml:"mindensity"`
	MaxDensity float64 `mapstructure:"maxDensity" yaml:"maxdensity"`
}

const (
	DEFAULT_SIZE      = 8
	DEFAULT_MAX_STEPS = 200
)

// DefaultConfig is an 8×8 board, 200 steps, 0-3 jumps and 0.5-0.8 wall density.
func DefaultConfig() Config {
	return Config{
		Size:       DEFAULT_SIZE,
		MaxSteps:   DEFAULT_MAX_STEPS,
		MinJumps:   0,
		MaxJumps:   3,
		MinDensity: 0.5,
		MaxDensity: 0.8,
	}
}

// FixedConfig returns a config whose boards always use the given jump count and density,
// as the human front ends do.
func FixedConfig(size, jumps int, density float64) Config {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.MinJumps, cfg.MaxJumps = jumps, jumps
	cfg.MinDensity, cfg.MaxDensity = density, density
	return cfg
}

// Validate reports the first invalid field as a *board.ConfigurationError.
func (cfg Config) Validate() error {
	fail := func(param string, value interface{}, reason string) error {
		return &board.ConfigurationError{Param: param, Value: value, Reason: reason}
	}
	switch {
	case cfg.Size < board.MinSize:
		return fail("size", cfg.Size, "must be at least 5")
	case cfg.MaxSteps < 1:
		return fail("max steps", cfg.MaxSteps, "must be positive")
	case cfg.MinJumps < 0:
		return fail("jump count", cfg.MinJumps, "must not be negative")
	case cfg.MaxJumps < cfg.MinJumps:
		return fail("jump range", [2]int{cfg.MinJumps, cfg.MaxJumps}, "max below min")
	case cfg.MinDensity < 0 || cfg.MaxDensity >= 1:
		return fail("wall density", [2]float64{cfg.MinDensity, cfg.MaxDensity}, "must be in [0,1)")
	case cfg.MaxDensity < cfg.MinDensity:
		return fail("wall density range", [2]float64{cfg.MinDensity, cfg.MaxDensity}, "max below min")
	}
	return nil
}
