package reinforcement

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"treasurehunt/environment"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OuterConfig is the kind/def envelope of a config file.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// TRAINING_KIND is the only kind FromYaml accepts.
const TRAINING_KIND = "treasurehunt/training"

// TrainingConfig holds the learning hyperparameters, the stopping criteria and the
// environment that workers train against. Its yaml keys are lowercase because viper folds
// the case of every key it reads.
type TrainingConfig struct {
	// HyperParams is a key-val list of param names and their value: alpha, gamma, epsilon.
	HyperParams []HyperParameter `yaml:"hyperparams"`
	// TrainingDeadline holds a "duration" after which training is cancelled.
	TrainingDeadline map[string]string `yaml:"trainingdeadline"`
	// Episodes caps the number of processed episodes; zero means until the deadline.
	Episodes int `yaml:"episodes"`
	// Seed is the base seed; worker i seeds its environment with Seed+i.
	Seed uint64 `yaml:"seed"`
	// Window is the moving average window of the training summary.
	Window int `yaml:"window"`
	// Environment is the board and episode configuration.
	Environment environment.Config `yaml:"environment"`
}

type HyperParameter struct {
	Key string  `yaml:"key"`
	Val float64 `yaml:"val"`
}

const DEFAULT_WINDOW = 100

// DefaultTrainingConfig trains for 10000 episodes on the default environment.
func DefaultTrainingConfig() *TrainingConfig {
	return &TrainingConfig{
		Episodes:    10000,
		Seed:        1,
		Window:      DEFAULT_WINDOW,
		Environment: environment.DefaultConfig(),
	}
}

func (cfg *TrainingConfig) GetHyperParamOrDefault(param string, defaultVal float64) float64 {
	for _, kvp := range cfg.HyperParams {
		if kvp.Key == param {
			return kvp.Val
		}
	}
	return defaultVal
}

// WithTrainingDeadline returns a context extended by the training deadline, if one is specified.
func (cfg *TrainingConfig) WithTrainingDeadline(
	ctx context.Context,
) (context.Context, context.CancelFunc, error) {
	if val, ok := cfg.TrainingDeadline["duration"]; ok {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return nil, nil, fmt.Errorf("training deadline: %w", err)
		}
		innerCtx, cancel := context.WithTimeout(ctx, duration)
		return innerCtx, cancel, nil
	}
	defaultCtx, cancel := context.WithCancel(ctx)
	return defaultCtx, cancel, nil
}

// Validate checks the hyperparameter ranges and the environment config.
func (cfg *TrainingConfig) Validate() error {
	for _, hp := range []struct {
		key      string
		min, max float64
	}{
		{"alpha", 0, 1},
		{"gamma", 0, 1},
		{"epsilon", 0, 1},
	} {
		if val := cfg.GetHyperParamOrDefault(hp.key, hp.min); val < hp.min || val > hp.max {
			return fmt.Errorf("hyperparameter %s=%v outside [%v,%v]", hp.key, val, hp.min, hp.max)
		}
	}
	if cfg.Episodes < 0 {
		return fmt.Errorf("episodes must not be negative: %d", cfg.Episodes)
	}
	return cfg.Environment.Validate()
}

// FromYaml reads a kind/def training config. Viper reads the envelope, then the def
// payload is re-encoded and decoded over the defaults, so omitted fields keep their
// default values.
func FromYaml(path string) (*TrainingConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outerConfig := &OuterConfig{}
	if err = vp.Unmarshal(outerConfig); err != nil {
		return nil, err
	}
	if outerConfig.Kind != TRAINING_KIND {
		return nil, fmt.Errorf("%s: unsupported config kind %q", path, outerConfig.Kind)
	}

	var def []byte
	if def, err = yaml.Marshal(outerConfig.Def); err != nil {
		return nil, err
	}

	innerConfig := DefaultTrainingConfig()
	if err = yaml.Unmarshal(def, innerConfig); err != nil {
		return nil, err
	}
	if err = innerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return innerConfig, nil
}
