// Package config loads karma settings from flags, the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. KARMA_LAP_COUNT.
const EnvPrefix = "KARMA"

// Valid ranges.
const (
	MaxPlayerCount = 250
	MinTimeout     = time.Second
	MaxTimeout     = 30 * time.Second
	MinTolerance   = 0.1
	MaxTolerance   = 5.0
	MaxWorkers     = 64
)

// Config holds every setting.
type Config struct {
	LapCount      int           `mapstructure:"lap_count"`
	PlayerCount   int           `mapstructure:"player_count"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Tolerance     float64       `mapstructure:"tolerance"`
	Workers       int           `mapstructure:"workers"`
	GateDelay     time.Duration `mapstructure:"gate_delay"`
	GateAttempts  int           `mapstructure:"gate_attempts"`
	WidthBuffer   int           `mapstructure:"width_buffer"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	MetricsAddr   string        `mapstructure:"metrics_addr"`
	LogFile       string        `mapstructure:"log_file"`
	CarsFile      string        `mapstructure:"cars_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LapCount:      25,
		PlayerCount:   32,
		Timeout:       5 * time.Second,
		Tolerance:     0.5,
		Workers:       4,
		GateDelay:     50 * time.Millisecond,
		GateAttempts:  20,
		WidthBuffer:   6,
		FrameInterval: 16 * time.Millisecond,
		LogFile:       "karma.log",
	}
}

// SetDefaults registers Default() on v so environment variables and config
// keys are recognized.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("lap_count", d.LapCount)
	v.SetDefault("player_count", d.PlayerCount)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("gate_delay", d.GateDelay)
	v.SetDefault("gate_attempts", d.GateAttempts)
	v.SetDefault("width_buffer", d.WidthBuffer)
	v.SetDefault("frame_interval", d.FrameInterval)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("cars_file", d.CarsFile)
}

// Load reads configuration into a Config. An explicit path must exist;
// otherwise $HOME/.karma.yaml is used when present. Flags bound to v before
// the call take precedence over file and environment.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".karma")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings. carCount bounds the lap count: a run cannot
// use more cars than the list holds.
func (c Config) Validate(carCount int) error {
	var errs []error
	if c.LapCount < 1 || c.LapCount > carCount {
		errs = append(errs, fmt.Errorf("lap_count %d outside [1, %d]", c.LapCount, carCount))
	}
	if c.PlayerCount < 0 || c.PlayerCount > MaxPlayerCount {
		errs = append(errs, fmt.Errorf("player_count %d outside [0, %d]", c.PlayerCount, MaxPlayerCount))
	}
	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		errs = append(errs, fmt.Errorf("timeout %v outside [%v, %v]", c.Timeout, MinTimeout, MaxTimeout))
	}
	if c.Tolerance < MinTolerance || c.Tolerance > MaxTolerance {
		errs = append(errs, fmt.Errorf("tolerance %g outside [%g, %g]", c.Tolerance, MinTolerance, MaxTolerance))
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("workers %d outside [1, %d]", c.Workers, MaxWorkers))
	}
	if c.GateDelay <= 0 {
		errs = append(errs, fmt.Errorf("gate_delay must be positive, got %v", c.GateDelay))
	}
	if c.GateAttempts < 1 {
		errs = append(errs, fmt.Errorf("gate_attempts must be at least 1, got %d", c.GateAttempts))
	}
	if c.WidthBuffer < 0 {
		errs = append(errs, fmt.Errorf("width_buffer must not be negative, got %d", c.WidthBuffer))
	}
	if c.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval))
	}
	return errors.Join(errs...)
}
