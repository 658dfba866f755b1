package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "karma.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
lap_count: 3
player_count: 8
timeout: 2s
tolerance: 1.5
gate_delay: 10ms
metrics_addr: ":9100"
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.LapCount)
	assert.Equal(t, 8, cfg.PlayerCount)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 1.5, cfg.Tolerance)
	assert.Equal(t, 10*time.Millisecond, cfg.GateDelay)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, 4, cfg.Workers, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "lap_count: 3\n")
	t.Setenv("KARMA_LAP_COUNT", "7")
	t.Setenv("KARMA_TIMEOUT", "9s")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.LapCount)
	assert.Equal(t, 9*time.Second, cfg.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "lap_count: [\n")
	_, err := Load(viper.New(), path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero players", mutate: func(c *Config) { c.PlayerCount = 0 }},
		{name: "lap count zero", mutate: func(c *Config) { c.LapCount = 0 }, wantErr: "lap_count"},
		{name: "lap count above cars", mutate: func(c *Config) { c.LapCount = 101 }, wantErr: "lap_count"},
		{name: "too many players", mutate: func(c *Config) { c.PlayerCount = 251 }, wantErr: "player_count"},
		{name: "timeout too short", mutate: func(c *Config) { c.Timeout = 500 * time.Millisecond }, wantErr: "timeout"},
		{name: "timeout too long", mutate: func(c *Config) { c.Timeout = time.Minute }, wantErr: "timeout"},
		{name: "tolerance too small", mutate: func(c *Config) { c.Tolerance = 0.05 }, wantErr: "tolerance"},
		{name: "tolerance too large", mutate: func(c *Config) { c.Tolerance = 6 }, wantErr: "tolerance"},
		{name: "no workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: "workers"},
		{name: "zero gate delay", mutate: func(c *Config) { c.GateDelay = 0 }, wantErr: "gate_delay"},
		{name: "zero gate attempts", mutate: func(c *Config) { c.GateAttempts = 0 }, wantErr: "gate_attempts"},
		{name: "negative buffer", mutate: func(c *Config) { c.WidthBuffer = -1 }, wantErr: "width_buffer"},
		{name: "zero frame interval", mutate: func(c *Config) { c.FrameInterval = 0 }, wantErr: "frame_interval"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate(100)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.LapCount = 0
	cfg.Tolerance = 0

	err := cfg.Validate(10)
	assert.ErrorContains(t, err, "lap_count")
	assert.ErrorContains(t, err, "tolerance")
}
