package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithNoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 250.0, cfg.Autopilot.TargetSpeed)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadComputesBearingWhenTargetHeadingZero(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	// The registered default target heading is 0, which must trigger the
	// great-circle-bearing-from-SFO fallback rather than staying 0.
	assert.NotEqual(t, 0.0, cfg.Autopilot.TargetHeading)
	assert.GreaterOrEqual(t, cfg.Autopilot.TargetHeading, 0.0)
	assert.Less(t, cfg.Autopilot.TargetHeading, 360.0)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	contents := `{"autopilot": {"target_speed": 300.0, "target_heading": 45.0}, "log_level": "debug"}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300.0, cfg.Autopilot.TargetSpeed)
	assert.Equal(t, 45.0, cfg.Autopilot.TargetHeading)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
}
