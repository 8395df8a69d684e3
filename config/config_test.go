package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.True(t, cfg.Physics.Enabled)
	assert.Zero(t, cfg.Physics.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Gesture.ClickDelay)
	assert.Equal(t, 4.0, cfg.Gesture.DragDeadZone)
	assert.Equal(t, 10.0, cfg.Pointer.MaxTilt)
	assert.True(t, cfg.Pointer.InteractiveLighting)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 60, cfg.Trace.FPS)
	assert.Equal(t, "-", cfg.Trace.Output)
	assert.Equal(t, 10*time.Second, cfg.Monitor.Cooldown)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "green", cfg.Logger.Colors.Info)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CARDFLIP_PHYSICS_ENABLED", "false")
	t.Setenv("CARDFLIP_PHYSICS_SEED", "42")
	t.Setenv("CARDFLIP_GESTURE_CLICK_DELAY", "400ms")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.False(t, cfg.Physics.Enabled)
	assert.Equal(t, uint64(42), cfg.Physics.Seed)
	assert.Equal(t, 400*time.Millisecond, cfg.Gesture.ClickDelay)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardflip.yaml")
	content := `
physics:
  enabled: false
pointer:
  max_tilt: 6
  interactive_lighting: false
window:
  front_face: faces/ace.svg
trace:
  fps: 30
  flips: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.False(t, cfg.Physics.Enabled)
	assert.Equal(t, 6.0, cfg.Pointer.MaxTilt)
	assert.False(t, cfg.Pointer.InteractiveLighting)
	assert.Equal(t, "faces/ace.svg", cfg.Window.FrontFace)
	assert.Equal(t, 30, cfg.Trace.FPS)
	assert.Equal(t, 5, cfg.Trace.Flips)
	// Untouched keys keep their defaults
	assert.Equal(t, 250*time.Millisecond, cfg.Gesture.ClickDelay)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"click delay", func(c *Config) { c.Gesture.ClickDelay = 0 }},
		{"dead zone", func(c *Config) { c.Gesture.DragDeadZone = -1 }},
		{"max tilt", func(c *Config) { c.Pointer.MaxTilt = 90 }},
		{"spring frequency", func(c *Config) { c.Pointer.SpringFrequency = 0 }},
		{"spring damping", func(c *Config) { c.Pointer.SpringDamping = -0.1 }},
		{"window", func(c *Config) { c.Window.Width = 0 }},
		{"card", func(c *Config) { c.Window.CardHeight = -5 }},
		{"trace fps", func(c *Config) { c.Trace.FPS = 0 }},
		{"trace flips", func(c *Config) { c.Trace.Flips = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg, err := Default()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestInvalidEnvironmentIsRejected(t *testing.T) {
	t.Setenv("CARDFLIP_TRACE_FPS", "0")
	_, err := Load(NewViper(), "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
