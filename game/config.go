package game

import (
	"time"

	"cardflip/card"
	"cardflip/config"
)

// Config holds viewer configuration
type Config struct {
	// ScreenWidth is the window width in pixels
	ScreenWidth int

	// ScreenHeight is the window height in pixels
	ScreenHeight int

	// Card holds the card tunables
	Card card.Settings

	// FrontFace and BackFace are optional SVG paths overriding the embedded art
	FrontFace string
	BackFace  string

	// MinFPS is the frame rate below which a profile is captured. 0 disables capture.
	MinFPS float64

	// ProfileDir receives CPU profiles and execution traces
	ProfileDir string

	// ProfileCooldown is the minimum time between two captures
	ProfileCooldown time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		ScreenWidth:     1024,
		ScreenHeight:    768,
		Card:            card.DefaultSettings(),
		MinFPS:          45,
		ProfileDir:      "profiles",
		ProfileCooldown: 10 * time.Second,
	}
}

// ConfigFrom maps loaded settings onto a viewer config
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.ScreenWidth = cfg.Window.Width
	c.ScreenHeight = cfg.Window.Height
	c.FrontFace = cfg.Window.FrontFace
	c.BackFace = cfg.Window.BackFace
	c.MinFPS = cfg.Monitor.MinFPS
	c.ProfileDir = cfg.Monitor.ProfileDir
	c.ProfileCooldown = cfg.Monitor.Cooldown

	c.Card = card.SettingsFrom(cfg)
	return c
}
