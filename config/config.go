// Package config loads the settings of the cardflip hosts. The flip engine
// itself only takes the physics flag; everything else here configures the
// viewers around it.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. CARDFLIP_PHYSICS_ENABLED
const EnvPrefix = "CARDFLIP"

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the entire application configuration
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Physics PhysicsConfig `mapstructure:"physics" yaml:"physics"`
	Gesture GestureConfig `mapstructure:"gesture" yaml:"gesture"`
	Pointer PointerConfig `mapstructure:"pointer" yaml:"pointer"`
	Window  WindowConfig  `mapstructure:"window" yaml:"window"`
	Trace   TraceConfig   `mapstructure:"trace" yaml:"trace"`
	Monitor MonitorConfig `mapstructure:"monitor" yaml:"monitor"`
}

// LoggerConfig configures the zap logger
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color of each log level
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// PhysicsConfig holds the engine tunable. Seed 0 draws a random seed.
type PhysicsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Seed    uint64 `mapstructure:"seed" yaml:"seed"`
}

// GestureConfig tunes click disambiguation and drag detection
type GestureConfig struct {
	ClickDelay   time.Duration `mapstructure:"click_delay" yaml:"click_delay"`
	DragDeadZone float64       `mapstructure:"drag_dead_zone" yaml:"drag_dead_zone"`
}

// PointerConfig tunes the ambient pointer tilt
type PointerConfig struct {
	MaxTilt             float64 `mapstructure:"max_tilt" yaml:"max_tilt"`
	InteractiveLighting bool    `mapstructure:"interactive_lighting" yaml:"interactive_lighting"`
	SpringFrequency     float64 `mapstructure:"spring_frequency" yaml:"spring_frequency"`
	SpringDamping       float64 `mapstructure:"spring_damping" yaml:"spring_damping"`
}

// WindowConfig sizes the desktop viewer and selects the card faces.
// Empty face paths use the embedded artwork.
type WindowConfig struct {
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	CardWidth  int    `mapstructure:"card_width" yaml:"card_width"`
	CardHeight int    `mapstructure:"card_height" yaml:"card_height"`
	FrontFace  string `mapstructure:"front_face" yaml:"front_face"`
	BackFace   string `mapstructure:"back_face" yaml:"back_face"`
}

// TraceConfig drives the headless trace recorder
type TraceConfig struct {
	FPS    int    `mapstructure:"fps" yaml:"fps"`
	Flips  int    `mapstructure:"flips" yaml:"flips"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MonitorConfig controls frame-rate monitoring in the desktop viewer
type MonitorConfig struct {
	MinFPS     float64       `mapstructure:"min_fps" yaml:"min_fps"`
	ProfileDir string        `mapstructure:"profile_dir" yaml:"profile_dir"`
	Cooldown   time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "cardflip")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("physics.enabled", true)
	v.SetDefault("physics.seed", 0)

	v.SetDefault("gesture.click_delay", "250ms")
	v.SetDefault("gesture.drag_dead_zone", 4.0)

	v.SetDefault("pointer.max_tilt", 10.0)
	v.SetDefault("pointer.interactive_lighting", true)
	v.SetDefault("pointer.spring_frequency", 6.0)
	v.SetDefault("pointer.spring_damping", 0.7)

	v.SetDefault("window.width", 1024)
	v.SetDefault("window.height", 768)
	v.SetDefault("window.card_width", 250)
	v.SetDefault("window.card_height", 350)
	v.SetDefault("window.front_face", "")
	v.SetDefault("window.back_face", "")

	v.SetDefault("trace.fps", 60)
	v.SetDefault("trace.flips", 2)
	v.SetDefault("trace.output", "-")

	v.SetDefault("monitor.min_fps", 45.0)
	v.SetDefault("monitor.profile_dir", "profiles")
	v.SetDefault("monitor.cooldown", "10s")
}

// NewViper returns a viper instance with defaults and environment
// overrides registered
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and unmarshals v into a Config
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied
func Default() (*Config, error) {
	return Load(NewViper(), "")
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch {
	case c.Gesture.ClickDelay <= 0:
		return errors.Wrapf(ErrInvalidConfig, "gesture.click_delay must be positive, got %s", c.Gesture.ClickDelay)
	case c.Gesture.DragDeadZone < 0:
		return errors.Wrapf(ErrInvalidConfig, "gesture.drag_dead_zone must not be negative, got %v", c.Gesture.DragDeadZone)
	case c.Pointer.MaxTilt < 0 || c.Pointer.MaxTilt > 45:
		return errors.Wrapf(ErrInvalidConfig, "pointer.max_tilt must be within [0, 45], got %v", c.Pointer.MaxTilt)
	case c.Pointer.SpringFrequency <= 0:
		return errors.Wrapf(ErrInvalidConfig, "pointer.spring_frequency must be positive, got %v", c.Pointer.SpringFrequency)
	case c.Pointer.SpringDamping < 0:
		return errors.Wrapf(ErrInvalidConfig, "pointer.spring_damping must not be negative, got %v", c.Pointer.SpringDamping)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Wrapf(ErrInvalidConfig, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.CardWidth <= 0 || c.Window.CardHeight <= 0:
		return errors.Wrapf(ErrInvalidConfig, "card size must be positive, got %dx%d", c.Window.CardWidth, c.Window.CardHeight)
	case c.Trace.FPS <= 0:
		return errors.Wrapf(ErrInvalidConfig, "trace.fps must be positive, got %d", c.Trace.FPS)
	case c.Trace.Flips < 0:
		return errors.Wrapf(ErrInvalidConfig, "trace.flips must not be negative, got %d", c.Trace.Flips)
	}
	return nil
}
