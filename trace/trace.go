// Package trace records what the flip engine does frame by frame on a
// simulated clock and exports it as YAML for offline inspection.
package trace

import (
	"io"
	"os"
	"time"

	"cardflip/flip"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Trace is one recorded session of consecutive flips
type Trace struct {
	ID        string    `yaml:"id"`
	CreatedAt time.Time `yaml:"created_at"`
	FPS       int       `yaml:"fps"`
	Physics   bool      `yaml:"physics"`
	Seed      uint64    `yaml:"seed,omitempty"`
	Flips     []Flip    `yaml:"flips"`
}

// Flip is the recording of a single flip from trigger to settle
type Flip struct {
	Index       int     `yaml:"index"`
	ToBack      bool    `yaml:"to_back"`
	DurationMS  float64 `yaml:"duration_ms"`
	Direction   string  `yaml:"direction"`
	RandomTilt  float64 `yaml:"random_tilt"`
	BounceCount int     `yaml:"bounce_count"`
	BounceDecay float64 `yaml:"bounce_decay"`
	Frames      []Frame `yaml:"frames"`
}

// Frame is one sampled engine state. The last frame of a flip is its
// resting state.
type Frame struct {
	TimeMS          float64 `yaml:"time_ms"`
	Progress        float64 `yaml:"progress"`
	RotationY       float64 `yaml:"rotation_y"`
	RotationX       float64 `yaml:"rotation_x"`
	RotationZ       float64 `yaml:"rotation_z"`
	Scale           float64 `yaml:"scale"`
	ShadowIntensity float64 `yaml:"shadow_intensity"`
	ZOffset         float64 `yaml:"z_offset"`
	ShowingFront    bool    `yaml:"showing_front"`
	Settled         bool    `yaml:"settled,omitempty"`
}

func newFlip(index int, toBack bool, cfg flip.Config) Flip {
	return Flip{
		Index:       index,
		ToBack:      toBack,
		DurationMS:  milliseconds(cfg.Duration),
		Direction:   cfg.Direction.String(),
		RandomTilt:  cfg.RandomTilt,
		BounceCount: cfg.BounceCount,
		BounceDecay: cfg.BounceDecay,
	}
}

func newFrame(at time.Duration, s flip.State) Frame {
	return Frame{
		TimeMS:          milliseconds(at),
		Progress:        s.Progress,
		RotationY:       s.RotationY,
		RotationX:       s.RotationX,
		RotationZ:       s.RotationZ,
		Scale:           s.Scale,
		ShadowIntensity: s.ShadowIntensity,
		ZOffset:         s.ZOffset,
		ShowingFront:    s.ShowingFront,
		Settled:         !s.IsFlipping,
	}
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// FrameCount returns the number of frames across all flips
func (t *Trace) FrameCount() int {
	n := 0
	for _, f := range t.Flips {
		n += len(f.Frames)
	}
	return n
}

// Encode writes t as YAML
func Encode(w io.Writer, t *Trace) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return errors.Wrap(err, "encode trace")
	}
	return errors.Wrap(enc.Close(), "flush trace")
}

// Decode reads a YAML trace
func Decode(r io.Reader) (*Trace, error) {
	var t Trace
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(err, "decode trace")
	}
	return &t, nil
}

// WriteFile writes t to path, or to stdout when path is "-" or empty
func WriteFile(path string, t *Trace) error {
	if path == "" || path == "-" {
		return Encode(os.Stdout, t)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create trace file %s", path)
	}
	if err := Encode(f, t); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close trace file %s", path)
}

// ReadFile loads a trace written by WriteFile
func ReadFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open trace file %s", path)
	}
	defer f.Close()
	return Decode(f)
}
