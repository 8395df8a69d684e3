package flip

import (
	"github.com/charmbracelet/harmonica"
)

// Tilt tracker defaults
const (
	DefaultMaxTilt         = 10.0 // degrees at the card edge
	DefaultSpringFrequency = 6.0
	DefaultSpringDamping   = 0.7
	DefaultTrackerFPS      = 60
)

// TiltTracker converts pointer positions into a smoothed tilt. The pointer
// pulls each axis towards its target through a damped spring,
// so the card eases into place instead of snapping to the cursor.
type TiltTracker struct {
	MaxTilt float64

	spring harmonica.Spring
	x, vx  float64
	y, vy  float64
}

// NewTiltTracker creates a tracker stepped at fps updates per second
func NewTiltTracker(maxTilt float64, fps int, frequency, damping float64) *TiltTracker {
	if fps <= 0 {
		fps = DefaultTrackerFPS
	}
	return &TiltTracker{
		MaxTilt: maxTilt,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// NewDefaultTiltTracker creates a tracker with the default tuning
func NewDefaultTiltTracker() *TiltTracker {
	return NewTiltTracker(DefaultMaxTilt, DefaultTrackerFPS, DefaultSpringFrequency, DefaultSpringDamping)
}

// Target returns the tilt the pointer is pulling towards.
// Moving up tilts the top edge away; moving right turns the card right.
func (t *TiltTracker) Target(p Pointer) Tilt {
	if !p.Hovering {
		return Tilt{}
	}
	return Tilt{
		X: (0.5 - clamp01(p.Y)) * 2 * t.MaxTilt,
		Y: (clamp01(p.X) - 0.5) * 2 * t.MaxTilt,
	}
}

// Update advances the spring by one step and returns the current tilt
func (t *TiltTracker) Update(p Pointer) Tilt {
	target := t.Target(p)
	t.x, t.vx = t.spring.Update(t.x, t.vx, target.X)
	t.y, t.vy = t.spring.Update(t.y, t.vy, target.Y)
	return Tilt{X: t.x, Y: t.y}
}

// Current returns the tilt without advancing the spring
func (t *TiltTracker) Current() Tilt {
	return Tilt{X: t.x, Y: t.y}
}

// Reset drops any accumulated tilt and velocity
func (t *TiltTracker) Reset() {
	t.x, t.vx, t.y, t.vy = 0, 0, 0, 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
