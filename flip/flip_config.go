package flip

import (
	"math/rand/v2"
	"time"
)

// Direction is the sign applied to the rotation delta of a flip
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// String returns a short human readable name
func (d Direction) String() string {
	if d == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// Flip parameter ranges
const (
	plainDuration = 400 * time.Millisecond

	minPhysicsDuration  = 600 * time.Millisecond
	physicsDurationSpan = 200 * time.Millisecond

	maxRandomTilt = 4.0 // degrees, tilt is drawn from [-4, 4)

	minBounceCount = 1
	bounceChoices  = 2 // bounce count is drawn from {1, 2}

	minBounceDecay  = 0.4
	bounceDecaySpan = 0.2
)

// Config holds the motion parameters of a single flip.
// A Config is generated when a flip starts and is never changed while
// that flip runs.
type Config struct {
	// Duration is the total length of the flip
	Duration time.Duration

	// Direction selects clockwise or counter-clockwise rotation
	Direction Direction

	// RandomTilt is the peak out-of-plane wobble in degrees
	RandomTilt float64

	// BounceCount is the number of settling bounces at the end of the flip
	BounceCount int

	// BounceDecay multiplies the amplitude of each successive bounce
	BounceDecay float64
}

// RandomSource abstracts random number generation for deterministic testing.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	// Float64 returns a float in [0.0, 1.0).
	Float64() float64

	// IntN returns an int in [0, n).
	IntN(n int) int
}

// NewRandomSource returns a seeded PCG source
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GenerateConfig draws the parameters of a new flip from rng.
// With physics disabled the flip is a fixed 400ms turn with no tilt or
// bounce; only the direction is random.
func GenerateConfig(rng RandomSource, physicsEnabled bool) Config {
	direction := Clockwise
	if rng.IntN(2) == 1 {
		direction = CounterClockwise
	}

	if !physicsEnabled {
		return Config{
			Duration:  plainDuration,
			Direction: direction,
		}
	}

	duration := minPhysicsDuration + time.Duration(rng.Float64()*float64(physicsDurationSpan))

	return Config{
		Duration:    duration,
		Direction:   direction,
		RandomTilt:  -maxRandomTilt + rng.Float64()*2*maxRandomTilt,
		BounceCount: minBounceCount + rng.IntN(bounceChoices),
		BounceDecay: minBounceDecay + rng.Float64()*bounceDecaySpan,
	}
}
