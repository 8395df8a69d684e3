package flip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedSource returns the same values on every draw
type fixedSource struct {
	f float64
	n int
}

func (s fixedSource) Float64() float64 { return s.f }

func (s fixedSource) IntN(n int) int { return s.n % n }

func TestGenerateConfigWithoutPhysics(t *testing.T) {
	cw := GenerateConfig(fixedSource{f: 0.9, n: 0}, false)
	assert.Equal(t, Config{Duration: 400 * time.Millisecond, Direction: Clockwise}, cw)

	ccw := GenerateConfig(fixedSource{f: 0.9, n: 1}, false)
	assert.Equal(t, CounterClockwise, ccw.Direction)
	assert.Zero(t, ccw.RandomTilt)
	assert.Zero(t, ccw.BounceCount)
	assert.Zero(t, ccw.BounceDecay)
}

func TestGenerateConfigMidpoint(t *testing.T) {
	cfg := GenerateConfig(fixedSource{f: 0.5, n: 0}, true)

	assert.Equal(t, 700*time.Millisecond, cfg.Duration)
	assert.Equal(t, Clockwise, cfg.Direction)
	assert.InDelta(t, 0.0, cfg.RandomTilt, 1e-12)
	assert.Equal(t, 1, cfg.BounceCount)
	assert.InDelta(t, 0.5, cfg.BounceDecay, 1e-12)
}

func TestGenerateConfigRanges(t *testing.T) {
	rng := NewRandomSource(42)
	seen := map[Direction]bool{}
	bounces := map[int]bool{}

	for i := 0; i < 2000; i++ {
		cfg := GenerateConfig(rng, true)

		assert.GreaterOrEqual(t, cfg.Duration, 600*time.Millisecond)
		assert.Less(t, cfg.Duration, 800*time.Millisecond)
		assert.GreaterOrEqual(t, cfg.RandomTilt, -4.0)
		assert.Less(t, cfg.RandomTilt, 4.0)
		assert.Contains(t, []int{1, 2}, cfg.BounceCount)
		assert.GreaterOrEqual(t, cfg.BounceDecay, 0.4)
		assert.Less(t, cfg.BounceDecay, 0.6)

		seen[cfg.Direction] = true
		bounces[cfg.BounceCount] = true
	}

	assert.Len(t, seen, 2, "both directions should be drawn")
	assert.Len(t, bounces, 2, "both bounce counts should be drawn")
}

func TestSeededSourcesAreReproducible(t *testing.T) {
	a, b := NewRandomSource(7), NewRandomSource(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, GenerateConfig(a, true), GenerateConfig(b, true))
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "cw", Clockwise.String())
	assert.Equal(t, "ccw", CounterClockwise.String())
}
