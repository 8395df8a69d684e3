package flip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEaseEndpoints(t *testing.T) {
	cases := []struct {
		name    string
		bounces int
		decay   float64
		physics bool
	}{
		{"plain", 0, 0, false},
		{"physics without bounce", 0, 0.5, true},
		{"one bounce", 1, 0.5, true},
		{"two bounces", 2, 0.4, true},
		{"three bounces", 3, 0.6, true},
		{"bounces ignored without physics", 2, 0.5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, 0.0, Ease(0, tc.bounces, tc.decay, tc.physics))
			assert.Equal(t, 1.0, Ease(1, tc.bounces, tc.decay, tc.physics))
		})
	}
}

func TestEaseSmoothstepWithoutBounce(t *testing.T) {
	for _, tt := range []float64{0.1, 0.25, 0.5, 0.79, 0.85, 0.95} {
		assert.InDelta(t, 3*tt*tt-2*tt*tt*tt, Ease(tt, 2, 0.5, false), 1e-12, "t=%v", tt)
		assert.InDelta(t, 3*tt*tt-2*tt*tt*tt, Ease(tt, 0, 0.5, true), 1e-12, "t=%v", tt)
	}
	assert.InDelta(t, 0.5, Ease(0.5, 0, 0, false), 1e-12)
}

func TestEaseMainMotionIsMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i < 800; i++ {
		v := Ease(float64(i)/1000, 2, 0.5, true)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestEaseBounceTailIsBounded(t *testing.T) {
	for bounces := 1; bounces <= 3; bounces++ {
		for _, decay := range []float64{0.4, 0.5, 0.6, 1} {
			for i := 0; i <= 2000; i++ {
				tt := 0.8 + 0.2*float64(i)/2000
				v := Ease(tt, bounces, decay, true)
				assert.LessOrEqual(t, math.Abs(v-1), 0.02+1e-12, "bounces=%d decay=%v t=%v", bounces, decay, tt)
			}
		}
	}
}

func TestEaseContinuousAtBounceBoundaries(t *testing.T) {
	const eps = 1e-10
	for bounces := 1; bounces <= 3; bounces++ {
		for k := 1; k < bounces; k++ {
			edge := 0.8 + 0.2*float64(k)/float64(bounces)
			left := Ease(edge-eps, bounces, 0.5, true)
			right := Ease(edge+eps, bounces, 0.5, true)
			at := Ease(edge, bounces, 0.5, true)

			assert.LessOrEqual(t, math.Abs(left-right), 1e-6, "bounces=%d edge=%v", bounces, edge)
			assert.LessOrEqual(t, math.Abs(left-at), 1e-6, "bounces=%d edge=%v", bounces, edge)
			assert.InDelta(t, 1.0, at, 1e-6)
		}

		// The tail closes on 1 at the far end too
		assert.InDelta(t, 1.0, Ease(1-eps, bounces, 0.5, true), 1e-6)
	}
}

func TestEaseBounceDecays(t *testing.T) {
	// Peaks sit a quarter of the way into each sub-interval
	first := Ease(0.8+0.2*0.25/2, 2, 0.5, true)
	second := Ease(0.8+0.2*1.25/2, 2, 0.5, true)

	assert.InDelta(t, 1.02, first, 1e-9)
	assert.InDelta(t, 1.01, second, 1e-9)
}
