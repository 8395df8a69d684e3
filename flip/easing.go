package flip

import "math"

// Bounce tail calibration
const (
	bounceStart     = 0.8  // progress at which the settling tail begins
	bounceAmplitude = 0.02 // peak overshoot of the first bounce
)

// Smoothstep returns 3t² − 2t³, a curve with zero slope at both ends
func Smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Ease maps linear progress t in [0, 1] to eased progress.
// Without physics, or with no bounces, the whole curve is a smoothstep.
// With bounces the last 20% of the curve is replaced by a decaying
// oscillation around 1 split into bounceCount equal sub-intervals.
func Ease(t float64, bounceCount int, bounceDecay float64, physicsEnabled bool) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	if !physicsEnabled || bounceCount <= 0 {
		return Smoothstep(t)
	}

	// Main motion
	if t < bounceStart {
		return Smoothstep(t)
	}

	bouncePhase := (t - bounceStart) / (1 - bounceStart)
	scaled := bouncePhase * float64(bounceCount)

	// Index of the active sub-interval; the right edge belongs to the last one
	i := int(math.Floor(scaled))
	if i >= bounceCount {
		i = bounceCount - 1
	}
	localPhase := scaled - float64(i)

	// Every sub-interval starts and ends on sin(0) and sin(2π), so adjacent
	// bounces meet at exactly 1.
	return 1 + math.Pow(bounceDecay, float64(i))*math.Sin(localPhase*2*math.Pi)*bounceAmplitude
}
