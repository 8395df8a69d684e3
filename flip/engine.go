package flip

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Calibration constants. They encode the look of the flip rather than a
// physical derivation.
const (
	frontRotation = 0.0
	backRotation  = 180.0

	anticipationWindow = 0.1  // fraction of the flip spent pulling back
	anticipationAngle  = -2.0 // degrees of pull-back on the X axis

	physicsSquash = 0.03
	plainSquash   = 0.01

	restShadow    = 0.8
	physicsShadow = 0.3
	plainShadow   = 0.1

	physicsLift = 15.0
	plainLift   = 5.0
)

// State is the pose of the card at one instant
type State struct {
	IsFlipping      bool
	Progress        float64 // raw linear fraction of the current flip
	RotationY       float64 // degrees, continuous during a flip
	RotationX       float64 // anticipation, degrees
	RotationZ       float64 // wobble, degrees
	Scale           float64
	ShadowIntensity float64
	ZOffset         float64
	ShowingFront    bool
}

// restState returns the clean resting pose for the given face
func restState(flipped bool) State {
	rotation := frontRotation
	if flipped {
		rotation = backRotation
	}
	return State{
		RotationY:       rotation,
		Scale:           1,
		ShadowIntensity: restShadow,
		ShowingFront:    !flipped,
	}
}

// IsFrontFacing reports whether a Y rotation in degrees shows the front face
func IsFrontFacing(rotationY float64) bool {
	normalized := math.Mod(rotationY, 360)
	if normalized < 0 {
		normalized += 360
	}
	return normalized <= 90 || normalized >= 270
}

// Observer receives flip lifecycle notifications
type Observer interface {
	FlipStarted(cfg Config)
	FlipSettled(state State)
}

// Option configures an Engine
type Option func(*Engine)

// WithPhysics enables or disables randomized physics
func WithPhysics(enabled bool) Option {
	return func(e *Engine) { e.physicsEnabled = enabled }
}

// WithRandomSource sets the source used to generate flip configs
func WithRandomSource(rng RandomSource) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithInitialFace starts the card showing its back when flipped is true
func WithInitialFace(flipped bool) Option {
	return func(e *Engine) { e.flipped = flipped }
}

// WithObserver registers a lifecycle observer
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// Engine is the flip state machine. It owns the canonical flip state and
// advances it when the host calls Tick once per frame. It is not safe for
// concurrent use; hosts drive it from their update loop.
type Engine struct {
	physicsEnabled bool
	flipped        bool // logical face, toggled when a flip starts

	state  State
	config Config

	started   bool
	startTime time.Duration

	rng       RandomSource
	logger    *zap.Logger
	observers []Observer
}

// NewEngine creates an idle engine showing the front face
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		physicsEnabled: true,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e.state = restState(e.flipped)
	return e
}

// TriggerFlip starts a flip towards the opposite face.
// It returns false and changes nothing while a flip is already running.
func (e *Engine) TriggerFlip() bool {
	if e.state.IsFlipping {
		return false
	}

	e.flipped = !e.flipped
	e.config = GenerateConfig(e.rng, e.physicsEnabled)
	e.started = false
	e.startTime = 0

	e.state.IsFlipping = true
	e.state.Progress = 0

	e.logger.Debug("flip started",
		zap.Bool("to_back", e.flipped),
		zap.Duration("duration", e.config.Duration),
		zap.Stringer("direction", e.config.Direction),
		zap.Float64("tilt", e.config.RandomTilt),
		zap.Int("bounces", e.config.BounceCount),
	)
	for _, o := range e.observers {
		o.FlipStarted(e.config)
	}
	return true
}

// Tick advances the running flip to the absolute timestamp now and returns
// the new state. The first tick after TriggerFlip marks the start time, so
// skipped frames only reduce smoothness and never change the duration.
// Ticking an idle engine returns the resting state unchanged.
func (e *Engine) Tick(now time.Duration) State {
	if !e.state.IsFlipping {
		return e.state
	}

	if !e.started {
		e.started = true
		e.startTime = now
	}

	rawProgress := 1.0
	if e.config.Duration > 0 {
		elapsed := now - e.startTime
		rawProgress = float64(elapsed) / float64(e.config.Duration)
	}
	// Non-monotonic timestamps must not leak negative progress
	rawProgress = math.Max(0, math.Min(rawProgress, 1))

	if rawProgress >= 1 {
		return e.settle()
	}

	eased := Ease(rawProgress, e.config.BounceCount, e.config.BounceDecay, e.physicsEnabled)

	targetRotation, startRotation := backRotation, frontRotation
	if !e.flipped {
		targetRotation, startRotation = frontRotation, backRotation
	}
	rotationDelta := (targetRotation - startRotation) * float64(e.config.Direction)

	arc := math.Sin(rawProgress * math.Pi)

	squash, shadow, lift := plainSquash, plainShadow, plainLift
	if e.physicsEnabled {
		squash, shadow, lift = physicsSquash, physicsShadow, physicsLift
	}

	anticipation := 0.0
	if rawProgress < anticipationWindow {
		anticipation = (rawProgress / anticipationWindow) * anticipationAngle
	}

	rotationY := startRotation + rotationDelta*eased
	e.state = State{
		IsFlipping:      true,
		Progress:        rawProgress,
		RotationY:       rotationY,
		RotationX:       anticipation,
		RotationZ:       e.config.RandomTilt * arc,
		Scale:           1 - arc*squash,
		ShadowIntensity: restShadow + arc*shadow,
		ZOffset:         arc * lift,
		ShowingFront:    IsFrontFacing(rotationY),
	}
	return e.state
}

// Settle ends a running flip immediately at its target face.
// It is a no-op while idle.
func (e *Engine) Settle() State {
	if !e.state.IsFlipping {
		return e.state
	}
	return e.settle()
}

func (e *Engine) settle() State {
	e.state = restState(e.flipped)
	e.state.Progress = 1
	e.started = false
	e.startTime = 0

	e.logger.Debug("flip settled",
		zap.Float64("rotation_y", e.state.RotationY),
		zap.Bool("showing_front", e.state.ShowingFront),
	)
	for _, o := range e.observers {
		o.FlipSettled(e.state)
	}
	return e.state
}

// State returns the current state
func (e *Engine) State() State {
	return e.state
}

// Config returns the config of the running flip, or of the last flip
// when idle
func (e *Engine) Config() Config {
	return e.config
}

// StartTime returns the timestamp recorded by the first tick of the
// running flip and whether it has been recorded yet
func (e *Engine) StartTime() (time.Duration, bool) {
	return e.startTime, e.started
}

// IsFlipping reports whether a flip is running and the host should keep ticking
func (e *Engine) IsFlipping() bool {
	return e.state.IsFlipping
}

// IsFlipped reports the logical face: true once a flip towards the back has started
func (e *Engine) IsFlipped() bool {
	return e.flipped
}

// PhysicsEnabled reports whether randomized physics is enabled
func (e *Engine) PhysicsEnabled() bool {
	return e.physicsEnabled
}

// SetPhysicsEnabled changes the physics flag. The config of a running flip
// is kept; the next flip draws from the new mode.
func (e *Engine) SetPhysicsEnabled(enabled bool) {
	e.physicsEnabled = enabled
}
