package trace

import (
	"math/rand/v2"
	"time"

	"cardflip/flip"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxFramesPerFlip bounds a single flip so a stuck engine cannot loop forever
const maxFramesPerFlip = 100000

// ErrFlipRejected is returned when the engine refuses to start a flip
var ErrFlipRejected = errors.New("engine rejected flip")

// Recorder is a flip.Observer that collects flips and their frames on a
// simulated clock
type Recorder struct {
	trace   *Trace
	current *Flip
	now     time.Duration
}

// NewRecorder creates an empty recorder for a session at fps
func NewRecorder(fps int, physics bool, seed uint64) *Recorder {
	return &Recorder{
		trace: &Trace{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			FPS:       fps,
			Physics:   physics,
			Seed:      seed,
		},
	}
}

// FlipStarted opens a new flip recording
func (r *Recorder) FlipStarted(cfg flip.Config) {
	r.closeCurrent()
	f := newFlip(len(r.trace.Flips), false, cfg)
	r.current = &f
}

// FlipSettled appends the resting frame and closes the flip
func (r *Recorder) FlipSettled(s flip.State) {
	if r.current == nil {
		return
	}
	r.current.Frames = append(r.current.Frames, newFrame(r.now, s))
	r.closeCurrent()
}

// Sample records a mid-flip frame at now
func (r *Recorder) Sample(now time.Duration, s flip.State) {
	r.now = now
	if r.current == nil || !s.IsFlipping {
		return
	}
	r.current.Frames = append(r.current.Frames, newFrame(now, s))
}

// Trace returns the recording so far
func (r *Recorder) Trace() *Trace {
	r.closeCurrent()
	return r.trace
}

func (r *Recorder) closeCurrent() {
	if r.current == nil {
		return
	}
	r.trace.Flips = append(r.trace.Flips, *r.current)
	r.current = nil
}

// Options configures Simulate
type Options struct {
	FPS     int
	Flips   int
	Physics bool
	Seed    uint64 // 0 draws a random seed, recorded in the trace
	Logger  *zap.Logger
}

// Simulate runs opts.Flips back-to-back flips on a fresh engine, ticking
// it at opts.FPS on a simulated clock, and returns the recording
func Simulate(opts Options) (*Trace, error) {
	if opts.FPS <= 0 {
		return nil, errors.Errorf("fps must be positive, got %d", opts.FPS)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64() | 1
	}

	rec := NewRecorder(opts.FPS, opts.Physics, opts.Seed)
	engine := flip.NewEngine(
		flip.WithPhysics(opts.Physics),
		flip.WithRandomSource(flip.NewRandomSource(opts.Seed)),
		flip.WithLogger(opts.Logger.Named("flip")),
		flip.WithObserver(rec),
	)

	frame := time.Second / time.Duration(opts.FPS)
	var now time.Duration
	for i := 0; i < opts.Flips; i++ {
		if !engine.TriggerFlip() {
			return nil, errors.Wrapf(ErrFlipRejected, "flip %d", i)
		}
		rec.current.ToBack = engine.IsFlipped()

		for n := 0; engine.IsFlipping(); n++ {
			if n >= maxFramesPerFlip {
				return nil, errors.Errorf("flip %d did not settle after %d frames", i, n)
			}
			now += frame
			// The settle callback fires inside Tick and stamps r.now
			rec.now = now
			rec.Sample(now, engine.Tick(now))
		}
	}

	t := rec.Trace()
	opts.Logger.Info("trace recorded",
		zap.String("id", t.ID),
		zap.Int("flips", len(t.Flips)),
		zap.Int("frames", t.FrameCount()),
		zap.Uint64("seed", t.Seed),
	)
	return t, nil
}
