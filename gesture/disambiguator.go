// Package gesture turns raw pointer input into semantic gestures: drags,
// single clicks and double clicks.
package gesture

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay separates a select/drag click from a flip double click
const DefaultDelay = 250 * time.Millisecond

// Click is a click position in host coordinates
type Click struct {
	X, Y float64
}

// Option configures a Disambiguator
type Option func(*Disambiguator)

// WithScheduler sets the timer source. The default is WallScheduler.
func WithScheduler(s Scheduler) Option {
	return func(d *Disambiguator) { d.scheduler = s }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(d *Disambiguator) { d.logger = logger }
}

// Disambiguator resolves each interaction window into exactly one of a
// single click or a double click. The first click opens the window and
// arms a timer; a second click before the timer fires is a double click,
// otherwise the timer reports a single click.
type Disambiguator struct {
	delay    time.Duration
	onSingle func(Click)
	onDouble func(Click)

	scheduler Scheduler
	logger    *zap.Logger

	mu         sync.Mutex
	pending    Timer
	first      Click
	generation uint64 // identifies the open window; stale timers compare against it
}

// New creates a Disambiguator. A non-positive delay selects DefaultDelay.
func New(delay time.Duration, onSingle, onDouble func(Click), opts ...Option) *Disambiguator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Disambiguator{
		delay:     delay,
		onSingle:  onSingle,
		onDouble:  onDouble,
		scheduler: WallScheduler{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleClick feeds one click into the disambiguator
func (d *Disambiguator) HandleClick(c Click) {
	d.mu.Lock()

	if d.pending != nil {
		// Second click inside the window
		d.pending.Stop()
		d.pending = nil
		d.generation++
		d.mu.Unlock()

		d.logger.Debug("double click", zap.Float64("x", c.X), zap.Float64("y", c.Y))
		if d.onDouble != nil {
			d.onDouble(c)
		}
		return
	}

	d.generation++
	gen := d.generation
	d.first = c
	d.pending = d.scheduler.AfterFunc(d.delay, func() { d.expire(gen) })
	d.mu.Unlock()
}

// expire closes the window opened as generation gen with a single click
func (d *Disambiguator) expire(gen uint64) {
	d.mu.Lock()
	// A second click or Close got here first
	if d.pending == nil || gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	first := d.first
	d.mu.Unlock()

	d.logger.Debug("single click", zap.Float64("x", first.X), zap.Float64("y", first.Y))
	if d.onSingle != nil {
		d.onSingle(first)
	}
}

// Pending reports whether a window is open
func (d *Disambiguator) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Close cancels an open window without firing any callback
func (d *Disambiguator) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.generation++
}
