// Package card wires the flip engine to pointer input for a single card on
// screen. Hosts feed it pointer events in screen coordinates, call Update
// once per frame and draw the returned View.
package card

import (
	"time"

	"cardflip/config"
	"cardflip/flip"
	"cardflip/gesture"

	"go.uber.org/zap"
)

// Settings holds the tunables of a card
type Settings struct {
	Width  float64
	Height float64

	Physics bool
	Seed    uint64 // 0 seeds from the runtime

	ClickDelay   time.Duration
	DragDeadZone float64

	MaxTilt             float64
	SpringFrequency     float64
	SpringDamping       float64
	InteractiveLighting bool
	FPS                 int // update rate of the host, drives the tilt spring
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Width:               250,
		Height:              350,
		Physics:             true,
		ClickDelay:          gesture.DefaultDelay,
		DragDeadZone:        gesture.DefaultDragDeadZone,
		MaxTilt:             flip.DefaultMaxTilt,
		SpringFrequency:     flip.DefaultSpringFrequency,
		SpringDamping:       flip.DefaultSpringDamping,
		InteractiveLighting: true,
		FPS:                 flip.DefaultTrackerFPS,
	}
}

// SettingsFrom maps loaded configuration onto card settings
func SettingsFrom(cfg *config.Config) Settings {
	s := DefaultSettings()
	s.Width = float64(cfg.Window.CardWidth)
	s.Height = float64(cfg.Window.CardHeight)
	s.Physics = cfg.Physics.Enabled
	s.Seed = cfg.Physics.Seed
	s.ClickDelay = cfg.Gesture.ClickDelay
	s.DragDeadZone = cfg.Gesture.DragDeadZone
	s.MaxTilt = cfg.Pointer.MaxTilt
	s.SpringFrequency = cfg.Pointer.SpringFrequency
	s.SpringDamping = cfg.Pointer.SpringDamping
	s.InteractiveLighting = cfg.Pointer.InteractiveLighting
	return s
}

// View is everything a renderer needs for one frame
type View struct {
	X, Y          float64 // card centre in screen coordinates
	Width, Height float64
	State         flip.State
	Transform     flip.Transform
	Shadow        flip.Shadow
	Tilt          flip.Tilt
	Pointer       flip.Pointer
	Selected      bool
	Dragging      bool
}

// Card is one interactive flippable card. It is driven from a single
// host goroutine; click windows expire on the host frame clock.
type Card struct {
	X, Y          float64
	Width, Height float64

	selected bool
	flips    int

	engine   *flip.Engine
	clock    *gesture.FrameScheduler
	clicks   *gesture.Disambiguator
	drag     *gesture.DragDetector
	tilt     *flip.TiltTracker
	composer flip.Composer

	pointer flip.Pointer
	logger  *zap.Logger
}

// New creates a card centred at x, y
func New(s Settings, x, y float64, logger *zap.Logger) *Card {
	if logger == nil {
		logger = zap.NewNop()
	}

	engineOpts := []flip.Option{
		flip.WithPhysics(s.Physics),
		flip.WithLogger(logger.Named("flip")),
	}
	if s.Seed != 0 {
		engineOpts = append(engineOpts, flip.WithRandomSource(flip.NewRandomSource(s.Seed)))
	}

	c := &Card{
		X:        x,
		Y:        y,
		Width:    s.Width,
		Height:   s.Height,
		engine:   flip.NewEngine(engineOpts...),
		clock:    gesture.NewFrameScheduler(0),
		tilt:     flip.NewTiltTracker(s.MaxTilt, s.FPS, s.SpringFrequency, s.SpringDamping),
		composer: flip.Composer{InteractiveLighting: s.InteractiveLighting},
		logger:   logger,
	}

	c.clicks = gesture.New(s.ClickDelay, c.onSingleClick, c.onDoubleClick,
		gesture.WithScheduler(c.clock),
		gesture.WithLogger(logger.Named("gesture")),
	)
	c.drag = gesture.NewDragDetector(s.DragDeadZone, gesture.DragHandlers{
		OnClick:     c.clicks.HandleClick,
		OnDragStart: c.onDragStart,
		OnDragMove:  c.onDragMove,
		OnDragEnd:   c.onDragEnd,
	})
	return c
}

// Contains reports whether a screen point lies on the resting card
func (c *Card) Contains(x, y float64) bool {
	return x >= c.X-c.Width/2 && x <= c.X+c.Width/2 &&
		y >= c.Y-c.Height/2 && y <= c.Y+c.Height/2
}

// PointerDown starts a press at host time at. Presses outside the card
// are ignored.
func (c *Card) PointerDown(x, y float64, at time.Duration) {
	c.clock.Advance(at)
	c.hover(x, y)
	if !c.Contains(x, y) {
		return
	}
	c.drag.Press(x, y)
}

// PointerMove tracks the pointer for hover tilt and drags
func (c *Card) PointerMove(x, y float64) {
	c.drag.Move(x, y)
	c.hover(x, y)
}

// PointerUp ends a press at host time at, producing a click or the end of
// a drag. Click windows open at at, not at the last frame.
func (c *Card) PointerUp(x, y float64, at time.Duration) {
	c.clock.Advance(at)
	c.drag.Release(x, y)
	c.hover(x, y)
}

// PointerLeave drops hover and any press in progress
func (c *Card) PointerLeave() {
	c.drag.Cancel()
	c.pointer = flip.Pointer{}
}

func (c *Card) hover(x, y float64) {
	if !c.Contains(x, y) && !c.drag.Dragging() {
		c.pointer = flip.Pointer{}
		return
	}
	c.pointer = flip.Pointer{
		X:        (x - (c.X - c.Width/2)) / c.Width,
		Y:        (y - (c.Y - c.Height/2)) / c.Height,
		Hovering: true,
	}
}

func (c *Card) onSingleClick(click gesture.Click) {
	c.selected = !c.selected
	c.logger.Debug("card selected", zap.Bool("selected", c.selected))
}

func (c *Card) onDoubleClick(click gesture.Click) {
	c.Flip()
}

func (c *Card) onDragStart(x, y float64) {
	c.logger.Debug("drag started", zap.Float64("x", x), zap.Float64("y", y))
}

func (c *Card) onDragMove(x, y, dx, dy float64) {
	c.X += dx
	c.Y += dy
}

func (c *Card) onDragEnd(x, y float64) {
	c.logger.Debug("drag ended", zap.Float64("card_x", c.X), zap.Float64("card_y", c.Y))
}

// Flip starts a flip unless one is already running
func (c *Card) Flip() bool {
	if !c.engine.TriggerFlip() {
		return false
	}
	c.flips++
	return true
}

// Update advances gesture timers, the running flip and the pointer tilt to
// the host timestamp now, and returns the frame to draw
func (c *Card) Update(now time.Duration) View {
	c.clock.Advance(now)

	state := c.engine.State()
	if c.engine.IsFlipping() {
		state = c.engine.Tick(now)
	}

	// The spring is held at rest during a flip and eases in once it settles
	var tilt flip.Tilt
	if state.IsFlipping {
		c.tilt.Reset()
		tilt = c.tilt.Current()
	} else {
		tilt = c.tilt.Update(c.pointer)
	}

	return View{
		X:         c.X,
		Y:         c.Y,
		Width:     c.Width,
		Height:    c.Height,
		State:     state,
		Transform: c.composer.Compose(state, tilt, c.pointer),
		Shadow:    flip.ProjectShadow(state),
		Tilt:      tilt,
		Pointer:   c.pointer,
		Selected:  c.selected,
		Dragging:  c.drag.Dragging(),
	}
}

// TogglePhysics flips the physics flag for the next flip
func (c *Card) TogglePhysics() bool {
	c.engine.SetPhysicsEnabled(!c.engine.PhysicsEnabled())
	c.logger.Info("physics toggled", zap.Bool("enabled", c.engine.PhysicsEnabled()))
	return c.engine.PhysicsEnabled()
}

// ToggleLighting switches the interactive lighting parallax
func (c *Card) ToggleLighting() bool {
	c.composer.InteractiveLighting = !c.composer.InteractiveLighting
	c.logger.Info("interactive lighting toggled", zap.Bool("enabled", c.composer.InteractiveLighting))
	return c.composer.InteractiveLighting
}

// Selected reports the selection toggled by single clicks
func (c *Card) Selected() bool {
	return c.selected
}

// Flips returns how many flips have been started
func (c *Card) Flips() int {
	return c.flips
}

// Engine exposes the flip engine for read-only queries
func (c *Card) Engine() *flip.Engine {
	return c.engine
}

// Lighting reports whether interactive lighting is on
func (c *Card) Lighting() bool {
	return c.composer.InteractiveLighting
}

// Close cancels any pending click window and settles a running flip
func (c *Card) Close() {
	c.clicks.Close()
	c.engine.Settle()
}
