// Package game is the desktop card viewer built on Ebitengine
package game

import (
	"fmt"
	"time"

	"cardflip/card"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// startupGrace ignores frame-rate dips while the window settles
const startupGrace = 3 * time.Second

// Game represents the viewer state
type Game struct {
	config   Config
	card     *card.Card
	renderer *Renderer
	input    *PointerInput
	logger   *zap.Logger

	// Last frame, kept for Draw
	view card.View

	// Frame clock
	startTime      time.Time
	lastUpdateTime time.Time

	// FPS tracking and stall profiling
	fps      *FPSMeter
	profiler *Profiler

	pointerInside bool
}

// NewGame creates a new viewer with the card centred in the window
func NewGame(config Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	faces, err := card.LoadFaces(config.FrontFace, config.BackFace,
		int(config.Card.Width), int(config.Card.Height))
	if err != nil {
		return nil, errors.Wrap(err, "load card faces")
	}

	// The tilt spring steps once per Update
	config.Card.FPS = ebiten.TPS()

	now := time.Now()
	g := &Game{
		config: config,
		card: card.New(config.Card,
			float64(config.ScreenWidth)/2, float64(config.ScreenHeight)/2,
			logger),
		renderer:       NewRenderer(faces),
		input:          NewPointerInput(),
		logger:         logger.Named("game"),
		startTime:      now,
		lastUpdateTime: now,
		fps:            NewFPSMeter(float64(ebiten.TPS())),
		profiler:       NewProfiler(config.ProfileDir, config.ProfileCooldown, logger.Named("profiler")),
	}
	g.view = g.card.Update(0)

	g.logger.Info("viewer started",
		zap.Int("width", config.ScreenWidth),
		zap.Int("height", config.ScreenHeight),
		zap.Bool("physics", config.Card.Physics),
	)
	return g, nil
}

// Update implements ebiten.Game
func (g *Game) Update() error {
	now := time.Now()
	deltaTime := now.Sub(g.lastUpdateTime).Seconds()
	g.lastUpdateTime = now

	if g.fps.Frame(deltaTime) {
		g.checkStall(now)
	}

	// The card runs on time since startup so every component shares one clock
	elapsed := now.Sub(g.startTime)

	g.handleKeys(PollKeys())
	g.handlePointer(g.input.Poll(g.config.ScreenWidth, g.config.ScreenHeight), elapsed)

	g.view = g.card.Update(elapsed)
	return nil
}

func (g *Game) handleKeys(k Keys) {
	if k.Flip {
		g.card.Flip()
	}
	if k.TogglePhysics {
		g.card.TogglePhysics()
	}
	if k.ToggleLighting {
		g.card.ToggleLighting()
	}
	if k.ToggleHUD {
		GetDebugState().ShowHUD = !GetDebugState().ShowHUD
	}
	if k.ToggleWire {
		GetDebugState().ShowWireframe = !GetDebugState().ShowWireframe
	}
}

func (g *Game) handlePointer(e PointerEvent, at time.Duration) {
	if !e.Inside {
		if g.pointerInside {
			g.card.PointerLeave()
		}
		g.pointerInside = false
		return
	}
	g.pointerInside = true

	switch {
	case e.Pressed:
		g.card.PointerDown(e.X, e.Y, at)
	case e.Released:
		g.card.PointerUp(e.X, e.Y, at)
	default:
		g.card.PointerMove(e.X, e.Y)
	}
}

// checkStall captures a profile when the frame rate drops below MinFPS
func (g *Game) checkStall(now time.Time) {
	if g.config.MinFPS <= 0 || now.Sub(g.startTime) < startupGrace {
		return
	}
	fps := g.fps.FPS()
	if fps >= g.config.MinFPS {
		return
	}

	g.logger.Warn("frame rate drop", zap.Float64("fps", fps))
	reason := fmt.Sprintf("fps%.0f", fps)
	if err := g.profiler.CaptureProfile(reason); err != nil && !errors.Is(err, ErrCaptureCooldown) {
		g.logger.Warn("profile capture failed", zap.Error(err))
	}
}

// Draw implements ebiten.Game
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Render(screen, g.view)

	if GetDebugState().ShowHUD {
		drawHUD(screen, FormatHUD(g.view, HUDStatus{
			FPS:      ebiten.ActualFPS(),
			Physics:  g.card.Engine().PhysicsEnabled(),
			Lighting: g.card.Lighting(),
			Flips:    g.card.Flips(),
		}))
	}
}

// Layout implements ebiten.Game
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.ScreenWidth, g.config.ScreenHeight
}

// Close releases the card's pending timers
func (g *Game) Close() {
	g.card.Close()
	g.logger.Info("viewer closed", zap.Int("flips", g.card.Flips()))
}

// Run opens the window and blocks until it is closed
func Run(config Config, logger *zap.Logger) error {
	g, err := NewGame(config, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Card Flip")
	ebiten.SetWindowResizable(true)

	return errors.Wrap(ebiten.RunGame(g), "run viewer")
}
