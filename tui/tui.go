// Package tui shows the card in a terminal. The flip is drawn as a
// horizontal squeeze whose width follows |cos rotationY|.
package tui

import (
	"context"
	"fmt"
	"math"
	"time"

	"cardflip/card"
	"cardflip/flip"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Card size in cells. Terminal cells are about twice as tall as wide.
const (
	cardCols = 24
	cardRows = 13

	frameInterval = 16 * time.Millisecond
)

var (
	styleBackground = tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	styleFront      = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorRed)
	styleBack       = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorLightGoldenrodYellow)
	styleShadow     = tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorBlack)
	styleSelected   = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleStatus     = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
)

// App is the terminal viewer
type App struct {
	screen tcell.Screen
	card   *card.Card
	logger *zap.Logger

	start      time.Time // session clock origin shared by frames and events
	view       card.View
	buttonDown bool
	width      int
	height     int
}

// New creates a viewer drawing on screen. The screen must be initialized.
func New(screen tcell.Screen, s card.Settings, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, h := screen.Size()

	s.Width, s.Height = cardCols, cardRows
	// Pointer positions are whole cells
	s.DragDeadZone = 1

	a := &App{
		screen: screen,
		start:  time.Now(),
		card:   card.New(s, float64(w)/2, float64(h)/2, logger),
		logger: logger.Named("tui"),
		width:  w,
		height: h,
	}
	a.view = a.card.Update(0)
	return a
}

// Card returns the card being shown
func (a *App) Card() *card.Card {
	return a.card
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		a.handleMouse(ev)

	case *tcell.EventResize:
		a.screen.Sync()
		a.width, a.height = a.screen.Size()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			a.card.Flip()
		case 'p':
			a.card.TogglePhysics()
		case 'l':
			a.card.ToggleLighting()
		}
	}
	return true
}

// handleMouse turns button state into press and release edges
func (a *App) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := float64(cx)+0.5, float64(cy)+0.5
	down := ev.Buttons()&tcell.Button1 != 0
	at := ev.When().Sub(a.start)

	switch {
	case down && !a.buttonDown:
		a.card.PointerDown(x, y, at)
	case !down && a.buttonDown:
		a.card.PointerUp(x, y, at)
	default:
		a.card.PointerMove(x, y)
	}
	a.buttonDown = down
}

// Update advances the card to now, measured from the start of the session
func (a *App) Update(now time.Duration) card.View {
	a.view = a.card.Update(now)
	return a.view
}

// Draw renders the last view
func (a *App) Draw() {
	a.screen.Fill(' ', styleBackground)

	v := a.view
	rotation := v.Transform.RotateY
	halfWidth := float64(cardCols) / 2 * math.Abs(math.Cos(rotation*math.Pi/180)) * v.Transform.Scale
	halfHeight := float64(cardRows) / 2 * v.Transform.Scale
	lift := int(math.Round(v.State.ZOffset / 5))

	left := int(math.Round(v.X - halfWidth))
	right := int(math.Round(v.X + halfWidth))
	top := int(math.Round(v.Y-halfHeight)) - lift
	bottom := int(math.Round(v.Y+halfHeight)) - lift

	if right > left {
		a.drawShadow(left, right, bottom, v.Shadow)
		a.drawFace(left, right, top, bottom, flip.IsFrontFacing(rotation), v.Selected)
	}
	a.drawStatus()
	a.screen.Show()
}

func (a *App) drawShadow(left, right, bottom int, s flip.Shadow) {
	shade := '░'
	if s.Opacity > 0.6 {
		shade = '▒'
	}
	offset := int(math.Round(s.OffsetY / 20))
	for x := left + 1; x <= right; x++ {
		for y := bottom; y < bottom+offset; y++ {
			a.screen.SetContent(x, y, shade, nil, styleShadow)
		}
	}
}

func (a *App) drawFace(left, right, top, bottom int, front, selected bool) {
	style := styleFront
	if !front {
		style = styleBack
	}

	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			r := ' '
			if !front && (x+y)%2 == 0 {
				r = '╳'
			}
			a.screen.SetContent(x, y, r, nil, style)
		}
	}

	midX, midY := (left+right)/2, (top+bottom)/2
	if front {
		a.screen.SetContent(midX, midY, '♥', nil, style)
		if right-left >= 4 {
			a.screen.SetContent(left+1, top, 'A', nil, style)
			a.screen.SetContent(right-2, bottom-1, 'A', nil, style)
		}
	} else {
		a.screen.SetContent(midX, midY, '◆', nil, style)
	}

	if selected {
		for x := left; x < right; x++ {
			a.screen.SetContent(x, top-1, '▄', nil, styleSelected.Reverse(true))
		}
	}
}

func (a *App) drawStatus() {
	e := a.card.Engine()
	status := fmt.Sprintf(" physics:%s  lighting:%s  flips:%d  | double-click/space flip, drag move, p physics, l lighting, q quit",
		onOff(e.PhysicsEnabled()), onOff(a.card.Lighting()), a.card.Flips())

	y := a.height - 1
	x := 0
	for _, r := range status {
		if x >= a.width {
			break
		}
		a.screen.SetContent(x, y, r, nil, styleStatus)
		x++
	}
	for ; x < a.width; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Close releases the card's pending timers
func (a *App) Close() {
	a.card.Close()
}

// Loop drives the app from screen events and a frame ticker until the
// user quits or ctx ends
func (a *App) Loop(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			a.Update(now.Sub(a.start))
			a.Draw()
		}
	}
}

// Run opens the terminal and blocks until the user quits or ctx ends
func Run(ctx context.Context, s card.Settings, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	app := New(screen, s, logger)
	defer app.Close()

	app.logger.Info("terminal viewer started")
	app.Loop(ctx)
	app.logger.Info("terminal viewer closed", zap.Int("flips", app.card.Flips()))
	return nil
}
