package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"cardflip/card"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	s := card.DefaultSettings()
	s.Physics = false
	s.Seed = 5
	app := New(screen, s, nil)
	t.Cleanup(app.Close)
	return app, screen
}

func runeAt(screen tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func row(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(runeAt(screen, x, y))
	}
	return b.String()
}

func mouse(app *App, x, y int, buttons tcell.ButtonMask) {
	app.HandleEvent(tcell.NewEventMouse(x, y, buttons, tcell.ModNone))
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestDrawsFrontFaceAtRest(t *testing.T) {
	app, screen := newTestApp(t)
	app.Draw()

	assert.Equal(t, '♥', runeAt(screen, 40, 12))
	assert.Equal(t, 'A', runeAt(screen, 29, 6))
	assert.Contains(t, row(screen, 23), "physics:off")
	assert.Contains(t, row(screen, 23), "flips:0")
}

func TestFlipSqueezesThenShowsBack(t *testing.T) {
	app, screen := newTestApp(t)
	require.True(t, app.HandleEvent(key(' ')))

	app.Update(0)
	// Halfway through a plain flip the card is edge-on
	view := app.Update(200 * time.Millisecond)
	require.True(t, view.State.IsFlipping)
	app.Draw()
	assert.Equal(t, ' ', runeAt(screen, 40, 12))
	assert.NotContains(t, row(screen, 12), "♥")

	app.Update(400 * time.Millisecond)
	app.Draw()
	assert.Equal(t, '◆', runeAt(screen, 40, 12))
	assert.Contains(t, row(screen, 23), "flips:1")
}

func TestMouseDoubleClickFlips(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(0)
	mouse(app, 40, 12, tcell.Button1)
	mouse(app, 40, 12, tcell.ButtonNone)
	app.Update(50 * time.Millisecond)
	mouse(app, 41, 12, tcell.Button1)
	mouse(app, 41, 12, tcell.ButtonNone)

	assert.Equal(t, 1, app.Card().Flips())
	assert.False(t, app.Card().Selected())
}

func TestMouseSingleClickSelects(t *testing.T) {
	app, screen := newTestApp(t)

	app.Update(0)
	mouse(app, 40, 12, tcell.Button1)
	mouse(app, 40, 12, tcell.ButtonNone)
	app.Update(time.Second)
	app.Draw()

	assert.True(t, app.Card().Selected())
	assert.Equal(t, '▄', runeAt(screen, 40, 5))
}

func TestMouseDragMovesCard(t *testing.T) {
	app, _ := newTestApp(t)

	mouse(app, 40, 12, tcell.Button1)
	mouse(app, 45, 12, tcell.Button1)
	mouse(app, 45, 12, tcell.ButtonNone)
	app.Update(time.Second)

	assert.Equal(t, 45.0, app.Card().X)
	assert.Zero(t, app.Card().Flips())
	assert.False(t, app.Card().Selected())
}

func TestKeys(t *testing.T) {
	app, _ := newTestApp(t)

	assert.True(t, app.HandleEvent(key('p')))
	assert.True(t, app.Card().Engine().PhysicsEnabled())
	assert.True(t, app.HandleEvent(key('l')))
	assert.False(t, app.Card().Lighting())

	assert.False(t, app.HandleEvent(key('q')))
	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestLoopStopsOnQuit(t *testing.T) {
	app, screen := newTestApp(t)

	done := make(chan struct{})
	go func() {
		app.Loop(context.Background())
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopStopsOnContext(t *testing.T) {
	app, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Loop(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}
