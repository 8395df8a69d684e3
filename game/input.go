package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerEvent is one pointer edge or position sample in screen space
type PointerEvent struct {
	X, Y     float64
	Pressed  bool // button went down this frame
	Released bool // button went up this frame
	Inside   bool // pointer is over the window
}

// PointerInput merges the mouse and the first touch into a single pointer
type PointerInput struct {
	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
	lastX    float64
	lastY    float64
}

// NewPointerInput creates a new pointer input
func NewPointerInput() *PointerInput {
	return &PointerInput{touchIDs: make([]ebiten.TouchID, 0, 4)}
}

// Poll samples the pointer for this frame
func (p *PointerInput) Poll(screenWidth, screenHeight int) PointerEvent {
	// A touch owns the pointer until it lifts
	if p.touching {
		if inpututil.IsTouchJustReleased(p.touch) {
			p.touching = false
			return PointerEvent{X: p.lastX, Y: p.lastY, Released: true, Inside: true}
		}
		x, y := ebiten.TouchPosition(p.touch)
		p.lastX, p.lastY = float64(x), float64(y)
		return PointerEvent{X: p.lastX, Y: p.lastY, Inside: true}
	}

	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		p.touch = p.touchIDs[0]
		p.touching = true
		x, y := ebiten.TouchPosition(p.touch)
		p.lastX, p.lastY = float64(x), float64(y)
		return PointerEvent{X: p.lastX, Y: p.lastY, Pressed: true, Inside: true}
	}

	x, y := ebiten.CursorPosition()
	p.lastX, p.lastY = float64(x), float64(y)
	return PointerEvent{
		X:        p.lastX,
		Y:        p.lastY,
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Inside:   x >= 0 && y >= 0 && x < screenWidth && y < screenHeight,
	}
}

// Keys is the set of viewer shortcuts pressed this frame
type Keys struct {
	Flip           bool // Space
	TogglePhysics  bool // P
	ToggleLighting bool // L
	ToggleHUD      bool // F1
	ToggleWire     bool // F2
}

// PollKeys reads the viewer shortcuts
func PollKeys() Keys {
	return Keys{
		Flip:           inpututil.IsKeyJustPressed(ebiten.KeySpace),
		TogglePhysics:  inpututil.IsKeyJustPressed(ebiten.KeyP),
		ToggleLighting: inpututil.IsKeyJustPressed(ebiten.KeyL),
		ToggleHUD:      inpututil.IsKeyJustPressed(ebiten.KeyF1),
		ToggleWire:     inpututil.IsKeyJustPressed(ebiten.KeyF2),
	}
}
