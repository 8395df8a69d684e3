package game

import (
	"fmt"
	"image/color"
	"strings"

	"cardflip/card"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const hudLineHeight = 14

var hudFace = text.NewGoXFace(basicfont.Face7x13)

// HUDStatus is the viewer-level information shown next to the card state
type HUDStatus struct {
	FPS      float64
	Physics  bool
	Lighting bool
	Flips    int
}

// FormatHUD renders the overlay text
func FormatHUD(v card.View, s HUDStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.0f  flips: %d\n", s.FPS, s.Flips)
	fmt.Fprintf(&b, "physics: %s  lighting: %s\n", onOff(s.Physics), onOff(s.Lighting))

	st := v.State
	face := "front"
	if !st.ShowingFront {
		face = "back"
	}
	fmt.Fprintf(&b, "face: %s  flipping: %t  progress: %.2f\n", face, st.IsFlipping, st.Progress)
	fmt.Fprintf(&b, "rot x/y/z: %6.1f %6.1f %6.1f\n", v.Transform.RotateX, v.Transform.RotateY, v.Transform.RotateZ)
	fmt.Fprintf(&b, "scale: %.3f  lift: %.1f  shadow: %.2f\n", st.Scale, st.ZOffset, v.Shadow.Opacity)
	b.WriteString("double-click/space: flip  drag: move  P: physics  L: lighting  F1: hud  F2: wireframe")
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// drawHUD draws the overlay in the top-left corner
func drawHUD(screen *ebiten.Image, msg string) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(10, 10)
	op.ColorScale.ScaleWithColor(color.White)
	op.LineSpacing = hudLineHeight
	text.Draw(screen, msg, hudFace, op)
}
