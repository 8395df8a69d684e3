package game

import (
	"image/color"
	"math"

	"cardflip/card"
	"cardflip/flip"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// shadowLayers approximates the blur with stacked translucent rectangles
const shadowLayers = 6

var (
	colorBackground = color.RGBA{34, 68, 52, 255}
	colorSelected   = color.RGBA{255, 214, 92, 255}
	colorWireframe  = color.RGBA{255, 0, 255, 255}
)

// Renderer draws the card
type Renderer struct {
	front *ebiten.Image
	back  *ebiten.Image

	vertices [4]ebiten.Vertex
	indices  []uint16
}

// NewRenderer uploads the rasterized faces
func NewRenderer(faces *card.Faces) *Renderer {
	return &Renderer{
		front:   ebiten.NewImageFromImage(faces.Front),
		back:    ebiten.NewImageFromImage(faces.Back),
		indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// Render draws one frame of the card
func (r *Renderer) Render(screen *ebiten.Image, v card.View) {
	screen.Fill(colorBackground)

	quad := v.Transform.ProjectQuad(v.Width, v.Height)
	for i := range quad {
		quad[i] = quad[i].Add(mgl64.Vec2{v.X, v.Y})
	}

	r.renderShadow(screen, quad, v.Shadow)

	// The winding of the projected quad decides which face is visible
	front := flip.FrontFacing(quad)
	r.renderFace(screen, quad, front)

	if v.Selected {
		r.strokeQuad(screen, quad, 3, colorSelected)
	}
	if GetDebugState().ShowWireframe {
		r.strokeQuad(screen, quad, 1, colorWireframe)
		for _, c := range quad {
			vector.DrawFilledCircle(screen, float32(c[0]), float32(c[1]), 3, colorWireframe, true)
		}
	}
}

// renderShadow draws the drop shadow below the quad's bounding box
func (r *Renderer) renderShadow(screen *ebiten.Image, quad [4]mgl64.Vec2, s flip.Shadow) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range quad {
		minX, maxX = math.Min(minX, c[0]), math.Max(maxX, c[0])
		minY, maxY = math.Min(minY, c[1]), math.Max(maxY, c[1])
	}

	// Each layer grows by a share of the blur radius; together the layers
	// add up to the requested opacity at the core
	step := s.Blur / 2 / shadowLayers
	alpha := s.Opacity / shadowLayers
	for i := shadowLayers - 1; i >= 0; i-- {
		grow := step * float64(i)
		a := uint8(math.Round(math.Min(alpha, 1) * 255))
		vector.DrawFilledRect(screen,
			float32(minX-grow), float32(minY+s.OffsetY-grow),
			float32(maxX-minX+2*grow), float32(maxY-minY+2*grow),
			color.RGBA{0, 0, 0, a}, true)
	}
}

// renderFace maps the visible face onto the projected quad
func (r *Renderer) renderFace(screen *ebiten.Image, quad [4]mgl64.Vec2, front bool) {
	img := r.front
	if !front {
		img = r.back
	}
	w := float32(img.Bounds().Dx())
	h := float32(img.Bounds().Dy())

	// Corners in quad order: top-left, top-right, bottom-right, bottom-left
	src := [4][2]float32{{0, 0}, {w, 0}, {w, h}, {0, h}}
	if !front {
		// The back is seen through the card, so its texture is mirrored
		src = [4][2]float32{{w, 0}, {0, 0}, {0, h}, {w, h}}
	}

	face := flip.FaceVisibility(front)
	for i, c := range quad {
		r.vertices[i] = ebiten.Vertex{
			DstX:   float32(c[0]),
			DstY:   float32(c[1]),
			SrcX:   src[i][0],
			SrcY:   src[i][1],
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: float32(face.Opacity),
		}
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.Filter = ebiten.FilterLinear
	screen.DrawTriangles(r.vertices[:], r.indices, img, op)
}

func (r *Renderer) strokeQuad(screen *ebiten.Image, quad [4]mgl64.Vec2, width float32, clr color.Color) {
	for i := range quad {
		a, b := quad[i], quad[(i+1)%len(quad)]
		vector.StrokeLine(screen, float32(a[0]), float32(a[1]), float32(b[0]), float32(b[1]), width, clr, true)
	}
}
