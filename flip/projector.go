package flip

import (
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPerspective is the viewer distance in pixels applied to every transform
const DefaultPerspective = 1000.0

// Shadow calibration
const (
	shadowBaseBlur      = 40.0
	shadowBlurPerLift   = 0.8
	shadowBaseOffset    = 20.0
	shadowOffsetPerLift = 0.3
	shadowOpacityScale  = 0.7
)

// Face stacking hint handed to renderers
const faceStackOrder = 20

// Transform is a renderer-agnostic 3D pose. Renderers apply it in the
// order perspective, translateZ, rotateX, rotateY, rotateZ, scale.
type Transform struct {
	Perspective float64
	TranslateZ  float64
	RotateX     float64 // degrees
	RotateY     float64 // degrees
	RotateZ     float64 // degrees
	Scale       float64
}

// ProjectTransform builds the transform for a state
func ProjectTransform(s State) Transform {
	return Transform{
		Perspective: DefaultPerspective,
		TranslateZ:  s.ZOffset,
		RotateX:     s.RotationX,
		RotateY:     s.RotationY,
		RotateZ:     s.RotationZ,
		Scale:       s.Scale,
	}
}

// Matrix composes the transform into a single homogeneous matrix
func (t Transform) Matrix() mgl64.Mat4 {
	perspective := mgl64.Ident4()
	if t.Perspective > 0 {
		// Row 3, column 2: w' = w - z/d
		perspective[11] = -1 / t.Perspective
	}

	return perspective.
		Mul4(mgl64.Translate3D(0, 0, t.TranslateZ)).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(t.RotateX))).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.RotateY))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(t.RotateZ))).
		Mul4(mgl64.Scale3D(t.Scale, t.Scale, t.Scale))
}

// Project maps a point on the card plane, relative to the card centre, to
// view-plane coordinates after the perspective divide
func (t Transform) Project(x, y float64) (float64, float64) {
	return projectWith(t.Matrix(), x, y)
}

// ProjectQuad projects the four corners of a w×h card centred on the origin,
// in the order top-left, top-right, bottom-right, bottom-left
func (t Transform) ProjectQuad(w, h float64) [4]mgl64.Vec2 {
	m := t.Matrix()
	hw, hh := w/2, h/2
	corners := [4]mgl64.Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, c := range corners {
		x, y := projectWith(m, c[0], c[1])
		corners[i] = mgl64.Vec2{x, y}
	}
	return corners
}

func projectWith(m mgl64.Mat4, x, y float64) (float64, float64) {
	v := m.Mul4x1(mgl64.Vec4{x, y, 0, 1})
	w := v[3]
	// Points at or behind the eye collapse instead of producing Inf
	if w < 1e-6 {
		w = 1e-6
	}
	return v[0] / w, v[1] / w
}

// FrontFacing reports whether the projected quad is wound clockwise on a
// y-down screen, i.e. the front face is towards the viewer
func FrontFacing(quad [4]mgl64.Vec2) bool {
	area := 0.0
	for i := range quad {
		a, b := quad[i], quad[(i+1)%len(quad)]
		area += a[0]*b[1] - b[0]*a[1]
	}
	return area >= 0
}

// Shadow describes the drop shadow under the card
type Shadow struct {
	Blur    float64 // px
	OffsetY float64 // px
	Opacity float64
}

// ProjectShadow derives the shadow from the lift and shadow intensity
func ProjectShadow(s State) Shadow {
	return Shadow{
		Blur:    shadowBaseBlur + s.ZOffset*shadowBlurPerLift,
		OffsetY: shadowBaseOffset + s.ZOffset*shadowOffsetPerLift,
		Opacity: s.ShadowIntensity * shadowOpacityScale,
	}
}

// Face is a per-face rendering hint
type Face struct {
	Opacity    float64
	StackOrder int
}

// FaceVisibility returns the same hint for both faces. Occlusion comes
// from the rotation itself; the hint only keeps the stacking stable.
func FaceVisibility(isFront bool) Face {
	return Face{Opacity: 1, StackOrder: faceStackOrder}
}
