package flip

// lightingParallax is the extra Y rotation, in degrees, per unit of
// horizontal pointer offset from the card centre
const lightingParallax = 1.5

// Pointer is a pointer position normalized to [0,1]×[0,1] over the card
type Pointer struct {
	X, Y     float64
	Hovering bool
}

// Tilt is the ambient rotation, in degrees, derived from pointer tracking
type Tilt struct {
	X, Y float64
}

// Composer merges physics-driven motion with pointer-driven tilt
type Composer struct {
	// InteractiveLighting adds a light-relative parallax term while hovering
	InteractiveLighting bool
}

// Compose returns the transform handed to the renderer. A running flip is
// passed through untouched so pointer motion never fights the animation;
// at rest the pointer tilt is added on top of the resting face.
func (c Composer) Compose(state State, tilt Tilt, pointer Pointer) Transform {
	if state.IsFlipping {
		return ProjectTransform(state)
	}

	rotateY := state.RotationY + tilt.Y
	if c.InteractiveLighting && pointer.Hovering {
		rotateY += (pointer.X - 0.5) * lightingParallax
	}

	return Transform{
		Perspective: DefaultPerspective,
		TranslateZ:  state.ZOffset,
		RotateX:     tilt.X,
		RotateY:     rotateY,
		RotateZ:     state.RotationZ,
		Scale:       state.Scale,
	}
}
