package gesture

import "math"

// DefaultDragDeadZone is how far, in pixels, a pressed pointer must travel
// before the press counts as a drag instead of a click
const DefaultDragDeadZone = 4.0

// DragHandlers receives the gestures recognised by a DragDetector.
// Nil handlers are skipped.
type DragHandlers struct {
	OnClick     func(Click)
	OnDragStart func(x, y float64)
	OnDragMove  func(x, y, dx, dy float64)
	OnDragEnd   func(x, y float64)
}

// DragDetector is a per-pointer press/move/release state machine. Presses
// released inside the dead zone become clicks; anything further is a drag.
type DragDetector struct {
	DeadZone float64
	handlers DragHandlers

	down     bool
	dragging bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
}

// NewDragDetector creates a detector. A non-positive dead zone selects
// DefaultDragDeadZone.
func NewDragDetector(deadZone float64, handlers DragHandlers) *DragDetector {
	if deadZone <= 0 {
		deadZone = DefaultDragDeadZone
	}
	return &DragDetector{DeadZone: deadZone, handlers: handlers}
}

// Press starts tracking a pointer at x, y
func (d *DragDetector) Press(x, y float64) {
	d.down = true
	d.dragging = false
	d.startX, d.startY = x, y
	d.lastX, d.lastY = x, y
}

// Move updates the pointer position while pressed
func (d *DragDetector) Move(x, y float64) {
	if !d.down {
		return
	}

	if !d.dragging {
		if math.Hypot(x-d.startX, y-d.startY) <= d.DeadZone {
			return
		}
		d.dragging = true
		if d.handlers.OnDragStart != nil {
			d.handlers.OnDragStart(d.startX, d.startY)
		}
	}

	dx, dy := x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	if (dx != 0 || dy != 0) && d.handlers.OnDragMove != nil {
		d.handlers.OnDragMove(x, y, dx, dy)
	}
}

// Release ends the press at x, y, emitting a click or the end of a drag
func (d *DragDetector) Release(x, y float64) {
	if !d.down {
		return
	}
	d.Move(x, y)

	if d.dragging {
		if d.handlers.OnDragEnd != nil {
			d.handlers.OnDragEnd(x, y)
		}
	} else if d.handlers.OnClick != nil {
		d.handlers.OnClick(Click{X: d.startX, Y: d.startY})
	}

	d.down = false
	d.dragging = false
}

// Cancel drops the current press without emitting anything
func (d *DragDetector) Cancel() {
	d.down = false
	d.dragging = false
}

// Dragging reports whether the current press has become a drag
func (d *DragDetector) Dragging() bool {
	return d.dragging
}

// Down reports whether a press is being tracked
func (d *DragDetector) Down() bool {
	return d.down
}
