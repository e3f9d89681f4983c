package editor

import "github.com/example/regionmark/internal/geom"

// Viewport owns pan, zoom and element drags. It is independent of the edit
// state: the editor decides what is being dragged, Viewport applies the
// motion.
type Viewport struct {
	View geom.View
	Step float64

	down   bool
	target *geom.Point
	last   geom.Point
	seen   bool
}

// NewViewport returns a controller for a viewport of the given size.
func NewViewport(size geom.Size, step float64) *Viewport {
	if step <= 0 || step >= 1 {
		step = geom.DefaultScaleStep
	}
	return &Viewport{View: geom.NewView(size), Step: step}
}

func (vp *Viewport) ZoomIn()  { vp.View.ZoomIn(vp.Step) }
func (vp *Viewport) ZoomOut() { vp.View.ZoomOut(vp.Step) }

// Press starts a drag at pos. A nil target pans the view, otherwise the
// pointed-to image-space position follows the pointer.
func (vp *Viewport) Press(pos geom.Point, target *geom.Point) {
	vp.down = true
	vp.target = target
	vp.last = pos
	vp.seen = true
}

// Release ends any drag.
func (vp *Viewport) Release() {
	vp.down = false
	vp.target = nil
}

// Dragging reports whether a press is active.
func (vp *Viewport) Dragging() bool { return vp.down }

// Target returns the element being dragged or nil while panning or idle.
func (vp *Viewport) Target() *geom.Point { return vp.target }

// Move records the pointer position. While pressed it pans the view by the
// image-space delta or moves the target by it. The returned flag reports
// whether an element moved.
func (vp *Viewport) Move(pos geom.Point) bool {
	var delta geom.Point
	if vp.seen {
		delta = pos.Sub(vp.last)
	}
	vp.last = pos
	vp.seen = true
	if !vp.down {
		return false
	}
	d := vp.View.ToImageDelta(delta)
	if vp.target == nil {
		vp.View.Pan(d)
		return false
	}
	*vp.target = vp.target.Add(d)
	return true
}

// Last returns the most recent pointer position.
func (vp *Viewport) Last() (geom.Point, bool) { return vp.last, vp.seen }
