package geom

// DefaultScaleStep is the relative zoom applied per zoom action.
const DefaultScaleStep = 0.1

// View maps image space onto the rendering surface.
//
// Center is the image-space point shown in the middle of the viewport and
// Scale the magnification. The visible origin derived from them is clamped
// to the image on each axis once the image size is known.
type View struct {
	Scale    float64
	Center   Point
	Viewport Size
	Image    Size
}

// NewView returns an identity view for a viewport of the given size.
func NewView(viewport Size) View {
	return View{
		Scale:    1,
		Center:   Point{viewport.W / 2, viewport.H / 2},
		Viewport: viewport,
	}
}

// Origin returns the image-space point drawn at the top-left corner of the
// viewport.
func (v View) Origin() Point {
	s := v.scale()
	visW := v.Viewport.W / s
	visH := v.Viewport.H / s
	o := Point{v.Center.X - visW/2, v.Center.Y - visH/2}
	if !v.Image.Known() {
		return o
	}
	o.X = clampAxis(o.X, visW, v.Image.W)
	o.Y = clampAxis(o.Y, visH, v.Image.H)
	return o
}

// clampAxis pins the visible origin so the view never runs past the far
// image edge, then never before the near one. An image smaller than the view
// is therefore anchored at 0.
func clampAxis(origin, visible, extent float64) float64 {
	if origin+visible > extent {
		origin = extent - visible
	}
	if origin < 0 {
		origin = 0
	}
	return origin
}

// ToImage converts a view-space point to image space.
func (v View) ToImage(p Point) Point {
	return v.Origin().Add(p.Div(v.scale()))
}

// ToView converts an image-space point to view space.
func (v View) ToView(p Point) Point {
	return p.Sub(v.Origin()).Mul(v.scale())
}

// ToImageDelta converts a view-space displacement to image space.
func (v View) ToImageDelta(d Point) Point {
	return d.Div(v.scale())
}

// ImageRect returns the view-space rectangle covered by the image.
func (v View) ImageRect() Rect {
	return Rect{Min: v.ToView(Point{}), Max: v.ToView(Point{v.Image.W, v.Image.H})}
}

// ZoomIn grows the scale by (1+step).
func (v *View) ZoomIn(step float64) { v.Scale = v.scale() * (1 + step) }

// ZoomOut shrinks the scale by (1-step).
func (v *View) ZoomOut(step float64) { v.Scale = v.scale() * (1 - step) }

// Pan moves the visible window by an image-space delta in the opposite
// direction, so dragging right reveals content on the left.
func (v *View) Pan(d Point) {
	v.Center = v.Center.Sub(d)
	if !v.Image.Known() {
		return
	}
	v.Center.X = clamp(v.Center.X, 0, v.Image.W)
	v.Center.Y = clamp(v.Center.Y, 0, v.Image.H)
}

// Fit sets the largest scale that shows the whole image and centers it.
func (v *View) Fit() {
	if !v.Image.Known() || !v.Viewport.Known() {
		return
	}
	sx := v.Viewport.W / v.Image.W
	sy := v.Viewport.H / v.Image.H
	v.Scale = sx
	if sy < sx {
		v.Scale = sy
	}
	v.Center = Point{v.Image.W / 2, v.Image.H / 2}
}

func (v View) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
