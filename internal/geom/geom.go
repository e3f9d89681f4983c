// Package geom holds the small vector types shared by the editor and the
// overlay renderer, plus the view transform between image and view space.
package geom

import "math"

// Point is a position in either image or view space. Which space is implied
// by the caller.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }

// Eq reports coordinate equality. Vertex identity is never derived from it.
func (p Point) Eq(q Point) bool { return p.X == q.X && p.Y == q.Y }

// Dist2 returns the squared distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Size is a width and height pair. A zero Size means "unknown".
type Size struct {
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h float64) Size { return Size{W: w, H: h} }

// Known reports whether both dimensions are positive.
func (s Size) Known() bool { return s.W > 0 && s.H > 0 }

// Rect is an axis aligned box. Max is inclusive.
type Rect struct {
	Min, Max Point
}

// Empty reports whether r encloses no area.
func (r Rect) Empty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

// In reports whether p lies inside r, edges included.
func (r Rect) In(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Round converts p to the nearest integer coordinates.
func (p Point) Round() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
