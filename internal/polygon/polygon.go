// Package polygon implements the editable, possibly open polygon used for
// solutions and annotations.
package polygon

import (
	"gonum.org/v1/gonum/floats"

	"github.com/example/regionmark/internal/geom"
)

// Vertex is a polygon corner in image space. A vertex is identified by its
// pointer; two vertices with equal coordinates are still distinct.
type Vertex struct {
	Position geom.Point
}

// NewVertex allocates a vertex at p.
func NewVertex(p geom.Point) *Vertex { return &Vertex{Position: p} }

// Polygon is an ordered vertex sequence with a separate closed flag. The
// closing edge runs from the last vertex back to the first.
type Polygon struct {
	vertices []*Vertex
	closed   bool
}

// New returns an empty, open polygon.
func New() *Polygon { return &Polygon{} }

// Len returns the number of vertices.
func (p *Polygon) Len() int { return len(p.vertices) }

// Vertices returns the vertices in order without a closing duplicate.
func (p *Polygon) Vertices() []*Vertex {
	out := make([]*Vertex, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Points returns the vertex positions in order.
func (p *Polygon) Points() []geom.Point {
	out := make([]geom.Point, len(p.vertices))
	for i, v := range p.vertices {
		out[i] = v.Position
	}
	return out
}

// Initial returns the first vertex or nil.
func (p *Polygon) Initial() *Vertex {
	if len(p.vertices) == 0 {
		return nil
	}
	return p.vertices[0]
}

// Last returns the final vertex or nil.
func (p *Polygon) Last() *Vertex {
	if len(p.vertices) == 0 {
		return nil
	}
	return p.vertices[len(p.vertices)-1]
}

// IndexOf returns the position of v or -1.
func (p *Polygon) IndexOf(v *Vertex) int {
	for i, cur := range p.vertices {
		if cur == v {
			return i
		}
	}
	return -1
}

// Has reports whether v belongs to p.
func (p *Polygon) Has(v *Vertex) bool { return p.IndexOf(v) >= 0 }

// AddVertex appends v. Appending to a closed polygon opens it again, the new
// vertex becoming the open end. Nil or already present vertices are ignored.
func (p *Polygon) AddVertex(v *Vertex) bool {
	if v == nil || p.Has(v) {
		return false
	}
	p.vertices = append(p.vertices, v)
	p.closed = false
	return true
}

// DeleteVertex removes v by identity. The closing edge survives only when
// neither of its endpoints was removed and at least three vertices remain.
func (p *Polygon) DeleteVertex(v *Vertex) bool {
	i := p.IndexOf(v)
	if i < 0 {
		return false
	}
	last := len(p.vertices) - 1
	copy(p.vertices[i:], p.vertices[i+1:])
	p.vertices[last] = nil
	p.vertices = p.vertices[:last]
	if i == 0 || i == last || len(p.vertices) < 3 {
		p.closed = false
	}
	return true
}

// IsClosed reports whether the closing edge exists.
func (p *Polygon) IsClosed() bool { return p.closed && len(p.vertices) >= 3 }

// Close adds the closing edge. It has no effect with fewer than three
// vertices.
func (p *Polygon) Close() bool {
	if len(p.vertices) <= 2 {
		return false
	}
	p.closed = true
	return true
}

// Contains reports whether pt lies inside the closed polygon using the
// non-zero winding rule. Open polygons contain nothing.
func (p *Polygon) Contains(pt geom.Point) bool {
	if !p.IsClosed() {
		return false
	}
	return p.Winding(pt) != 0
}

// Winding returns the winding number of the polygon around pt, treating the
// vertex sequence as closed.
func (p *Polygon) Winding(pt geom.Point) int {
	wn := 0
	n := len(p.vertices)
	for i := 0; i < n; i++ {
		a := p.vertices[i].Position
		b := p.vertices[(i+1)%n].Position
		if a.Y <= pt.Y {
			if b.Y > pt.Y && isLeft(a, b, pt) > 0 {
				wn++
			}
		} else if b.Y <= pt.Y && isLeft(a, b, pt) < 0 {
			wn--
		}
	}
	return wn
}

// isLeft is positive when c is left of the directed line a->b, negative when
// right and zero when collinear.
func isLeft(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// Bounds returns the bounding box of the vertices. An empty polygon yields
// an empty rectangle.
func (p *Polygon) Bounds() geom.Rect {
	if len(p.vertices) == 0 {
		return geom.Rect{Min: geom.Pt(1, 1), Max: geom.Pt(0, 0)}
	}
	xs := make([]float64, len(p.vertices))
	ys := make([]float64, len(p.vertices))
	for i, v := range p.vertices {
		xs[i] = v.Position.X
		ys[i] = v.Position.Y
	}
	return geom.Rect{
		Min: geom.Pt(floats.Min(xs), floats.Min(ys)),
		Max: geom.Pt(floats.Max(xs), floats.Max(ys)),
	}
}
