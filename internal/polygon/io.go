package polygon

import "github.com/example/regionmark/internal/geom"

// Import builds a polygon from points. Reading stops at the first later
// point equal to the first one; such a point marks a pre-closed polygon and
// closes it. A repeat after only two points leaves an open two-vertex
// polygon, so it exports without the repeat. Fewer than one point yields nil.
func Import(points []geom.Point) *Polygon {
	if len(points) < 1 {
		return nil
	}
	p := New()
	p.AddVertex(NewVertex(points[0]))
	for _, pt := range points[1:] {
		if pt.Eq(points[0]) {
			p.Close()
			break
		}
		p.AddVertex(NewVertex(pt))
	}
	return p
}

// Export returns the vertex positions, repeating the first one at the end
// when the polygon is closed. A nil polygon exports as an empty slice.
func Export(p *Polygon) []geom.Point {
	if p == nil {
		return []geom.Point{}
	}
	out := p.Points()
	if p.IsClosed() {
		out = append(out, out[0])
	}
	return out
}
