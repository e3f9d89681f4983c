// Package pick resolves a view-space pointer position to the interactive
// element under it.
package pick

import (
	"github.com/example/regionmark/internal/geom"
	"github.com/example/regionmark/internal/polygon"
)

// Tier orders pickable elements. Lower tiers win.
type Tier int

const (
	TierControl Tier = iota
	TierVertex
	TierAnnotation
	TierSolution
	tierCount
)

func (t Tier) String() string {
	switch t {
	case TierControl:
		return "control"
	case TierVertex:
		return "vertex"
	case TierAnnotation:
		return "annotation"
	case TierSolution:
		return "solution"
	}
	return "unknown"
}

// Pickable is anything that can be hit by the pointer.
type Pickable interface {
	Hit(view geom.Point) bool
}

// Registry holds pickables grouped by tier, each tier in insertion order.
type Registry struct {
	tiers [tierCount][]Pickable
}

// Add registers p in tier t. Out of range tiers are ignored.
func (r *Registry) Add(t Tier, p Pickable) {
	if t < 0 || t >= tierCount || p == nil {
		return
	}
	r.tiers[t] = append(r.tiers[t], p)
}

// Reset drops every registration while keeping the backing storage.
func (r *Registry) Reset() {
	for i := range r.tiers {
		clear(r.tiers[i])
		r.tiers[i] = r.tiers[i][:0]
	}
}

// Len returns the number of registered elements.
func (r *Registry) Len() int {
	n := 0
	for _, t := range r.tiers {
		n += len(t)
	}
	return n
}

// Pick returns the first element hit at p, scanning tiers in priority
// order, or nil.
func (r *Registry) Pick(p geom.Point) Pickable {
	for _, tier := range r.tiers {
		for _, el := range tier {
			if el.Hit(p) {
				return el
			}
		}
	}
	return nil
}

// Disc is a circular hit area.
type Disc struct {
	Center geom.Point
	Radius float64
}

// Hit uses the squared distance so no root is taken.
func (d Disc) Hit(p geom.Point) bool {
	return p.Dist2(d.Center) <= d.Radius*d.Radius
}

// Square is an axis aligned square hit area of side Size around Center.
type Square struct {
	Center geom.Point
	Size   float64
}

func (s Square) Hit(p geom.Point) bool {
	h := s.Size / 2
	return p.X >= s.Center.X-h && p.X <= s.Center.X+h &&
		p.Y >= s.Center.Y-h && p.Y <= s.Center.Y+h
}

// Body hits the interior of a closed polygon. The pointer is taken back to
// image space through View and pre-rejected against the polygon bounds.
type Body struct {
	Polygon *polygon.Polygon
	View    geom.View
}

func (b Body) Hit(p geom.Point) bool {
	if b.Polygon == nil || !b.Polygon.IsClosed() {
		return false
	}
	ip := b.View.ToImage(p)
	if !b.Polygon.Bounds().In(ip) {
		return false
	}
	return b.Polygon.Contains(ip)
}
