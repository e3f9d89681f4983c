package editor

import "github.com/example/regionmark/internal/geom"

// Kind tells the renderer which role a polygon plays.
type Kind int

const (
	KindAnnotation Kind = iota
	KindSolution
)

// Tone is the answer marker coloring.
type Tone int

const (
	// ToneNeutral is used when the solution is not shown.
	ToneNeutral Tone = iota
	ToneInside
	ToneOutside
)

// Scene is an immutable view-space snapshot of everything to draw.
type Scene struct {
	View       geom.View
	State      State
	Polygons   []ScenePolygon
	Handles    []SceneHandle
	RubberBand *Segment
	Answer     *SceneAnswer
	Controls   []SceneControl
	Tooltip    string
	TooltipAt  geom.Point
}

// ScenePolygon is a polygon outline in view space.
type ScenePolygon struct {
	Kind   Kind
	Points []geom.Point
	Closed bool
	Color  string
	Active bool
}

// SceneHandle is a vertex handle. Hot marks the hovered handle, Closes
// marks the initial vertex while a click on it would close the polygon.
type SceneHandle struct {
	Center geom.Point
	Size   float64
	Hot    bool
	Closes bool
}

// Segment is a line in view space.
type Segment struct {
	From, To geom.Point
}

// SceneAnswer is the answer marker.
type SceneAnswer struct {
	Pos  geom.Point
	Tone Tone
}

// SceneControl is a control ready to draw.
type SceneControl struct {
	Name    string
	Center  geom.Point
	Radius  float64
	Glyph   string
	Color   string
	Enabled bool
	Hover   bool
}

// TakeScene returns a snapshot and clears the dirty flag. It returns false
// when nothing changed since the previous snapshot or after Dispose.
func (e *Editor) TakeScene() (Scene, bool) {
	if e.disposed || !e.dirty {
		return Scene{}, false
	}
	e.dirty = false
	return e.Scene(), true
}

// Scene builds a snapshot regardless of the dirty flag. Enabled predicates
// are evaluated once here.
func (e *Editor) Scene() Scene {
	view := e.vp.View
	s := Scene{View: view, State: e.state, Tooltip: e.tooltip}
	if last, ok := e.vp.Last(); ok {
		s.TooltipAt = last
	}

	if e.mode.annotationsVisible() {
		for _, a := range e.annotations {
			s.Polygons = append(s.Polygons, ScenePolygon{
				Kind:   KindAnnotation,
				Points: toView(view, a.Polygon.Points()),
				Closed: a.Polygon.IsClosed(),
				Color:  a.Color,
				Active: a.Polygon == e.active,
			})
		}
	}
	if e.mode.solutionVisible() && e.solution != nil {
		s.Polygons = append(s.Polygons, ScenePolygon{
			Kind:   KindSolution,
			Points: toView(view, e.solution.Points()),
			Closed: e.solution.IsClosed(),
			Active: e.solution == e.active,
		})
	}

	if e.polygonEditable() && e.active != nil {
		initial := e.active.Initial()
		closable := e.state == StatePolygonDraw && e.active.Len() > 2 && !e.active.IsClosed()
		for _, v := range e.active.Vertices() {
			s.Handles = append(s.Handles, SceneHandle{
				Center: view.ToView(v.Position),
				Size:   e.opts.HandleSize,
				Hot:    v == e.hoverVertex,
				Closes: closable && v == initial,
			})
		}
		if e.state == StatePolygonDraw && !e.active.IsClosed() && e.active.Len() > 0 {
			if last, ok := e.vp.Last(); ok && !e.vp.Dragging() {
				s.RubberBand = &Segment{From: view.ToView(e.active.Last().Position), To: last}
			}
		}
	}

	if e.mode.answerVisible() && e.answer != nil {
		tone := ToneNeutral
		if e.mode.solutionVisible() {
			tone = ToneOutside
			if e.answerInside {
				tone = ToneInside
			}
		}
		s.Answer = &SceneAnswer{Pos: view.ToView(*e.answer), Tone: tone}
	}

	for _, c := range e.controls {
		s.Controls = append(s.Controls, sceneControl(c, c == e.hoverControl))
	}
	for _, c := range e.colorControls {
		s.Controls = append(s.Controls, sceneControl(c, c == e.hoverControl))
	}
	return s
}

func sceneControl(c *Control, hover bool) SceneControl {
	return SceneControl{
		Name:    c.Name,
		Center:  c.Center,
		Radius:  c.Radius,
		Glyph:   c.Glyph,
		Color:   c.Color,
		Enabled: c.Enabled.Eval(),
		Hover:   hover,
	}
}

func toView(v geom.View, pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = v.ToView(p)
	}
	return out
}
