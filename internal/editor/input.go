package editor

import (
	"github.com/sirupsen/logrus"

	"github.com/example/regionmark/internal/geom"
	"github.com/example/regionmark/internal/pick"
	"github.com/example/regionmark/internal/polygon"
)

type vertexHandle struct {
	pick.Square
	vertex *polygon.Vertex
	owner  *polygon.Polygon
}

type markerHandle struct {
	pick.Square
}

type polygonBody struct {
	pick.Body
	annotation *Annotation
}

// Handle routes ev to the matching handler.
func (e *Editor) Handle(ev PointerEvent) {
	switch ev.Type {
	case EventDown:
		e.PointerDown(ev)
	case EventUp:
		e.PointerUp(ev)
	case EventMove:
		e.PointerMove(ev)
	case EventClick:
		e.Click(ev)
	case EventWheel:
		e.Wheel(ev)
	}
}

func (e *Editor) polygonEditable() bool {
	return e.mode.solutionEditable() || e.mode.annotationsEditable()
}

// rebuildRegistry registers everything pickable in priority order.
func (e *Editor) rebuildRegistry() *pick.Registry {
	r := &e.registry
	r.Reset()
	for _, c := range e.controls {
		r.Add(pick.TierControl, c)
	}
	for _, c := range e.colorControls {
		r.Add(pick.TierControl, c)
	}
	view := e.vp.View
	if e.polygonEditable() && e.active != nil {
		for _, v := range e.active.Vertices() {
			r.Add(pick.TierVertex, &vertexHandle{
				Square: pick.Square{Center: view.ToView(v.Position), Size: e.opts.HandleSize},
				vertex: v,
				owner:  e.active,
			})
		}
	}
	if e.mode.answerEditable() && e.answer != nil {
		r.Add(pick.TierVertex, &markerHandle{
			Square: pick.Square{Center: view.ToView(*e.answer), Size: e.opts.HandleSize},
		})
	}
	if e.mode.annotationsVisible() {
		for _, a := range e.annotations {
			r.Add(pick.TierAnnotation, &polygonBody{Body: pick.Body{Polygon: a.Polygon, View: view}, annotation: a})
		}
	}
	if e.mode.solutionVisible() && e.solution != nil {
		r.Add(pick.TierSolution, &polygonBody{Body: pick.Body{Polygon: e.solution, View: view}})
	}
	return r
}

// Pick returns the element under the view-space position p, or nil.
func (e *Editor) Pick(p geom.Point) pick.Pickable {
	return e.rebuildRegistry().Pick(p)
}

// PointerDown starts a pan, or a drag of a vertex or the answer marker when
// one is grabbed in the matching state.
func (e *Editor) PointerDown(ev PointerEvent) {
	if e.usedAfterDispose("pointer down") || ev.Button != ButtonPrimary {
		return
	}
	switch t := e.Pick(ev.Pos).(type) {
	case *Control:
		return
	case *vertexHandle:
		if e.state == StatePolygonMove {
			e.vp.Press(ev.Pos, &t.vertex.Position)
			e.dragOwner = t.owner
			return
		}
	case *markerHandle:
		if e.state == StateMarkerDraw {
			e.vp.Press(ev.Pos, e.answer)
			e.dragMarker = true
			return
		}
	}
	e.vp.Press(ev.Pos, nil)
}

// PointerUp ends any drag. It must be delivered for releases anywhere, not
// only over the editor.
func (e *Editor) PointerUp(ev PointerEvent) {
	if e.usedAfterDispose("pointer up") || ev.Button != ButtonPrimary {
		return
	}
	dragged := e.vp.Target() != nil
	e.vp.Release()
	e.dragOwner = nil
	e.dragMarker = false
	if dragged {
		e.refreshContainment()
		e.dirty = true
	}
}

// PointerMove pans, drags, or updates the hover feedback.
func (e *Editor) PointerMove(ev PointerEvent) {
	if e.usedAfterDispose("pointer move") {
		return
	}
	moved := e.vp.Move(ev.Pos)
	if e.vp.Dragging() {
		if moved {
			e.dragged()
		}
		e.dirty = true
		return
	}

	oldTip, oldControl, oldVertex := e.tooltip, e.hoverControl, e.hoverVertex
	e.tooltip, e.hoverControl, e.hoverVertex = "", nil, nil
	switch t := e.Pick(ev.Pos).(type) {
	case *Control:
		e.tooltip = t.Tooltip
		e.hoverControl = t
	case *vertexHandle:
		e.hoverVertex = t.vertex
	}
	if oldTip != e.tooltip || oldControl != e.hoverControl || oldVertex != e.hoverVertex {
		e.dirty = true
	}
	if e.polygonEditable() {
		// rubber band follows the pointer
		e.dirty = true
	}
}

func (e *Editor) dragged() {
	live := e.opts.Containment == ContainmentLive
	switch {
	case e.dragMarker:
		if live {
			e.refreshContainment()
		}
		e.emitAnswer()
	case e.dragOwner != nil:
		if live && e.dragOwner == e.solution {
			e.refreshContainment()
		}
		e.changed(e.dragOwner)
	}
}

// Wheel zooms one step per event. Upward ticks zoom out.
func (e *Editor) Wheel(ev PointerEvent) {
	if e.usedAfterDispose("wheel") {
		return
	}
	switch {
	case ev.Wheel < 0:
		e.ZoomOut()
	case ev.Wheel > 0:
		e.ZoomIn()
	}
}

// Click applies the click semantics of the current state. The element
// under the pointer gets the first chance to handle it.
func (e *Editor) Click(ev PointerEvent) {
	if e.usedAfterDispose("click") || ev.Button != ButtonPrimary {
		return
	}
	switch t := e.Pick(ev.Pos).(type) {
	case *Control:
		e.activate(t)
		return
	case *vertexHandle:
		if e.clickVertex(t) {
			return
		}
	case *polygonBody:
		if e.clickBody(t) {
			return
		}
	}
	e.clickEmpty(ev)
}

func (e *Editor) clickVertex(h *vertexHandle) bool {
	switch e.state {
	case StatePolygonPointDelete:
		if !h.owner.DeleteVertex(h.vertex) {
			return true
		}
		e.log.WithFields(logrus.Fields{"remaining": h.owner.Len()}).Debug("vertex deleted")
		if h.owner == e.solution {
			e.refreshContainment()
			e.emitSolution()
		} else {
			e.emitAnnotations()
		}
		e.dirty = true
		return true
	case StatePolygonDraw:
		if h.vertex == h.owner.Initial() && h.owner.Len() > 2 {
			e.closePolygon(h.owner)
			return true
		}
	}
	return false
}

func (e *Editor) clickBody(b *polygonBody) bool {
	editable := e.mode.solutionEditable()
	if b.annotation != nil {
		editable = e.mode.annotationsEditable()
	}
	if !editable {
		return false
	}
	if e.active != b.Polygon {
		e.active = b.Polygon
		e.log.WithField("annotation", b.annotation != nil).Debug("polygon selected")
	}
	e.dirty = true
	return true
}

func (e *Editor) clickEmpty(ev PointerEvent) {
	pos := e.vp.View.ToImage(ev.Pos)
	switch e.state {
	case StateMarkerDraw:
		e.SetAnswer(&pos)
	case StatePolygonDraw:
		if ev.Mods.Has(ModShift) {
			if e.active != nil {
				e.closePolygon(e.active)
			}
			return
		}
		e.appendVertex(pos)
	case StatePolygonMove, StatePolygonPointDelete:
	default:
		e.deselect()
	}
}

func (e *Editor) appendVertex(pos geom.Point) {
	if e.active == nil {
		switch {
		case e.mode.solutionEditable():
			if e.solution == nil {
				e.solution = polygon.New()
			}
			e.active = e.solution
		case e.mode.annotationsEditable():
			e.active = e.addAnnotation(polygon.New(), "").Polygon
		default:
			e.misuse("polygon drawing without an editable polygon")
			return
		}
	}
	e.active.AddVertex(polygon.NewVertex(pos))
	if e.active == e.solution {
		e.refreshContainment()
	}
	e.changed(e.active)
	e.dirty = true
}

// closePolygon ends a drawing session on p. The state returns to idle even
// when p has too few vertices to close.
func (e *Editor) closePolygon(p *polygon.Polygon) {
	closed := p.Close()
	e.setState(e.baseState())
	e.log.WithFields(logrus.Fields{"closed": closed, "vertices": p.Len()}).Debug("drawing finished")
	if p == e.solution {
		e.refreshContainment()
		e.emitSolution()
	} else {
		e.cleanup()
		e.emitAnnotations()
	}
	e.dirty = true
}

func (e *Editor) deselect() {
	if e.active == nil {
		return
	}
	e.active = nil
	if e.cleanup() > 0 {
		e.emitAnnotations()
	}
	e.dirty = true
}
