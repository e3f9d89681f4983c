package editor

import (
	"github.com/example/regionmark/internal/geom"
	"github.com/example/regionmark/internal/pick"
)

// Control is a circular on-canvas button. Enabled drives the highlight,
// Action runs on click.
type Control struct {
	pick.Disc
	Name    string
	Glyph   string
	Tooltip string
	// Color overrides the themed fill. Color controls carry the palette
	// entry they apply.
	Color   string
	Enabled Enabled
	Action  func()
}

func (e *Editor) buildControls() {
	e.controls = []*Control{
		{Name: "zoom-out", Glyph: "-", Tooltip: "Zoom out", Action: e.ZoomOut},
		{Name: "zoom-in", Glyph: "+", Tooltip: "Zoom in", Action: e.ZoomIn},
	}
	drawing := When(func() bool { return e.state == StatePolygonDraw })
	moving := When(func() bool { return e.state == StatePolygonMove })
	deleting := When(func() bool { return e.state == StatePolygonPointDelete })

	switch {
	case e.mode.answerEditable():
		e.controls = append(e.controls,
			&Control{Name: "delete-answer", Glyph: "X", Tooltip: "Delete answer", Action: e.DeleteAnswer},
			&Control{Name: "set-answer", Glyph: "A", Tooltip: "Set answer",
				Enabled: When(func() bool { return e.state == StateMarkerDraw }),
				Action:  func() { e.Toggle(StateMarkerDraw) }},
		)
	case e.mode.solutionEditable():
		e.controls = append(e.controls,
			&Control{Name: "delete-solution", Glyph: "X", Tooltip: "Delete solution", Action: e.DeleteSolution},
			&Control{Name: "delete-point", Glyph: "D", Tooltip: "Delete solution point", Enabled: deleting,
				Action: func() { e.Toggle(StatePolygonPointDelete) }},
			&Control{Name: "move-point", Glyph: "M", Tooltip: "Move solution point", Enabled: moving,
				Action: func() { e.Toggle(StatePolygonMove) }},
			&Control{Name: "draw-point", Glyph: "P", Tooltip: "Draw solution point (shift-click closes)", Enabled: drawing,
				Action: func() { e.Toggle(StatePolygonDraw) }},
		)
	case e.mode.annotationsEditable():
		e.controls = append(e.controls,
			&Control{Name: "delete-annotation", Glyph: "X", Tooltip: "Delete active annotation",
				Action: func() { e.DeleteAnnotation() }},
			&Control{Name: "delete-point", Glyph: "D", Tooltip: "Delete annotation point", Enabled: deleting,
				Action: func() { e.Toggle(StatePolygonPointDelete) }},
			&Control{Name: "move-point", Glyph: "M", Tooltip: "Move annotation point", Enabled: moving,
				Action: func() { e.Toggle(StatePolygonMove) }},
			&Control{Name: "draw-point", Glyph: "P", Tooltip: "Draw annotation point (shift-click closes)", Enabled: drawing,
				Action: func() { e.Toggle(StatePolygonDraw) }},
			&Control{Name: "new-annotation", Glyph: "N", Tooltip: "Start a new annotation", Enabled: Fixed(true),
				Action: e.NewAnnotation},
		)
		hasActive := When(func() bool { return e.activeAnnotation() != nil })
		for _, c := range e.palette {
			col := c
			e.colorControls = append(e.colorControls, &Control{
				Name:    "color " + col,
				Tooltip: "Color annotation " + col,
				Color:   col,
				Enabled: hasActive,
				Action:  func() { e.SetActiveColor(col) },
			})
		}
	}
}

// AddControl appends a control to the right-hand column above the built-in
// ones. A control without an Action reports misuse when clicked.
func (e *Editor) AddControl(c *Control) {
	if e.usedAfterDispose("add control") || c == nil {
		return
	}
	e.controls = append(e.controls, c)
	e.layout()
	e.dirty = true
}

// Control returns the control with the given name or nil.
func (e *Editor) Control(name string) *Control {
	for _, c := range e.controls {
		if c.Name == name {
			return c
		}
	}
	for _, c := range e.colorControls {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// layout stacks controls bottom-up: the mode controls in the right column,
// palette colors in the left one.
func (e *Editor) layout() {
	r := e.opts.ButtonRadius
	pad := e.opts.ButtonPadding
	gap := 2*r + pad
	size := e.vp.View.Viewport
	for i, c := range e.controls {
		c.Disc = pick.Disc{
			Center: geom.Pt(size.W-r-pad, size.H-r-pad-gap*float64(i)),
			Radius: r,
		}
	}
	for i, c := range e.colorControls {
		c.Disc = pick.Disc{
			Center: geom.Pt(r+pad, size.H-r-pad-gap*float64(i)),
			Radius: r,
		}
	}
}

func (e *Editor) activate(c *Control) {
	e.log.WithField("control", c.Name).Debug("control activated")
	if c.Action == nil {
		e.misuse("no click action set for control " + c.Name)
		return
	}
	c.Action()
	e.dirty = true
}
