// Package editor implements the interactive annotation editor: the edit
// state machine, the answer marker, the solution polygon and the annotation
// set, together with pan, zoom and drag handling.
//
// An Editor is not safe for concurrent use. All methods are expected to run
// on the goroutine that delivers input events.
package editor

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/regionmark/internal/geom"
	"github.com/example/regionmark/internal/pick"
	"github.com/example/regionmark/internal/polygon"
)

const (
	DefaultHandleSize    = 12
	DefaultButtonRadius  = 20
	DefaultButtonPadding = 10
)

// DefaultPalette is used when no annotation colors are configured.
var DefaultPalette = []string{"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462"}

// AnnotationData is the exported form of an annotation.
type AnnotationData struct {
	Polygon []geom.Point `json:"polygon" yaml:"polygon"`
	Color   string       `json:"color" yaml:"color"`
}

// Annotation is a colored polygon. ID is stable for the life of the editor
// and only used for logging and lookups.
type Annotation struct {
	ID      string
	Polygon *polygon.Polygon
	Color   string
}

// Options configures a new Editor. Zero values select defaults.
type Options struct {
	Mode             Mode
	Answer           *geom.Point
	Solution         []geom.Point
	Annotations      []AnnotationData
	AnnotationColors []string

	Viewport      geom.Size
	ScaleStep     float64
	HandleSize    float64
	ButtonRadius  float64
	ButtonPadding float64
	Containment   Containment

	Logger *logrus.Logger
	// Misuse receives integration errors such as use after Dispose or a
	// control without an action.
	Misuse func(msg string)

	OnSolutionChange   func([]geom.Point)
	OnAnnotationChange func([]AnnotationData)
	OnAnswerChange     func(*geom.Point)
}

// Editor is one independent editing session over a single image.
type Editor struct {
	opts Options
	log  *logrus.Logger
	mode Mode

	state       State
	vp          *Viewport
	answer      *geom.Point
	solution    *polygon.Polygon
	annotations []*Annotation
	active      *polygon.Polygon
	palette     []string

	controls      []*Control
	colorControls []*Control
	registry      pick.Registry

	dragOwner  *polygon.Polygon
	dragMarker bool

	hoverControl *Control
	hoverVertex  *polygon.Vertex
	tooltip      string
	answerInside bool

	dirty    bool
	disposed bool
	done     chan struct{}
	subs     []Subscription
}

// New creates an editor from opts. Initial geometry is imported without
// change notifications.
func New(opts Options) *Editor {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.HandleSize <= 0 {
		opts.HandleSize = DefaultHandleSize
	}
	if opts.ButtonRadius <= 0 {
		opts.ButtonRadius = DefaultButtonRadius
	}
	if opts.ButtonPadding <= 0 {
		opts.ButtonPadding = DefaultButtonPadding
	}
	palette := opts.AnnotationColors
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	e := &Editor{
		opts:    opts,
		log:     opts.Logger,
		mode:    opts.Mode,
		vp:      NewViewport(opts.Viewport, opts.ScaleStep),
		palette: append([]string(nil), palette...),
		done:    make(chan struct{}),
	}
	e.state = e.baseState()
	if opts.Answer != nil {
		a := *opts.Answer
		e.answer = &a
	}
	if opts.Solution != nil {
		e.ImportSolution(opts.Solution)
	}
	if opts.Annotations != nil {
		e.ImportAnnotations(opts.Annotations)
	}
	e.buildControls()
	e.layout()
	e.refreshContainment()
	e.dirty = true
	e.log.WithFields(logrus.Fields{
		"mode":        e.mode,
		"annotations": len(e.annotations),
		"solution":    e.solution != nil,
	}).Debug("editor created")
	return e
}

// baseState is the idle state for the editor's mode.
func (e *Editor) baseState() State {
	if e.mode == ModeShowAnnotations {
		return StateAnnotationDisplay
	}
	return StateDefault
}

func (e *Editor) Mode() Mode   { return e.mode }
func (e *Editor) State() State { return e.state }

// View returns a copy of the current view transform.
func (e *Editor) View() geom.View { return e.vp.View }

// Active returns the polygon currently being edited, or nil.
func (e *Editor) Active() *polygon.Polygon { return e.active }

// Solution returns the solution polygon, or nil.
func (e *Editor) Solution() *polygon.Polygon { return e.solution }

// Annotations returns the current annotations in order.
func (e *Editor) Annotations() []*Annotation {
	return append([]*Annotation(nil), e.annotations...)
}

// Palette returns the annotation colors.
func (e *Editor) Palette() []string { return append([]string(nil), e.palette...) }

// Answer returns a copy of the answer marker, or nil when unset.
func (e *Editor) Answer() *geom.Point {
	if e.answer == nil {
		return nil
	}
	a := *e.answer
	return &a
}

// AnswerInside reports the last computed answer-in-solution result.
func (e *Editor) AnswerInside() bool { return e.answerInside }

// Toggle switches to s, or back to the idle state when s is already active.
func (e *Editor) Toggle(s State) {
	if e.usedAfterDispose("toggle state") {
		return
	}
	if e.state == s {
		e.setState(e.baseState())
	} else {
		e.setState(s)
	}
}

// Escape returns to the idle state.
func (e *Editor) Escape() {
	if e.usedAfterDispose("escape") {
		return
	}
	e.setState(e.baseState())
}

func (e *Editor) setState(s State) {
	if e.state == s {
		return
	}
	e.log.WithFields(logrus.Fields{"from": e.state, "to": s}).Debug("state changed")
	e.state = s
	e.dirty = true
}

// ZoomIn magnifies about the view center.
func (e *Editor) ZoomIn() {
	if e.usedAfterDispose("zoom in") {
		return
	}
	e.vp.ZoomIn()
	e.dirty = true
}

// ZoomOut shrinks about the view center.
func (e *Editor) ZoomOut() {
	if e.usedAfterDispose("zoom out") {
		return
	}
	e.vp.ZoomOut()
	e.dirty = true
}

// Resize updates the viewport size and re-lays out the controls.
func (e *Editor) Resize(size geom.Size) {
	if e.usedAfterDispose("resize") {
		return
	}
	e.vp.View.Viewport = size
	e.layout()
	e.dirty = true
}

// ImageReady records the image size and fits it into the viewport.
func (e *Editor) ImageReady(size geom.Size) {
	if e.usedAfterDispose("image ready") {
		return
	}
	e.vp.View.Image = size
	e.vp.View.Fit()
	e.log.WithFields(logrus.Fields{"width": size.W, "height": size.H, "scale": e.vp.View.Scale}).Debug("image ready")
	e.dirty = true
}

// SetAnswer places the answer marker. Nil clears it.
func (e *Editor) SetAnswer(p *geom.Point) {
	if e.usedAfterDispose("set answer") {
		return
	}
	if p == nil {
		e.answer = nil
	} else {
		a := *p
		e.answer = &a
	}
	e.refreshContainment()
	e.emitAnswer()
	e.dirty = true
}

// DeleteAnswer clears the answer marker.
func (e *Editor) DeleteAnswer() { e.SetAnswer(nil) }

// DeleteSolution drops the solution polygon.
func (e *Editor) DeleteSolution() {
	if e.usedAfterDispose("delete solution") {
		return
	}
	if e.active == e.solution {
		e.active = nil
	}
	e.solution = nil
	e.refreshContainment()
	e.emitSolution()
	e.dirty = true
}

// DeleteAnnotation removes the active annotation. It reports false when no
// annotation is active.
func (e *Editor) DeleteAnnotation() bool {
	if e.usedAfterDispose("delete annotation") {
		return false
	}
	a := e.activeAnnotation()
	if a == nil {
		return false
	}
	e.removeAnnotation(a)
	e.active = nil
	e.cleanup()
	e.emitAnnotations()
	e.log.WithField("annotation", a.ID).Debug("annotation deleted")
	e.dirty = true
	return true
}

// NewAnnotation discards unfinished annotations, starts an empty one and
// enters polygon drawing.
func (e *Editor) NewAnnotation() {
	if e.usedAfterDispose("new annotation") {
		return
	}
	e.cleanup()
	a := e.addAnnotation(polygon.New(), "")
	e.active = a.Polygon
	e.setState(StatePolygonDraw)
	e.dirty = true
}

// SetActiveColor recolors the active annotation.
func (e *Editor) SetActiveColor(c string) {
	if e.usedAfterDispose("set color") {
		return
	}
	a := e.activeAnnotation()
	if a == nil {
		return
	}
	a.Color = c
	e.emitAnnotations()
	e.dirty = true
}

// ExportSolution returns the solution vertices, repeating the first point
// when the polygon is closed. No solution exports as an empty slice.
func (e *Editor) ExportSolution() []geom.Point {
	return polygon.Export(e.solution)
}

// ImportSolution replaces the solution. An empty slice clears it.
func (e *Editor) ImportSolution(points []geom.Point) {
	if e.usedAfterDispose("import solution") {
		return
	}
	e.solution = polygon.Import(points)
	e.active = e.solution
	e.refreshContainment()
	e.dirty = true
}

// ExportAnnotations returns every annotation with its color.
func (e *Editor) ExportAnnotations() []AnnotationData {
	out := make([]AnnotationData, 0, len(e.annotations))
	for _, a := range e.annotations {
		out = append(out, AnnotationData{Polygon: polygon.Export(a.Polygon), Color: a.Color})
	}
	return out
}

// ImportAnnotations appends annotations. Entries without points are
// skipped; a missing color is assigned from the palette.
func (e *Editor) ImportAnnotations(data []AnnotationData) {
	if e.usedAfterDispose("import annotations") {
		return
	}
	for _, d := range data {
		p := polygon.Import(d.Polygon)
		if p == nil {
			continue
		}
		e.addAnnotation(p, d.Color)
	}
	e.dirty = true
}

func (e *Editor) addAnnotation(p *polygon.Polygon, color string) *Annotation {
	if color == "" {
		color = e.palette[(len(e.annotations)+1)%len(e.palette)]
	}
	a := &Annotation{ID: uuid.NewString(), Polygon: p, Color: color}
	e.annotations = append(e.annotations, a)
	return a
}

func (e *Editor) removeAnnotation(a *Annotation) {
	for i, cur := range e.annotations {
		if cur == a {
			e.annotations = append(e.annotations[:i], e.annotations[i+1:]...)
			return
		}
	}
}

// activeAnnotation returns the annotation owning the active polygon.
func (e *Editor) activeAnnotation() *Annotation {
	if e.active == nil {
		return nil
	}
	return e.annotationOf(e.active)
}

func (e *Editor) annotationOf(p *polygon.Polygon) *Annotation {
	for _, a := range e.annotations {
		if a.Polygon == p {
			return a
		}
	}
	return nil
}

// cleanup drops unclosed annotations and reports how many were removed.
func (e *Editor) cleanup() int {
	kept := e.annotations[:0]
	removed := 0
	for _, a := range e.annotations {
		if a.Polygon.IsClosed() {
			kept = append(kept, a)
			continue
		}
		removed++
		if e.active == a.Polygon {
			e.active = nil
		}
		e.log.WithField("annotation", a.ID).Debug("discarding unclosed annotation")
	}
	clear(e.annotations[len(kept):])
	e.annotations = kept
	return removed
}

func (e *Editor) refreshContainment() {
	e.answerInside = e.answer != nil && e.solution != nil && e.solution.Contains(*e.answer)
}

// changed emits the notification matching the owner of p.
func (e *Editor) changed(p *polygon.Polygon) {
	if p != nil && p == e.solution {
		e.emitSolution()
		return
	}
	e.emitAnnotations()
}

func (e *Editor) emitSolution() {
	if e.opts.OnSolutionChange != nil {
		e.opts.OnSolutionChange(e.ExportSolution())
	}
}

func (e *Editor) emitAnnotations() {
	if e.opts.OnAnnotationChange != nil {
		e.opts.OnAnnotationChange(e.ExportAnnotations())
	}
}

func (e *Editor) emitAnswer() {
	if e.opts.OnAnswerChange != nil {
		e.opts.OnAnswerChange(e.Answer())
	}
}

// Refresh forces the next scene to be produced.
func (e *Editor) Refresh() {
	if e.usedAfterDispose("refresh") {
		return
	}
	e.dirty = true
}

// Dirty reports whether a redraw is pending.
func (e *Editor) Dirty() bool { return e.dirty }

// Attach subscribes the editor to d. Dispose cancels the subscriptions.
func (e *Editor) Attach(d *Dispatcher) {
	if e.usedAfterDispose("attach") {
		return
	}
	e.subs = append(e.subs,
		d.On(EventDown, e.PointerDown),
		d.On(EventUp, e.PointerUp),
		d.On(EventMove, e.PointerMove),
		d.On(EventClick, e.Click),
		d.On(EventWheel, e.Wheel),
	)
}

// Dispose detaches every subscription and stops rendering. Any later
// mutation is reported as misuse and ignored. Calling Dispose again has no
// effect.
func (e *Editor) Dispose() {
	if e.disposed {
		return
	}
	for _, s := range e.subs {
		s.Cancel()
	}
	e.subs = nil
	e.vp.Release()
	e.disposed = true
	e.dirty = false
	close(e.done)
	e.log.Debug("editor disposed")
}

// Done is closed once the editor has been disposed.
func (e *Editor) Done() <-chan struct{} { return e.done }

// Disposed reports whether Dispose has been called.
func (e *Editor) Disposed() bool { return e.disposed }

func (e *Editor) usedAfterDispose(op string) bool {
	if !e.disposed {
		return false
	}
	e.misuse(op + " called after dispose")
	return true
}

func (e *Editor) misuse(msg string) {
	e.log.WithField("mode", e.mode).Error(msg)
	if e.opts.Misuse != nil {
		e.opts.Misuse(msg)
	}
}
