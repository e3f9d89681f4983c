package editor

import (
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionmark/internal/geom"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEditor(t *testing.T, opts Options) *Editor {
	t.Helper()
	if !opts.Viewport.Known() {
		opts.Viewport = geom.Sz(800, 600)
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	return New(opts)
}

func click(e *Editor, x, y float64) {
	e.Click(PointerEvent{Type: EventClick, Button: ButtonPrimary, Pos: geom.Pt(x, y)})
}

func shiftClick(e *Editor, x, y float64) {
	e.Click(PointerEvent{Type: EventClick, Button: ButtonPrimary, Pos: geom.Pt(x, y), Mods: ModShift})
}

func press(t *testing.T, e *Editor, name string) {
	t.Helper()
	c := e.Control(name)
	require.NotNil(t, c, "control %s", name)
	e.Click(PointerEvent{Type: EventClick, Button: ButtonPrimary, Pos: c.Center})
}

func drag(e *Editor, from, to geom.Point) {
	e.PointerDown(PointerEvent{Type: EventDown, Button: ButtonPrimary, Pos: from})
	e.PointerMove(PointerEvent{Type: EventMove, Pos: to})
	e.PointerUp(PointerEvent{Type: EventUp, Button: ButtonPrimary, Pos: to})
}

func TestShiftClickClosesSolution(t *testing.T) {
	calls := 0
	var last []geom.Point
	e := newTestEditor(t, Options{
		Mode: ModeEditSolution,
		OnSolutionChange: func(p []geom.Point) {
			calls++
			last = p
		},
	})
	press(t, e, "draw-point")
	require.Equal(t, StatePolygonDraw, e.State())

	click(e, 0, 0)
	click(e, 10, 0)
	click(e, 10, 10)
	assert.Equal(t, 3, calls, "each vertex insertion notifies")

	calls = 0
	shiftClick(e, 10, 10)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateDefault, e.State())
	want := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 0}}
	assert.Equal(t, want, e.ExportSolution())
	assert.Equal(t, want, last)
}

func TestClickInitialVertexCloses(t *testing.T) {
	e := newTestEditor(t, Options{Mode: ModeEditSolution})
	press(t, e, "draw-point")
	click(e, 100, 100)
	click(e, 200, 100)

	click(e, 101, 101)
	require.Equal(t, 3, e.Solution().Len(), "two vertices cannot close, the click bubbles and appends")
	require.False(t, e.Solution().IsClosed())
	assert.Equal(t, StatePolygonDraw, e.State())

	click(e, 100, 100)
	assert.True(t, e.Solution().IsClosed())
	assert.Equal(t, 3, e.Solution().Len())
	assert.Equal(t, StateDefault, e.State())
}

func TestShiftClickWithTooFewVertices(t *testing.T) {
	e := newTestEditor(t, Options{Mode: ModeEditSolution})
	press(t, e, "draw-point")
	click(e, 100, 100)
	shiftClick(e, 300, 300)
	assert.False(t, e.Solution().IsClosed())
	assert.Equal(t, StateDefault, e.State())
}

func TestToggleIsIdempotent(t *testing.T) {
	e := newTestEditor(t, Options{Mode: ModeEditAnswer})
	press(t, e, "set-answer")
	assert.Equal(t, StateMarkerDraw, e.State())
	assert.True(t, e.Scene().Controls[3].Enabled)
	press(t, e, "set-answer")
	assert.Equal(t, StateDefault, e.State())
}

func TestMarkerDraw(t *testing.T) {
	var got *geom.Point
	e := newTestEditor(t, Options{Mode: ModeEditAnswer, OnAnswerChange: func(p *geom.Point) { got = p }})
	press(t, e, "set-answer")
	click(e, 40, 60)
	require.NotNil(t, e.Answer())
	assert.Equal(t, geom.Pt(40, 60), *e.Answer())
	assert.Equal(t, geom.Pt(40, 60), *got)
	assert.Equal(t, StateMarkerDraw, e.State(), "marker placement keeps the state")

	press(t, e, "delete-answer")
	assert.Nil(t, e.Answer())
	assert.Nil(t, got)
}

func TestMarkerDragInMarkerState(t *testing.T) {
	a := geom.Pt(100, 100)
	e := newTestEditor(t, Options{Mode: ModeEditAnswer, Answer: &a})
	press(t, e, "set-answer")
	drag(e, geom.Pt(100, 100), geom.Pt(130, 90))
	assert.Equal(t, geom.Pt(130, 90), *e.Answer())
	assert.Equal(t, geom.Pt(400, 300), e.View().Center, "dragging the marker does not pan")
}

func TestPointDelete(t *testing.T) {
	calls := 0
	e := newTestEditor(t, Options{
		Mode:             ModeEditSolution,
		Solution:         []geom.Point{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 200, Y: 200}, {X: 100, Y: 200}, {X: 100, Y: 100}},
		OnSolutionChange: func([]geom.Point) { calls++ },
	})
	press(t, e, "delete-point")
	click(e, 200, 100)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []geom.Point{{X: 100, Y: 100}, {X: 200, Y: 200}, {X: 100, Y: 200}, {X: 100, Y: 100}}, e.ExportSolution())
	assert.Equal(t, StatePolygonPointDelete, e.State())
}

func TestMoveVertexScalesDelta(t *testing.T) {
	calls := 0
	e := newTestEditor(t, Options{
		Mode:             ModeEditSolution,
		Solution:         []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 300}, {X: 100, Y: 100}},
		OnSolutionChange: func([]geom.Point) { calls++ },
	})
	e.ImageReady(geom.Sz(1600, 1200))
	require.Equal(t, 0.5, e.View().Scale)
	press(t, e, "move-point")

	drag(e, geom.Pt(50, 50), geom.Pt(60, 55))
	assert.Equal(t, geom.Pt(120, 110), e.Solution().Vertices()[0].Position)
	assert.Equal(t, 1, calls)
	assert.Equal(t, geom.Pt(800, 600), e.View().Center)
}

func TestVertexNotDraggedOutsideMoveState(t *testing.T) {
	e := newTestEditor(t, Options{
		Mode:     ModeEditSolution,
		Solution: []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 300}, {X: 100, Y: 100}},
	})
	drag(e, geom.Pt(100, 100), geom.Pt(110, 120))
	assert.Equal(t, geom.Pt(100, 100), e.Solution().Vertices()[0].Position)
	assert.Equal(t, geom.Pt(390, 280), e.View().Center, "a press outside move state pans")
}

func TestReleaseAnywhereEndsDrag(t *testing.T) {
	e := newTestEditor(t, Options{
		Mode:     ModeEditSolution,
		Solution: []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 300}, {X: 100, Y: 100}},
	})
	press(t, e, "move-point")
	e.PointerDown(PointerEvent{Type: EventDown, Button: ButtonPrimary, Pos: geom.Pt(100, 100)})
	e.PointerMove(PointerEvent{Type: EventMove, Pos: geom.Pt(105, 100)})
	e.PointerUp(PointerEvent{Type: EventUp, Button: ButtonPrimary, Pos: geom.Pt(-500, -500)})
	e.PointerMove(PointerEvent{Type: EventMove, Pos: geom.Pt(200, 200)})
	assert.Equal(t, geom.Pt(105, 100), e.Solution().Vertices()[0].Position)
	assert.Equal(t, geom.Pt(400, 300), e.View().Center)
}

func TestPanSubtractsScaledDelta(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.ZoomIn()
	s := e.View().Scale
	drag(e, geom.Pt(100, 100), geom.Pt(122, 89))
	c := e.View().Center
	assert.InDelta(t, 400-22/s, c.X, 1e-9)
	assert.InDelta(t, 300+11/s, c.Y, 1e-9)
}

func TestControlsOutrankVertices(t *testing.T) {
	zoomOut := geom.Pt(800-DefaultButtonRadius-DefaultButtonPadding, 600-DefaultButtonRadius-DefaultButtonPadding)
	e := newTestEditor(t, Options{
		Mode:     ModeEditSolution,
		Solution: []geom.Point{zoomOut, {X: 700, Y: 500}, {X: 760, Y: 400}, zoomOut},
	})
	_, isControl := e.Pick(zoomOut).(*Control)
	assert.True(t, isControl)
	_, isVertex := e.Pick(geom.Pt(700, 500)).(*vertexHandle)
	assert.True(t, isVertex)
	_, isBody := e.Pick(geom.Pt(740, 500)).(*polygonBody)
	assert.True(t, isBody)
}

func TestDeselectOnEmptyClick(t *testing.T) {
	e := newTestEditor(t, Options{
		Mode:     ModeEditSolution,
		Solution: []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 300}, {X: 100, Y: 100}},
	})
	require.NotNil(t, e.Active())
	click(e, 500, 50)
	assert.Nil(t, e.Active())
	assert.Equal(t, 3, e.Solution().Len(), "deselection keeps geometry")

	click(e, 250, 150)
	assert.Same(t, e.Solution(), e.Active(), "clicking the body selects it")
}

func TestNoDeselectWhileMoving(t *testing.T) {
	e := newTestEditor(t, Options{
		Mode:     ModeEditSolution,
		Solution: []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 300}, {X: 100, Y: 100}},
	})
	press(t, e, "move-point")
	click(e, 500, 50)
	assert.NotNil(t, e.Active())
}

func TestAnnotationDrawing(t *testing.T) {
	var got []AnnotationData
	e := newTestEditor(t, Options{
		Mode:               ModeEditAnnotations,
		OnAnnotationChange: func(a []AnnotationData) { got = a },
	})
	press(t, e, "new-annotation")
	require.Equal(t, StatePolygonDraw, e.State())
	require.Len(t, e.Annotations(), 1)

	click(e, 100, 100)
	click(e, 200, 100)
	click(e, 150, 200)
	click(e, 100, 100)

	require.Len(t, got, 1)
	assert.Equal(t, DefaultPalette[1], got[0].Color)
	assert.Equal(t, []geom.Point{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 150, Y: 200}, {X: 100, Y: 100}}, got[0].Polygon)
	assert.Equal(t, StateDefault, e.State())
}

func TestDrawWithoutActiveAnnotationStartsOne(t *testing.T) {
	e := newTestEditor(t, Options{Mode: ModeEditAnnotations})
	press(t, e, "draw-point")
	click(e, 100, 100)
	require.Len(t, e.Annotations(), 1)
	assert.Same(t, e.Annotations()[0].Polygon, e.Active())
}

func TestCleanupDiscardsUnclosedAnnotations(t *testing.T) {
	calls := 0
	e := newTestEditor(t, Options{
		Mode:               ModeEditAnnotations,
		Annotations:        []AnnotationData{{Polygon: []geom.Point{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 30, Y: 40}, {X: 10, Y: 10}}, Color: "red"}},
		OnAnnotationChange: func([]AnnotationData) { calls++ },
	})
	press(t, e, "new-annotation")
	click(e, 300, 300)
	click(e, 400, 300)
	press(t, e, "draw-point")
	require.Equal(t, StateDefault, e.State())
	require.Len(t, e.Annotations(), 2)

	calls = 0
	click(e, 600, 50)
	assert.Len(t, e.Annotations(), 1)
	assert.Equal(t, "red", e.Annotations()[0].Color)
	assert.Equal(t, 1, calls)
	assert.Nil(t, e.Active())
}

func TestDeletingEndpointKeepsAnnotation(t *testing.T) {
	var got []AnnotationData
	e := newTestEditor(t, Options{
		Mode: ModeEditAnnotations,
		Annotations: []AnnotationData{{
			Polygon: []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 350, Y: 250}, {X: 200, Y: 350}, {X: 50, Y: 250}, {X: 100, Y: 100}},
			Color:   "red",
		}},
		OnAnnotationChange: func(a []AnnotationData) { got = a },
	})
	click(e, 200, 200)
	require.NotNil(t, e.Active())

	press(t, e, "delete-point")
	click(e, 100, 100)
	require.Len(t, e.Annotations(), 1)
	a := e.Annotations()[0]
	assert.Equal(t, 4, a.Polygon.Len())
	assert.False(t, a.Polygon.IsClosed())
	assert.Same(t, a.Polygon, e.Active())
	require.Len(t, got, 1)
	assert.Equal(t, []geom.Point{{X: 300, Y: 100}, {X: 350, Y: 250}, {X: 200, Y: 350}, {X: 50, Y: 250}}, got[0].Polygon)

	press(t, e, "draw-point")
	click(e, 300, 100)
	require.Len(t, e.Annotations(), 1)
	assert.True(t, a.Polygon.IsClosed())
	assert.Equal(t, "red", got[0].Color)
}

func TestDeleteAnnotation(t *testing.T) {
	e := newTestEditor(t, Options{
		Mode: ModeEditAnnotations,
		Annotations: []AnnotationData{
			{Polygon: []geom.Point{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 30, Y: 40}, {X: 10, Y: 10}}},
			{Polygon: []geom.Point{{X: 110, Y: 110}, {X: 150, Y: 110}, {X: 130, Y: 140}, {X: 110, Y: 110}}},
		},
	})
	assert.False(t, e.DeleteAnnotation(), "nothing active")

	click(e, 130, 120)
	require.NotNil(t, e.Active())
	press(t, e, "delete-annotation")
	require.Len(t, e.Annotations(), 1)
	assert.Equal(t, geom.Pt(10, 10), e.Annotations()[0].Polygon.Initial().Position)
	assert.Nil(t, e.Active())
}

func TestColorControls(t *testing.T) {
	e := newTestEditor(t, Options{
		Mode:             ModeEditAnnotations,
		AnnotationColors: []string{"#111111", "#222222"},
		Annotations:      []AnnotationData{{Polygon: []geom.Point{{X: 100, Y: 10}, {X: 150, Y: 10}, {X: 130, Y: 40}, {X: 100, Y: 10}}}},
	})
	a := e.Annotations()[0]
	assert.Equal(t, "#222222", a.Color)

	c := e.Control("color #111111")
	require.NotNil(t, c)
	assert.False(t, c.Enabled.Eval())
	press(t, e, "color #111111")
	assert.Equal(t, "#222222", a.Color, "no active annotation")

	click(e, 130, 20)
	assert.True(t, c.Enabled.Eval())
	press(t, e, "color #111111")
	assert.Equal(t, "#111111", a.Color)
}

func TestDeleteSolution(t *testing.T) {
	var got []geom.Point
	e := newTestEditor(t, Options{
		Mode:             ModeEditSolution,
		Solution:         []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 300}, {X: 100, Y: 100}},
		OnSolutionChange: func(p []geom.Point) { got = p },
	})
	press(t, e, "delete-solution")
	assert.Nil(t, e.Solution())
	assert.Nil(t, e.Active())
	assert.Equal(t, []geom.Point{}, got)
}

func TestZoomControlsDrift(t *testing.T) {
	e := newTestEditor(t, Options{ScaleStep: 0.1})
	for i := 0; i < 5; i++ {
		press(t, e, "zoom-in")
	}
	for i := 0; i < 5; i++ {
		press(t, e, "zoom-out")
	}
	assert.InDelta(t, math.Pow(0.99, 5), e.View().Scale, 1e-12)
}

func TestWheelDirection(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.Wheel(PointerEvent{Type: EventWheel, Wheel: -1})
	assert.InDelta(t, 0.9, e.View().Scale, 1e-12)
	e.Wheel(PointerEvent{Type: EventWheel, Wheel: 1})
	assert.InDelta(t, 0.99, e.View().Scale, 1e-12)
	assert.Equal(t, geom.Pt(400, 300), e.View().Center)
}

func TestImportExport(t *testing.T) {
	e := newTestEditor(t, Options{})
	pts := []geom.Point{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 5}, {X: 1, Y: 1}}
	e.ImportSolution(pts)
	assert.Equal(t, pts, e.ExportSolution())
	e.ImportSolution(nil)
	assert.Nil(t, e.Solution())
	assert.Equal(t, []geom.Point{}, e.ExportSolution())

	e.ImportAnnotations([]AnnotationData{{Polygon: pts, Color: "blue"}})
	e.ImportAnnotations([]AnnotationData{{Polygon: pts}, {Polygon: nil}})
	got := e.ExportAnnotations()
	require.Len(t, got, 2)
	assert.Equal(t, "blue", got[0].Color)
	assert.Equal(t, DefaultPalette[2], got[1].Color)
	assert.Equal(t, pts, got[1].Polygon)
}

func TestContainmentPolicy(t *testing.T) {
	for _, policy := range []Containment{ContainmentLive, ContainmentOnRelease} {
		t.Run(policy.String(), func(t *testing.T) {
			a := geom.Pt(150, 150)
			e := newTestEditor(t, Options{
				Mode:        ModeEditSolution,
				Answer:      &a,
				Solution:    []geom.Point{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 300}, {X: 100, Y: 300}, {X: 100, Y: 100}},
				Containment: policy,
			})
			require.True(t, e.AnswerInside())
			press(t, e, "move-point")
			e.PointerDown(PointerEvent{Type: EventDown, Button: ButtonPrimary, Pos: geom.Pt(100, 100)})
			e.PointerMove(PointerEvent{Type: EventMove, Pos: geom.Pt(200, 200)})
			assert.Equal(t, policy == ContainmentOnRelease, e.AnswerInside())
			e.PointerUp(PointerEvent{Type: EventUp, Button: ButtonPrimary, Pos: geom.Pt(200, 200)})
			assert.False(t, e.AnswerInside())
		})
	}
}

func TestSceneAnswerTone(t *testing.T) {
	a := geom.Pt(5, 5)
	e := newTestEditor(t, Options{
		Mode:     ModeShowSolution,
		Answer:   &a,
		Solution: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}},
	})
	s := e.Scene()
	require.NotNil(t, s.Answer)
	assert.Equal(t, ToneInside, s.Answer.Tone)
	assert.Empty(t, s.Handles, "show modes expose no handles")
	assert.Len(t, s.Controls, 2)

	e2 := newTestEditor(t, Options{Mode: ModeEditAnswer, Answer: &a})
	assert.Equal(t, ToneNeutral, e2.Scene().Answer.Tone)
}

func TestTakeSceneGatedByDirty(t *testing.T) {
	e := newTestEditor(t, Options{})
	_, ok := e.TakeScene()
	require.True(t, ok)
	_, ok = e.TakeScene()
	assert.False(t, ok)

	e.ZoomIn()
	e.ZoomIn()
	_, ok = e.TakeScene()
	assert.True(t, ok, "many mutations, one scene")
	_, ok = e.TakeScene()
	assert.False(t, ok)

	e.Refresh()
	assert.True(t, e.Dirty())
}

func TestRubberBandFollowsPointer(t *testing.T) {
	e := newTestEditor(t, Options{Mode: ModeEditSolution})
	press(t, e, "draw-point")
	click(e, 100, 100)
	e.PointerMove(PointerEvent{Type: EventMove, Pos: geom.Pt(180, 140)})
	s := e.Scene()
	require.NotNil(t, s.RubberBand)
	assert.Equal(t, geom.Pt(100, 100), s.RubberBand.From)
	assert.Equal(t, geom.Pt(180, 140), s.RubberBand.To)
}

func TestTooltipOnHover(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.TakeScene()
	c := e.Control("zoom-in")
	e.PointerMove(PointerEvent{Type: EventMove, Pos: c.Center})
	s, ok := e.TakeScene()
	require.True(t, ok)
	assert.Equal(t, "Zoom in", s.Tooltip)
	assert.True(t, s.Controls[1].Hover)

	e.PointerMove(PointerEvent{Type: EventMove, Pos: geom.Pt(100, 100)})
	s, ok = e.TakeScene()
	require.True(t, ok)
	assert.Empty(t, s.Tooltip)
}

func TestUseAfterDispose(t *testing.T) {
	var reports []string
	var d Dispatcher
	e := newTestEditor(t, Options{Mode: ModeEditSolution, Misuse: func(m string) { reports = append(reports, m) }})
	e.Attach(&d)
	require.Equal(t, 5, d.Count())

	e.Dispose()
	assert.Equal(t, 0, d.Count())
	select {
	case <-e.Done():
	default:
		t.Fatal("done channel not closed")
	}

	e.ImportSolution([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	assert.Nil(t, e.Solution())
	e.Click(PointerEvent{Type: EventClick, Button: ButtonPrimary, Pos: geom.Pt(5, 5)})
	assert.Len(t, reports, 2)
	_, ok := e.TakeScene()
	assert.False(t, ok)

	e.Dispose()
	assert.Len(t, reports, 2)
}

func TestControlWithoutActionIsMisuse(t *testing.T) {
	var reports []string
	e := newTestEditor(t, Options{Misuse: func(m string) { reports = append(reports, m) }})
	e.AddControl(&Control{Name: "custom", Glyph: "?"})
	press(t, e, "custom")
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0], "custom")
}

func TestDispatcherDrivesEditor(t *testing.T) {
	var d Dispatcher
	e := newTestEditor(t, Options{})
	e.Attach(&d)
	c := e.Control("zoom-in")
	d.Dispatch(PointerEvent{Type: EventClick, Button: ButtonPrimary, Pos: c.Center})
	assert.InDelta(t, 1.1, e.View().Scale, 1e-12)
}

func TestShowAnnotationsStartsInDisplayState(t *testing.T) {
	e := newTestEditor(t, Options{
		Mode:        ModeShowAnnotations,
		Annotations: []AnnotationData{{Polygon: []geom.Point{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 30, Y: 40}, {X: 10, Y: 10}}}},
	})
	assert.Equal(t, StateAnnotationDisplay, e.State())
	click(e, 30, 20)
	assert.Nil(t, e.Active(), "display mode does not select")
	assert.Len(t, e.Scene().Polygons, 1)
}
