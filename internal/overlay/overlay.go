// Package overlay rasterises editor scenes.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/render"
	"github.com/example/regionmark/internal/theme"
)

const (
	strokeWidth   = 2
	fillAlpha     = 0.35
	solutionAlpha = 0.7
	markerRadius  = 6

	buttonAlpha         = 0.7
	buttonDisabledAlpha = 0.5
	buttonHoverAlpha    = 0.9
)

// Renderer draws scenes over a background image.
type Renderer struct {
	Theme *theme.Theme
	Glow  render.GlowOptions

	img     image.Image
	markers map[editor.Tone]render.GlowResult
}

// New returns a renderer for img, which may be nil until it is decoded.
func New(th *theme.Theme, img image.Image) *Renderer {
	if th == nil {
		th = theme.Default()
	}
	glow := render.DefaultGlowOptions()
	glow.Color = th.AnswerGlow
	return &Renderer{Theme: th, Glow: glow, img: img}
}

// SetImage replaces the background image.
func (r *Renderer) SetImage(img image.Image) { r.img = img }

// Image returns the background image.
func (r *Renderer) Image() image.Image { return r.img }

// Render draws s onto dst. dst is assumed to match the scene viewport.
func (r *Renderer) Render(dst *image.RGBA, s editor.Scene) {
	th := r.Theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	if r.img != nil && s.View.Image.Known() {
		ir := s.View.ImageRect()
		rect := image.Rect(int(ir.Min.X), int(ir.Min.Y), int(ir.Max.X+0.5), int(ir.Max.Y+0.5))
		xdraw.NearestNeighbor.Scale(dst, rect, r.img, r.img.Bounds(), draw.Over, nil)
	}

	for _, p := range s.Polygons {
		r.drawPolygon(dst, p)
	}
	if rb := s.RubberBand; rb != nil {
		x0, y0 := ipt(rb.From)
		x1, y1 := ipt(rb.To)
		drawDashedLine(dst, x0, y0, x1, y1, 4, 1, th.RubberBand, th.HandleStroke)
	}
	for _, h := range s.Handles {
		r.drawHandle(dst, h)
	}
	if s.Answer != nil {
		r.drawAnswer(dst, *s.Answer)
	}
	for _, c := range s.Controls {
		r.drawControl(dst, c)
	}
	if s.Tooltip != "" {
		x, y := ipt(s.TooltipAt)
		drawTooltip(dst, image.Pt(x, y), s.Tooltip, th.TooltipBackground, th.TooltipText)
	}
}

func (r *Renderer) drawPolygon(dst *image.RGBA, p editor.ScenePolygon) {
	th := r.Theme
	stroke := th.SolutionStroke
	fill := withAlpha(th.SolutionFill, solutionAlpha)
	if p.Kind == editor.KindAnnotation {
		stroke = r.color(p.Color, th.OpenPath)
		fill = withAlpha(stroke, fillAlpha)
	}
	if p.Active {
		stroke = th.ActiveStroke
	}
	if !p.Closed {
		stroke = th.OpenPath
	} else {
		fillPolygon(dst, p.Points, fill)
	}

	n := len(p.Points)
	for i := 0; i+1 < n; i++ {
		x0, y0 := ipt(p.Points[i])
		x1, y1 := ipt(p.Points[i+1])
		drawLine(dst, x0, y0, x1, y1, stroke, strokeWidth)
	}
	if p.Closed && n > 2 {
		x0, y0 := ipt(p.Points[n-1])
		x1, y1 := ipt(p.Points[0])
		drawLine(dst, x0, y0, x1, y1, stroke, strokeWidth)
	}
}

func (r *Renderer) drawHandle(dst *image.RGBA, h editor.SceneHandle) {
	th := r.Theme
	half := int(h.Size / 2)
	x, y := ipt(h.Center)
	rect := image.Rect(x-half, y-half, x+half, y+half)
	fill := th.HandleFill
	switch {
	case h.Closes && h.Hot:
		fill = th.HandleClose
	case h.Hot:
		fill = th.HandleHot
	}
	draw.Draw(dst, rect, image.NewUniform(fill), image.Point{}, draw.Src)
	drawRect(dst, rect, th.HandleStroke, 1)
	if h.Closes {
		drawCircle(dst, x, y, half+3, th.HandleClose, 2)
	}
}

func (r *Renderer) drawAnswer(dst *image.RGBA, a editor.SceneAnswer) {
	m := r.marker(a.Tone)
	if m.Image == nil {
		return
	}
	x, y := ipt(a.Pos)
	c := m.Offset.Add(image.Pt(markerRadius, markerRadius))
	at := image.Pt(x, y).Sub(c)
	draw.Draw(dst, m.Image.Bounds().Add(at), m.Image, image.Point{}, draw.Over)
}

// marker returns the glowing answer glyph for tone, cached per renderer.
func (r *Renderer) marker(tone editor.Tone) render.GlowResult {
	if m, ok := r.markers[tone]; ok {
		return m
	}
	th := r.Theme
	col := th.AnswerNeutral
	switch tone {
	case editor.ToneInside:
		col = th.AnswerInside
	case editor.ToneOutside:
		col = th.AnswerOutside
	}
	d := 2*markerRadius + 1
	glyph := image.NewRGBA(image.Rect(0, 0, d, d))
	fillCircle(glyph, markerRadius, markerRadius, markerRadius, col)
	drawCircleThin(glyph, markerRadius, markerRadius, markerRadius, th.HandleStroke)
	m := render.ApplyGlow(glyph, r.Glow)
	if r.markers == nil {
		r.markers = make(map[editor.Tone]render.GlowResult)
	}
	r.markers[tone] = m
	return m
}

func (r *Renderer) drawControl(dst *image.RGBA, c editor.SceneControl) {
	th := r.Theme
	alpha := buttonAlpha
	switch {
	case !c.Enabled:
		alpha = buttonDisabledAlpha
	case c.Hover:
		alpha = buttonHoverAlpha
	}
	x, y := ipt(c.Center)
	rad := int(c.Radius)
	fill := r.color(c.Color, th.ButtonFill)
	fillCircle(dst, x, y, rad, withAlpha(fill, alpha))
	glyph := th.ButtonGlyph
	if !c.Enabled {
		glyph = withAlpha(glyph, buttonDisabledAlpha)
	}
	if c.Glyph != "" {
		drawGlyph(dst, x, y, c.Glyph, glyph)
	}
	if c.Hover && c.Enabled {
		drawCircle(dst, x, y, rad, glyph, 1)
	}
}

// color parses a scene color, returning def when empty or invalid.
func (r *Renderer) color(s string, def color.RGBA) color.RGBA {
	if s == "" {
		return def
	}
	c, err := theme.ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// Snapshot renders s into a fresh image sized to the scene viewport.
func (r *Renderer) Snapshot(s editor.Scene) *image.RGBA {
	w, h := max(int(s.View.Viewport.W), 1), max(int(s.View.Viewport.H), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	r.Render(dst, s)
	return dst
}
