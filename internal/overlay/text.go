package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const tooltipSize = 14

var (
	tooltipOnce sync.Once
	tooltipFace font.Face = basicfont.Face7x13
)

// faceForTooltip returns the goregular face, falling back to the bitmap face
// if the embedded font cannot be parsed.
func faceForTooltip() font.Face {
	tooltipOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: tooltipSize, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		tooltipFace = face
	})
	return tooltipFace
}

// drawGlyph centres a short label on (cx, cy) with the bitmap face.
func drawGlyph(img *image.RGBA, cx, cy int, text string, col color.Color) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: basicfont.Face7x13}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(cx-w/2, cy+4)
	d.DrawString(text)
}

// drawTooltip draws text in a box below and right of at, kept inside img.
func drawTooltip(img *image.RGBA, at image.Point, text string, bg, fg color.Color) {
	face := faceForTooltip()
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: face}
	w := d.MeasureString(text).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()

	const pad = 4
	box := image.Rect(0, 0, w+2*pad, ascent+descent+2*pad).Add(at.Add(image.Pt(12, 16)))
	b := img.Bounds()
	if box.Max.X > b.Max.X {
		box = box.Sub(image.Pt(box.Max.X-b.Max.X, 0))
	}
	if box.Max.Y > b.Max.Y {
		box = box.Sub(image.Pt(0, box.Max.Y-b.Max.Y))
	}
	if box.Min.X < b.Min.X {
		box = box.Add(image.Pt(b.Min.X-box.Min.X, 0))
	}
	if box.Min.Y < b.Min.Y {
		box = box.Add(image.Pt(0, b.Min.Y-box.Min.Y))
	}
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)
	drawRect(img, box, fg, 1)
	d.Dot = fixed.P(box.Min.X+pad, box.Min.Y+pad+ascent)
	d.DrawString(text)
}
