// Package render holds raster effects shared by the overlay renderer.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// GlowOptions configures the halo composited behind a glyph.
type GlowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	Color   color.RGBA
}

// GlowResult captures the output of ApplyGlow.
type GlowResult struct {
	Image *image.RGBA
	// Offset is where the source's top-left corner landed on the expanded
	// canvas. Callers subtract it when placing the result.
	Offset image.Point
}

// DefaultGlowOptions returns the white halo drawn around the answer marker.
func DefaultGlowOptions() GlowOptions {
	return GlowOptions{
		Radius:  3,
		Opacity: 0.9,
		Color:   color.RGBA{255, 255, 255, 255},
	}
}

// ApplyGlow composites img over a blurred copy of its own alpha, tinted with
// opts.Color. The result has a zero origin.
func ApplyGlow(img *image.RGBA, opts GlowOptions) GlowResult {
	if img == nil {
		return GlowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return GlowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	halo := padded.Add(opts.Offset)
	canvas := src.Union(halo)
	out := canvas.Sub(canvas.Min)

	mask := image.NewGray(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	blurred := boxBlur(mask, radius)

	dst := image.NewRGBA(out)
	tint := opts.Color
	tint.A = uint8(opacity*float64(max(tint.A, 1)) + 0.5)
	if tint.A > 0 {
		at := halo.Min.Sub(canvas.Min)
		draw.DrawMask(dst, blurred.Bounds().Add(at), image.NewUniform(premultiply(tint)), image.Point{}, blurred, image.Point{}, draw.Over)
	}
	draw.Draw(dst, src.Sub(canvas.Min), img, src.Min, draw.Over)
	return GlowResult{Image: dst, Offset: src.Min.Sub(canvas.Min)}
}

func premultiply(c color.RGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

// boxBlur runs a horizontal then vertical running-sum pass.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := image.NewGray(src.Bounds())
	dst := image.NewGray(src.Bounds())

	sums := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			sums[x+1] = sums[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((sums[x1+1] - sums[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			sums[y+1] = sums[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((sums[y1+1] - sums[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
