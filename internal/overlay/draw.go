package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/regionmark/internal/geom"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if p := image.Pt(x+dx, y+dy); p.In(img.Bounds()) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

// drawLine is Bresenham with a square brush.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// drawDashedLine alternates c1 and c2 every dash pixels along any direction.
func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thick int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 1
	}
	n := max(abs(x1-x0), abs(y1-y0))
	if n == 0 {
		setThickPixel(img, x0, y0, thick, c1)
		return
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		setThickPixel(img, x, y, thick, col)
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

func drawCircleThin(img *image.RGBA, cx, cy, r int, col color.Color) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		for _, p := range [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			if q := image.Pt(cx+p[0], cy+p[1]); q.In(img.Bounds()) {
				img.Set(q.X, q.Y, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

func drawCircle(img *image.RGBA, cx, cy, r int, col color.Color, thick int) {
	if thick <= 0 {
		drawCircleThin(img, cx, cy, r, col)
		return
	}
	start := -thick / 2
	for i := 0; i < thick; i++ {
		if rr := r + start + i; rr >= 0 {
			drawCircleThin(img, cx, cy, rr, col)
		}
	}
}

// fillCircle blends col over a disc so translucent buttons keep the image
// visible beneath.
func fillCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	src := image.NewUniform(col)
	for dy := -r; dy <= r; dy++ {
		span := int(math.Sqrt(float64(r*r - dy*dy)))
		row := image.Rect(cx-span, cy+dy, cx+span+1, cy+dy+1)
		draw.Draw(img, row, src, image.Point{}, draw.Over)
	}
}

// fillPolygon rasterises pts with anti-aliasing and composites col over img.
func fillPolygon(img *image.RGBA, pts []geom.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(pts[0].X)-float32(b.Min.X), float32(pts[0].Y)-float32(b.Min.Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X)-float32(b.Min.X), float32(p.Y)-float32(b.Min.Y))
	}
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(col), image.Point{})
}

// withAlpha returns c scaled to the given opacity, premultiplied.
func withAlpha(c color.RGBA, a float64) color.RGBA {
	a = math.Max(0, math.Min(1, a))
	return color.RGBA{
		R: uint8(float64(c.R)*a + 0.5),
		G: uint8(float64(c.G)*a + 0.5),
		B: uint8(float64(c.B)*a + 0.5),
		A: uint8(float64(c.A)*a + 0.5),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func ipt(p geom.Point) (int, int) { return p.Round() }
