// Package imageload decodes background images into RGBA.
package imageload

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/regionmark/internal/geom"
)

// ErrEmpty is returned for images with no pixels.
var ErrEmpty = errors.New("image has no pixels")

// Image is a decoded background image with its natural size.
type Image struct {
	RGBA   *image.RGBA
	Format string
}

// Size reports the natural size in image space.
func (i Image) Size() geom.Size {
	b := i.RGBA.Bounds()
	return geom.Sz(float64(b.Dx()), float64(b.Dy()))
}

// Load opens and decodes path.
func Load(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// Config reads only the header of path and returns the image dimensions.
func Config(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	c, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("read image header %s: %w", path, err)
	}
	return image.Pt(c.Width, c.Height), nil
}

// Decode reads any registered format and rebases it to a zero-origin RGBA.
func Decode(r io.Reader) (Image, error) {
	dec, format, err := image.Decode(r)
	if err != nil {
		return Image{}, err
	}
	b := dec.Bounds()
	if b.Empty() {
		return Image{}, ErrEmpty
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), dec, b.Min, draw.Src)
	return Image{RGBA: rgba, Format: format}, nil
}

// LoadAsync decodes path on a goroutine and calls ready with the result.
// ready runs on the decoding goroutine.
func LoadAsync(path string, ready func(Image, error)) {
	go func() {
		ready(Load(path))
	}()
}
