// Package display queries the monitor layout to size the editor window.
package display

import (
	"errors"
	"image"
)

var errNoMonitors = errors.New("no monitors available")

// Monitor is one connected output.
type Monitor struct {
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// DefaultWindow is used when no monitor can be queried.
var DefaultWindow = image.Pt(1024, 768)

// fill is the share of the monitor the initial window may take.
const fill = 0.8

// Primary returns the primary monitor, or the first one listed.
func Primary() (Monitor, error) {
	ms, err := ListMonitors()
	if err != nil {
		return Monitor{}, err
	}
	return pickPrimary(ms)
}

func pickPrimary(ms []Monitor) (Monitor, error) {
	if len(ms) == 0 {
		return Monitor{}, errNoMonitors
	}
	for _, m := range ms {
		if m.Primary {
			return m, nil
		}
	}
	return ms[0], nil
}

// WindowSize picks an initial window size for an image of the given size:
// the image at 1:1 when it fits, otherwise scaled down to the monitor.
func WindowSize(img image.Point, mon image.Rectangle) image.Point {
	limit := DefaultWindow
	if !mon.Empty() {
		limit = image.Pt(int(float64(mon.Dx())*fill), int(float64(mon.Dy())*fill))
	}
	if img.X <= 0 || img.Y <= 0 {
		return limit
	}
	if img.X <= limit.X && img.Y <= limit.Y {
		return img
	}
	s := min(float64(limit.X)/float64(img.X), float64(limit.Y)/float64(img.Y))
	return image.Pt(max(int(float64(img.X)*s), 1), max(int(float64(img.Y)*s), 1))
}
