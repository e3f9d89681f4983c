//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard is not supported on this platform")

// WriteText is unsupported here.
func WriteText(string) error { return errUnsupported }

// ReadText is unsupported here.
func ReadText() (string, error) { return "", errUnsupported }

// WriteImage is unsupported here.
func WriteImage(image.Image) error { return errUnsupported }
