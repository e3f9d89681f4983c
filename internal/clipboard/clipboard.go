// Package clipboard copies task exports and overlay snapshots to the system
// clipboard and reads pasted task data back.
package clipboard

import (
	"errors"
	"os"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned when the clipboard holds no data of the wanted kind.
	ErrEmpty = errors.New("clipboard does not contain text data")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
