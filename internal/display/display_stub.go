//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package display

// ListMonitors is not implemented on this platform.
func ListMonitors() ([]Monitor, error) {
	return nil, errNoMonitors
}
