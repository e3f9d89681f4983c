// Package platform sends desktop notifications through the host's native
// notification service.
package platform

// AppName is reported to notification centres.
const AppName = "RegionMark"

// Urgency ranks a notification. Hosts without the concept ignore it.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification if the platform supports it.
	IconPath string
	Urgency  Urgency
	// Timeout in milliseconds; zero picks the platform default.
	Timeout int32
}

func (o Options) timeout() int32 {
	if o.Timeout > 0 {
		return o.Timeout
	}
	if o.Urgency == UrgencyCritical {
		return 0
	}
	return 5000
}
