// Package notify turns application events into desktop notifications.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/regionmark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when task data is written to disk.
	EventExport Event = "export"
	// EventCopy fires when task data is copied to the clipboard.
	EventCopy Event = "copy"
	// EventMisuse fires when the editor reports a programming error.
	EventMisuse Event = "misuse"
)

// EnvPrefix prefixes the environment overrides read by LoadPreferences.
const EnvPrefix = "REGIONMARK_NOTIFY_"

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
	Urgency  platform.Urgency
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventExport: {Template: "Exported %s", Urgency: platform.UrgencyNormal},
			EventCopy:   {Template: "Copied %s to clipboard", Urgency: platform.UrgencyLow},
			EventMisuse: {Template: "Internal error: %s", Urgency: platform.UrgencyCritical},
		},
	}
}

// LoadPreferences applies REGIONMARK_NOTIFY_TITLE and
// REGIONMARK_NOTIFY_<EVENT>_TEXT overrides to the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "TITLE")); v != "" {
		prefs.Title = v
	}
	for event, pref := range prefs.Events {
		key := EnvPrefix + strings.ToUpper(string(event)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			pref.Template = v
			prefs.Events[event] = pref
		}
	}
	return prefs
}

// Sender delivers a formatted notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	log     *logrus.Logger
	send    Sender
}

// New creates a Notifier that delivers through platform.Notify.
func New(prefs Preferences, log *logrus.Logger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), log: log, send: platform.Notify}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(s Sender) *Notifier {
	n.send = s
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Export reports a written file, attaching a preview when one is given.
func (n *Notifier) Export(path string, preview image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	opts := platform.Options{}
	if preview != nil {
		if icon, cleanup, err := createPreview(preview); err != nil {
			n.log.WithError(err).Warn("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = icon
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy reports a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "task"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

// Misuse reports a programming error. It matches editor.Options.Misuse.
func (n *Notifier) Misuse(msg string) {
	n.dispatch(EventMisuse, msg, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	pref, ok := n.prefs.Events[event]
	template := strings.TrimSpace(pref.Template)
	if !ok || template == "" {
		return
	}
	body := template
	if strings.Contains(template, "%") {
		body = fmt.Sprintf(template, strings.TrimSpace(detail))
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	opts.Urgency = pref.Urgency
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.WithError(err).WithField("event", event).Warn("notification failed")
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "regionmark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
