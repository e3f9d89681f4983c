package editor

import "github.com/example/regionmark/internal/geom"

// EventType identifies a pointer event.
type EventType int

const (
	EventDown EventType = iota
	EventUp
	EventMove
	EventClick
	EventWheel
	eventTypeCount
)

func (t EventType) String() string {
	switch t {
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventMove:
		return "move"
	case EventClick:
		return "click"
	case EventWheel:
		return "wheel"
	}
	return "unknown"
}

// PointerButton identifies a pointer button.
type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
)

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// PointerEvent is one input event in view space. Wheel is negative for
// upward (away from the user) ticks.
type PointerEvent struct {
	Type   EventType
	Button PointerButton
	Pos    geom.Point
	Mods   Modifiers
	Wheel  int
}

type pointerHandler struct {
	id uint32
	fn func(PointerEvent)
}

// Dispatcher fans pointer events out to registered handlers.
type Dispatcher struct {
	handlers [eventTypeCount][]pointerHandler
	nextID   uint32
}

// Subscription removes a registered handler.
type Subscription struct {
	id    uint32
	d     *Dispatcher
	event EventType
}

// On registers fn for events of type t.
func (d *Dispatcher) On(t EventType, fn func(PointerEvent)) Subscription {
	if t < 0 || t >= eventTypeCount || fn == nil {
		return Subscription{}
	}
	d.nextID++
	id := d.nextID
	d.handlers[t] = append(d.handlers[t], pointerHandler{id: id, fn: fn})
	return Subscription{id: id, d: d, event: t}
}

// Cancel unregisters the handler. Cancelling twice is harmless.
func (s Subscription) Cancel() {
	if s.d == nil {
		return
	}
	hs := s.d.handlers[s.event]
	for i := range hs {
		if hs[i].id == s.id {
			copy(hs[i:], hs[i+1:])
			hs[len(hs)-1] = pointerHandler{}
			s.d.handlers[s.event] = hs[:len(hs)-1]
			return
		}
	}
}

// Dispatch delivers ev to every handler of its type in registration order.
func (d *Dispatcher) Dispatch(ev PointerEvent) {
	if ev.Type < 0 || ev.Type >= eventTypeCount {
		return
	}
	hs := append([]pointerHandler(nil), d.handlers[ev.Type]...)
	for _, h := range hs {
		h.fn(ev)
	}
}

// Count returns the number of live handlers across all event types.
func (d *Dispatcher) Count() int {
	n := 0
	for _, hs := range d.handlers {
		n += len(hs)
	}
	return n
}
