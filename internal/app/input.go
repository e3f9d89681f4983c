package app

import (
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/geom"
)

// clickSlop is how far the pointer may travel between press and release for
// the pair to still count as a click.
const clickSlop = 4

// pointerMapper turns shiny mouse events into editor pointer events,
// synthesising clicks from press/release pairs.
type pointerMapper struct {
	down   bool
	downAt geom.Point
}

func (m *pointerMapper) Map(e mouse.Event) []editor.PointerEvent {
	pos := geom.Pt(float64(e.X), float64(e.Y))
	mods := modifiers(e.Modifiers)

	if e.Button.IsWheel() {
		if e.Direction == mouse.DirRelease {
			return nil
		}
		tick := 1
		if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelLeft {
			tick = -1
		}
		return []editor.PointerEvent{{Type: editor.EventWheel, Pos: pos, Mods: mods, Wheel: tick}}
	}

	btn := button(e.Button)
	switch e.Direction {
	case mouse.DirPress:
		if btn == editor.ButtonPrimary {
			m.down, m.downAt = true, pos
		}
		return []editor.PointerEvent{{Type: editor.EventDown, Button: btn, Pos: pos, Mods: mods}}
	case mouse.DirRelease:
		out := []editor.PointerEvent{{Type: editor.EventUp, Button: btn, Pos: pos, Mods: mods}}
		if btn == editor.ButtonPrimary {
			if m.down && pos.Dist2(m.downAt) <= clickSlop*clickSlop {
				out = append(out, editor.PointerEvent{Type: editor.EventClick, Button: btn, Pos: pos, Mods: mods})
			}
			m.down = false
		}
		return out
	case mouse.DirNone:
		return []editor.PointerEvent{{Type: editor.EventMove, Pos: pos, Mods: mods}}
	}
	return nil
}

func button(b mouse.Button) editor.PointerButton {
	switch b {
	case mouse.ButtonLeft:
		return editor.ButtonPrimary
	case mouse.ButtonMiddle:
		return editor.ButtonMiddle
	case mouse.ButtonRight:
		return editor.ButtonSecondary
	}
	return editor.ButtonNone
}

func modifiers(m key.Modifiers) editor.Modifiers {
	var out editor.Modifiers
	if m&key.ModShift != 0 {
		out |= editor.ModShift
	}
	if m&key.ModControl != 0 || m&key.ModMeta != 0 {
		out |= editor.ModControl
	}
	if m&key.ModAlt != 0 {
		out |= editor.ModAlt
	}
	return out
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// shortcutList binds several combinations to one action.
type shortcutList []KeyShortcut

// keymap resolves key presses to action names.
type keymap map[KeyShortcut]string

func (k keymap) register(action string, keys shortcutList) {
	for _, sc := range keys {
		k[sc] = action
	}
}

// lookup matches on the lower-cased rune when there is one, otherwise on
// the key code. Meta is treated as Control.
func (k keymap) lookup(e key.Event) (string, bool) {
	mods := e.Modifiers &^ key.ModMeta
	if e.Modifiers&key.ModMeta != 0 {
		mods |= key.ModControl
	}
	if e.Rune > 0 {
		if a, ok := k[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
			return a, true
		}
		// Shifted symbols such as '+' arrive with ModShift set.
		if a, ok := k[KeyShortcut{Rune: e.Rune, Modifiers: mods &^ key.ModShift}]; ok {
			return a, true
		}
	}
	a, ok := k[KeyShortcut{Code: e.Code, Modifiers: mods}]
	return a, ok
}

func defaultKeymap() keymap {
	k := keymap{}
	k.register("zoom-in", shortcutList{{Rune: '+'}, {Rune: '='}, {Code: key.CodeKeypadPlusSign}})
	k.register("zoom-out", shortcutList{{Rune: '-'}, {Code: key.CodeKeypadHyphenMinus}})
	k.register("escape", shortcutList{{Code: key.CodeEscape}})
	k.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}})
	k.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}})
	k.register("copy-image", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}})
	k.register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}})
	k.register("quit", shortcutList{{Rune: 'q'}, {Rune: 'w', Modifiers: key.ModControl}})
	return k
}
