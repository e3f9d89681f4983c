package editor

import "fmt"

// State is the active edit operation.
type State int

const (
	StateDefault State = iota
	StateMarkerDraw
	StatePolygonDraw
	StatePolygonMove
	StatePolygonPointDelete
	// StateAnnotationDisplay is used for read-only annotation viewing and
	// handles input exactly like StateDefault.
	StateAnnotationDisplay
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "default"
	case StateMarkerDraw:
		return "marker-draw"
	case StatePolygonDraw:
		return "polygon-draw"
	case StatePolygonMove:
		return "polygon-move"
	case StatePolygonPointDelete:
		return "polygon-point-delete"
	case StateAnnotationDisplay:
		return "annotation-display"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// idle reports whether s behaves like the default state.
func (s State) idle() bool {
	return s == StateDefault || s == StateAnnotationDisplay
}

// Mode selects which affordances the editor exposes.
type Mode string

const (
	ModeNone            Mode = ""
	ModeEditAnswer      Mode = "editAnswer"
	ModeEditSolution    Mode = "editSolution"
	ModeEditAnnotations Mode = "editAnnotations"
	ModeShowSolution    Mode = "showSolution"
	ModeShowAnnotations Mode = "showAnnotations"
)

// Modes lists every accepted mode name.
func Modes() []Mode {
	return []Mode{ModeEditAnswer, ModeEditSolution, ModeEditAnnotations, ModeShowSolution, ModeShowAnnotations}
}

// ParseMode accepts any of the mode names or the empty string.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeNone, nil
	}
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) answerEditable() bool      { return m == ModeEditAnswer }
func (m Mode) answerVisible() bool       { return m == ModeEditAnswer || m == ModeShowSolution }
func (m Mode) solutionEditable() bool    { return m == ModeEditSolution }
func (m Mode) solutionVisible() bool     { return m == ModeEditSolution || m == ModeShowSolution }
func (m Mode) annotationsEditable() bool { return m == ModeEditAnnotations }
func (m Mode) annotationsVisible() bool {
	return m == ModeEditAnnotations || m == ModeShowAnnotations
}

// Containment controls when the answer-inside-solution result is
// recomputed while a solution vertex is being dragged.
type Containment int

const (
	// ContainmentLive recomputes on every drag step.
	ContainmentLive Containment = iota
	// ContainmentOnRelease recomputes once the drag ends.
	ContainmentOnRelease
)

func (c Containment) String() string {
	if c == ContainmentOnRelease {
		return "release"
	}
	return "live"
}

// ParseContainment accepts "live" or "release".
func ParseContainment(s string) (Containment, error) {
	switch s {
	case "", "live":
		return ContainmentLive, nil
	case "release", "on-release":
		return ContainmentOnRelease, nil
	}
	return ContainmentLive, fmt.Errorf("unknown containment policy %q", s)
}
