package theme

import (
	"image/color"
)

// Theme defines the colors used to draw the overlay.
type Theme struct {
	Name string

	// Canvas
	Background color.RGBA // behind and around the image

	// Polygons
	SolutionStroke color.RGBA
	SolutionFill   color.RGBA // drawn with reduced alpha
	ActiveStroke   color.RGBA // outline of the polygon being edited
	OpenPath       color.RGBA // unclosed polygons
	RubberBand     color.RGBA

	// Vertex handles
	HandleFill   color.RGBA
	HandleStroke color.RGBA
	HandleHot    color.RGBA
	HandleClose  color.RGBA // initial vertex while a click would close

	// Answer marker
	AnswerNeutral color.RGBA
	AnswerInside  color.RGBA
	AnswerOutside color.RGBA
	AnswerGlow    color.RGBA

	// Controls
	ButtonFill        color.RGBA
	ButtonGlyph       color.RGBA
	TooltipBackground color.RGBA
	TooltipText       color.RGBA
}

// Default returns the built-in theme used when nothing else is configured.
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{64, 64, 64, 255},
		SolutionStroke:    color.RGBA{0, 0, 0, 255},
		SolutionFill:      color.RGBA{255, 255, 255, 255},
		ActiveStroke:      color.RGBA{255, 255, 255, 255},
		OpenPath:          color.RGBA{255, 140, 0, 255},
		RubberBand:        color.RGBA{200, 200, 200, 255},
		HandleFill:        color.RGBA{255, 255, 255, 255},
		HandleStroke:      color.RGBA{0, 0, 0, 255},
		HandleHot:         color.RGBA{255, 215, 0, 255},
		HandleClose:       color.RGBA{0, 200, 0, 255},
		AnswerNeutral:     color.RGBA{0, 0, 255, 255},
		AnswerInside:      color.RGBA{0, 255, 0, 255},
		AnswerOutside:     color.RGBA{255, 0, 0, 255},
		AnswerGlow:        color.RGBA{255, 255, 255, 255},
		ButtonFill:        color.RGBA{0, 0, 0, 255},
		ButtonGlyph:       color.RGBA{255, 255, 255, 255},
		TooltipBackground: color.RGBA{255, 255, 255, 230},
		TooltipText:       color.RGBA{0, 0, 0, 255},
	}
}
