package pptx

import (
	"fmt"
	"math"
)

// Slide dimensions in points (4:3).
const (
	SlideWidth  = 720
	SlideHeight = 540

	emuPerPoint = 12700
)

type Color struct {
	R, G, B uint8
}

var (
	White     = Color{255, 255, 255}
	Black     = Color{0, 0, 0}
	LightGray = Color{192, 192, 192}
)

// Hex is the six-digit srgbClr form, e.g. "225E7C".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	return "#" + c.Hex()
}

// Rect is a position and size in points.
type Rect struct {
	X, Y, W, H float64
}

// Style is everything the renderer needs to lay out one slide.
type Style struct {
	Background Color
	Box        Rect
	Fill       Color
	Border     *Color
	FontFamily string
	FontSize   float64
	FontColor  Color
	// LineSpacing is a percentage; zero leaves the default spacing.
	LineSpacing float64
}

// DefaultStyle is the content slide look: white box with a light gray border
// on a dark teal background, 20pt black Arial at 110% line spacing.
func DefaultStyle() Style {
	border := LightGray
	return Style{
		Background:  Color{34, 94, 124},
		Box:         Rect{X: 50, Y: 30, W: 600, H: 500},
		Fill:        White,
		Border:      &border,
		FontFamily:  "Arial",
		FontSize:    20,
		FontColor:   Black,
		LineSpacing: 110,
	}
}

// TitleStyle is used for the opening slide of the titled layout: a shorter
// box set a little lower, with default line spacing.
func TitleStyle() Style {
	s := DefaultStyle()
	s.Box = Rect{X: 50, Y: 50, W: 600, H: 400}
	s.LineSpacing = 0
	return s
}

func emu(pt float64) int64 {
	return int64(math.Round(pt * emuPerPoint))
}
