package draw

import (
	"strconv"

	"github.com/Samster1523/ColorShooter2/internal/object"
)

// ANSI escape sequences for text overlays.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorDim        = "\033[2m"
	ColorBrightCyan = "\033[96m"
	ColorWhite      = "\033[97m"
)

// Ink is a canvas pixel colour. The zero Ink is an unset pixel.
type Ink uint8

const (
	InkNone Ink = iota
	InkRed
	InkGreen
	InkYellow
	InkBlue
	InkWhite
	InkGray
	InkCyan
	InkMagenta
)

// ansi holds the bright foreground SGR code for each ink.
var ansi = [...]int{
	InkRed:     91,
	InkGreen:   92,
	InkYellow:  93,
	InkBlue:    94,
	InkWhite:   97,
	InkGray:    90,
	InkCyan:    96,
	InkMagenta: 95,
}

// InkFor maps a game colour to its ink.
func InkFor(c object.Color) Ink {
	switch c {
	case object.Red:
		return InkRed
	case object.Green:
		return InkGreen
	case object.Yellow:
		return InkYellow
	case object.Blue:
		return InkBlue
	default:
		return InkWhite
	}
}

// FG returns the escape sequence selecting i as the foreground colour.
func (i Ink) FG() string {
	if i == InkNone || int(i) >= len(ansi) {
		return "\033[39m"
	}
	return "\033[" + strconv.Itoa(ansi[i]) + "m"
}

// BG returns the escape sequence selecting i as the background colour.
func (i Ink) BG() string {
	if i == InkNone || int(i) >= len(ansi) {
		return "\033[49m"
	}
	return "\033[" + strconv.Itoa(ansi[i]+10) + "m"
}
