// Package draw renders the playfield to a terminal: a colour canvas with
// double vertical resolution and a chunked writer for text overlays.
package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Block characters used for half-block rendering.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// maxChunkSize is the largest single write, close to a typical MTU so frames
// flow smoothly over SSH.
const maxChunkSize = 1400

// Canvas is a colour pixel buffer with 2x vertical resolution. Each terminal
// cell shows two pixels using half-block characters. Drawing uses logical
// coordinates that are scaled to the terminal size.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int    // termHeight * 2
	pixels         []Ink  // [y * termWidth + x]
	drawn          []bool // Cells left non-empty on the terminal by the last Render

	logicalWidth  float64
	logicalHeight float64 // In sub-pixels
	scaleX        float64
	scaleY        float64

	// 0-based terminal offsets of the render area.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewCanvas creates an unscaled canvas for the given terminal dimensions.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas mapping a logicalWidth x logicalHeight
// space onto termWidth x termHeight cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions, keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Ink, c.subPixelHeight*termWidth)
		c.drawn = make([]bool, termWidth*termHeight)
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row where the canvas starts.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Clear resets every pixel. The terminal keeps the last frame until the
// next Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw forgets what the terminal shows. Call it after clearing the
// screen so Render does not blank cells that are already blank.
func (c *Canvas) ForceRedraw() {
	clear(c.drawn)
}

func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = ink
	}
}

// At returns the ink of the pixel at terminal pixel coordinates.
func (c *Canvas) At(x, y int) Ink {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return InkNone
	}
	return c.pixels[y*c.termWidth+x]
}

// Set colours the pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, ink Ink) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), ink)
}

// HLine draws a horizontal line at logical height y from x1 to x2.
func (c *Canvas) HLine(y, x1, x2 float64, ink Ink) {
	py := int(math.Round(y * c.scaleY))
	a := int(math.Round(x1 * c.scaleX))
	b := int(math.Round(x2 * c.scaleX))
	if a > b {
		a, b = b, a
	}
	for px := a; px <= b; px++ {
		c.setPixel(px, py, ink)
	}
}

// FillCircle fills a disc of logical radius r centred at (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r float64, ink Ink) {
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY
	if rx < 0.5 && ry < 0.5 {
		c.setPixel(int(math.Round(pcx)), int(math.Round(pcy)), ink)
		return
	}
	for py := int(math.Floor(pcy - ry)); py <= int(math.Ceil(pcy+ry)); py++ {
		dy := (float64(py) - pcy) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		for px := int(math.Ceil(pcx - half)); px <= int(math.Floor(pcx+half)); px++ {
			c.setPixel(px, py, ink)
		}
	}
}

// Render writes the canvas to w using half-block characters. Only cells
// that are set, or were set by the previous Render, are written. Runs of
// cells share one cursor move and colours are only emitted on change.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	var fg, bg Ink
	colorsSet := false
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		cellOffset := row * c.termWidth
		lastCol := -2

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			empty := top == InkNone && bottom == InkNone
			if empty && !c.drawn[cellOffset+col] {
				continue
			}
			c.drawn[cellOffset+col] = !empty

			var ch rune
			var wantFG, wantBG Ink
			switch {
			case empty:
				ch = ' '
			case top == bottom:
				ch, wantFG = BlockFull, top
			case bottom == InkNone:
				ch, wantFG = BlockUpperHalf, top
			case top == InkNone:
				ch, wantFG = BlockLowerHalf, bottom
			default:
				ch, wantFG, wantBG = BlockUpperHalf, top, bottom
			}

			if col != lastCol+1 {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if !colorsSet || wantFG != fg {
				c.renderBuf.WriteString(wantFG.FG())
				fg = wantFG
			}
			if !colorsSet || wantBG != bg {
				c.renderBuf.WriteString(wantBG.BG())
				bg = wantBG
			}
			colorsSet = true
			c.renderBuf.WriteRune(ch)
			lastCol = col
		}
	}
	if colorsSet {
		c.renderBuf.WriteString(ColorReset)
	}

	return writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// RenderBorder draws a box around the canvas when it is offset inside a
// larger terminal. Horizontal bars need a row offset, vertical bars a
// column offset.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	buf.WriteString(ColorDim)
	if hasV {
		if hasH {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left) + "H┌" + bar + "┐")
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left) + "H└" + bar + "┘")
		} else {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(c.offsetCol+1) + "H" + bar)
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(c.offsetCol+1) + "H" + bar)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow, endRow = c.offsetRow+1, c.offsetRow+c.termHeight+1
		}
		for row := startRow; row < endRow; row++ {
			r := strconv.Itoa(row)
			buf.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│\033[" + r + ";" + strconv.Itoa(right) + "H│")
		}
	}
	buf.WriteString(ColorReset)
	_, err := io.WriteString(w, buf.String())
	return err
}

func (c *Canvas) LogicalWidth() float64  { return c.logicalWidth }
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }
func (c *Canvas) TerminalWidth() int     { return c.termWidth }
func (c *Canvas) TerminalHeight() int    { return c.termHeight }

// LogicalToTerminal converts logical coordinates to a 1-based canvas
// (col, row), for placing text over canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}
