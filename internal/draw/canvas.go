// Package draw renders frames to a terminal: a cell canvas that only emits
// changed cells, styled with lipgloss, written in network-sized chunks.
package draw

import (
	"math"

	"github.com/mattn/go-runewidth"
)

// Box-drawing and glyph runes used by the renderers.
const (
	BlockFull  = '█'
	BlockLight = '░'
	Blank      = ' '

	// continuation fills the second column of a wide rune and is never emitted.
	continuation = 0
)

// Cell is one terminal character with its style.
type Cell struct {
	R rune
	S Style
}

var blankCell = Cell{R: Blank}

// Canvas is a grid of cells. Render writes only the cells that differ from
// what was last rendered.
type Canvas struct {
	cols, rows int
	cells      []Cell
	front      []Cell // What the terminal currently shows
	forced     bool
	runBuf     []rune // Reused per render
}

// NewCanvas creates a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid size. The next Render redraws everything.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(0, cols), max(0, rows)
	if cols == c.cols && rows == c.rows && c.cells != nil {
		return
	}
	c.cols, c.rows = cols, rows
	c.cells = make([]Cell, cols*rows)
	c.front = make([]Cell, cols*rows)
	c.Clear()
	c.ForceRedraw()
}

// Size returns the grid dimensions.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blankCell
	}
}

// ForceRedraw makes the next Render emit every cell, e.g. after the terminal
// was cleared behind the canvas's back.
func (c *Canvas) ForceRedraw() {
	c.forced = true
}

// Set places r at 0-based (col, row). Out-of-range writes are dropped.
func (c *Canvas) Set(col, row int, r rune, s Style) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = Cell{R: r, S: s}
}

// At returns the cell at (col, row).
func (c *Canvas) At(col, row int) Cell {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return blankCell
	}
	return c.cells[row*c.cols+col]
}

// Text writes s starting at (col, row) and returns the columns it covers.
// Wide runes take two cells; whatever falls outside the grid is clipped.
func (c *Canvas) Text(col, row int, s string, st Style) int {
	start := col
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(col, row, r, st)
		if w == 2 {
			c.Set(col+1, row, continuation, st)
		}
		col += w
	}
	return col - start
}

// TextCentered writes s centered on the row.
func (c *Canvas) TextCentered(row int, s string, st Style) {
	c.Text((c.cols-runewidth.StringWidth(s))/2, row, s, st)
}

// Fill sets every cell of r to ch.
func (c *Canvas) Fill(r Rect, ch rune, s Style) {
	for row := r.Row; row < r.Row+r.Rows; row++ {
		for col := r.Col; col < r.Col+r.Cols; col++ {
			c.Set(col, row, ch, s)
		}
	}
}

// Render writes the changed cells to cw. Consecutive changed cells sharing a
// style are emitted as one styled run.
func (c *Canvas) Render(cw *ChunkWriter, p *Palette) {
	for row := 0; row < c.rows; row++ {
		base := row * c.cols
		col := 0
		for col < c.cols {
			idx := base + col
			if !c.forced && c.cells[idx] == c.front[idx] {
				col++
				continue
			}

			style := c.cells[idx].S
			runStart := col
			c.runBuf = c.runBuf[:0]
			for col < c.cols {
				i := base + col
				cell := c.cells[i]
				if cell.S != style || (!c.forced && cell == c.front[i]) {
					break
				}
				if cell.R != continuation {
					c.runBuf = append(c.runBuf, cell.R)
				}
				c.front[i] = cell
				col++
			}

			if len(c.runBuf) == 0 {
				continue
			}
			cw.MoveCursor(runStart+1, row+1)
			cw.WriteString(p.Render(style, string(c.runBuf)))
		}
	}
	c.forced = false
}

// Rect is a rectangle of cells, 0-based.
type Rect struct {
	Col, Row   int
	Cols, Rows int
}

// Project maps normalized coordinates, (0,0) top-left to (1,1) bottom-right,
// onto a cell inside r. Values outside [0,1] land outside r.
func (r Rect) Project(x, y float64) (col, row int) {
	col = r.Col + int(math.Round(x*float64(r.Cols-1)))
	row = r.Row + int(math.Round(y*float64(r.Rows-1)))
	return col, row
}

// Contains reports whether (col, row) lies inside r.
func (r Rect) Contains(col, row int) bool {
	return col >= r.Col && col < r.Col+r.Cols && row >= r.Row && row < r.Row+r.Rows
}
