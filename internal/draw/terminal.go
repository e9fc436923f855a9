package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// maxChunkSize keeps each write under one TCP segment on a typical link.
const maxChunkSize = 1400

// Escape sequences the renderer relies on.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// ChunkWriter collects one frame of escape sequences and cell runs, then
// hands it to the terminal in chunks. Positions are shifted by an offset so
// a clamped render area sits centered in a larger terminal.
type ChunkWriter struct {
	out    io.Writer
	frame  []byte
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    w,
		frame:  make([]byte, 0, 16*1024),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the render area, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// MoveCursor queues a cursor move to 1-based canvas coordinates.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame = append(cw.frame, "\033["...)
	cw.frame = strconv.AppendInt(cw.frame, int64(row+cw.offRow), 10)
	cw.frame = append(cw.frame, ';')
	cw.frame = strconv.AppendInt(cw.frame, int64(col+cw.offCol), 10)
	cw.frame = append(cw.frame, 'H')
}

// Clear queues a full terminal clear. Anything the canvas believes is on
// screen must be redrawn afterwards.
func (cw *ChunkWriter) Clear() {
	cw.frame = append(cw.frame, seqClear...)
}

func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.frame = append(cw.frame, p...)
	return len(p), nil
}

func (cw *ChunkWriter) WriteString(s string) {
	cw.frame = append(cw.frame, s...)
}

// WriteAt queues s at 1-based canvas coordinates.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.frame = append(cw.frame, s...)
}

// Pending returns the number of queued bytes.
func (cw *ChunkWriter) Pending() int {
	return len(cw.frame)
}

// Flush writes the queued frame and empties the queue. The queue is emptied
// even when the write fails, a dead terminal does not get the frame again.
func (cw *ChunkWriter) Flush() error {
	data := cw.frame
	cw.frame = cw.frame[:0]
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Hyperlink wraps label in an OSC 8 link to url. Terminals without OSC 8
// support show the label only.
func Hyperlink(url, label string) string {
	return "\033]8;;" + url + "\033\\" + label + "\033]8;;\033\\"
}

// TermSizeFunc reports the terminal size in cells. The SSH host feeds it from
// window-change events.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc asks the local terminal on stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { _, _ = io.WriteString(w, seqClear) }

func HideCursor(w io.Writer) { _, _ = io.WriteString(w, seqHideCursor) }

func ShowCursor(w io.Writer) { _, _ = io.WriteString(w, seqShowCursor) }

// Fit clamps a terminal size to at most maxCols x maxRows and returns the
// render size with the offset that centers it.
func Fit(termCols, termRows, maxCols, maxRows int) (cols, rows, offCol, offRow int) {
	cols = min(max(termCols, 0), maxCols)
	rows = min(max(termRows, 0), maxRows)
	offCol = max(0, (termCols-cols)/2)
	offRow = max(0, (termRows-rows)/2)
	return cols, rows, offCol, offRow
}
