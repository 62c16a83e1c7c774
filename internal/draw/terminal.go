package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	// Button press reporting in SGR format (1006) so columns past 223 survive.
	seqMouseOn  = "\033[?1000h\033[?1006h"
	seqMouseOff = "\033[?1006l\033[?1000l"
)

// maxChunkSize keeps each write under a typical 1500 byte MTU.
const maxChunkSize = 1400

// Text colours for HUD overlays.
const (
	ColorReset        = "\033[0m"
	ColorRed          = "\033[31m"
	ColorGreen        = "\033[32m"
	ColorBrightYellow = "\033[93m"
)

// appendCursor appends an absolute cursor move to dst. col and row are 1-based.
func appendCursor(dst []byte, col, row int) []byte {
	dst = append(dst, "\033["...)
	dst = strconv.AppendInt(dst, int64(row), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(col), 10)
	return append(dst, 'H')
}

// ChunkWriter collects one frame of terminal output and sends it in
// MTU-sized pieces, so a frame over SSH does not stall on one huge write.
// Coordinates passed to WriteAt are canvas-relative; the offset that
// centres the canvas in a larger terminal is added here.
type ChunkWriter struct {
	out    io.Writer
	buf    []byte
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter that flushes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, buf: make([]byte, 0, 8192), offCol: offsetCol, offRow: offsetRow}
}

// SetOffset updates the centring offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteAt queues s at a 1-based canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf = appendCursor(cw.buf, col+cw.offCol, row+cw.offRow)
	cw.buf = append(cw.buf, s...)
}

// Clear queues a full terminal clear.
func (cw *ChunkWriter) Clear() {
	cw.buf = append(cw.buf, seqClear...)
}

// Flush sends the queued frame and empties the buffer.
func (cw *ChunkWriter) Flush() error {
	defer func() { cw.buf = cw.buf[:0] }()
	for data := cw.buf; len(data) > 0; {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local terminal.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterGameMode hides the cursor, turns on mouse reporting for taps and
// clears the screen.
func EnterGameMode(w io.Writer) {
	io.WriteString(w, seqHideCursor+seqMouseOn+seqClear)
}

// LeaveGameMode undoes EnterGameMode.
func LeaveGameMode(w io.Writer) {
	io.WriteString(w, seqMouseOff+seqClear+seqShowCursor)
}
