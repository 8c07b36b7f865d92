package draw

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Stays under a typical 1500 byte MTU for smooth SSH transmission.
const maxChunkSize = 1400

// ChunkWriter accumulates text for terminal output and writes in chunks for optimal
// network flow (e.g. over SSH). Use MoveCursor, WriteString, WriteRune to accumulate,
// then Flush to write to the underlying writer. Implements io.Writer for Canvas.Render.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
	numBuf [20]byte      // Scratch buffer for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to all MoveCursor coordinates (for canvas centering).
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence. col and row are 1-based
// canvas coordinates; offset is applied automatically.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// SetColors appends truecolor foreground and background sequences.
func (cw *ChunkWriter) SetColors(fg, bg Color) {
	cw.buf.WriteString("\033[38;2;")
	cw.writeRGB(fg)
	cw.buf.WriteString(";48;2;")
	cw.writeRGB(bg)
	cw.buf.WriteByte('m')
}

func (cw *ChunkWriter) writeRGB(c Color) {
	cw.buf.Write(strconv.AppendUint(cw.numBuf[:0], uint64(c.R), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendUint(cw.numBuf[:0], uint64(c.G), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendUint(cw.numBuf[:0], uint64(c.B), 10))
}

// ResetStyle appends the SGR reset sequence.
func (cw *ChunkWriter) ResetStyle() {
	cw.buf.WriteString("\033[0m")
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes a string at a specific position. col and row are 1-based canvas coordinates; offset is applied automatically.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteRune appends a rune to the buffer.
func (cw *ChunkWriter) WriteRune(r rune) {
	cw.buf.WriteRune(r)
}

// Len returns the number of buffered bytes not yet flushed.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[0m\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Rows returns the number of terminal rows covered by the canvas.
func (c *Canvas) Rows() int {
	return (c.height + 1) / 2
}

// Cell returns the two stacked pixels shown by terminal cell (col, row), 0-based.
func (c *Canvas) Cell(col, row int) (top, bottom Color) {
	top = c.At(col, row*2)
	bottom = c.At(col, row*2+1)
	if row*2+1 >= c.height {
		bottom = top
	}
	return top, bottom
}

// LogicalToTerminal converts logical coordinates to 1-based canvas cell position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// Render writes the canvas to w as truecolor half-block cells (upper half = top pixel,
// background = bottom pixel), followed by the queued labels. Only cells that changed
// since the previous Render are emitted unless a redraw was forced.
func (c *Canvas) Render(w *ChunkWriter) {
	w.SetOffset(c.offsetCol, c.offsetRow)

	rows := c.Rows()
	var lastFG, lastBG Color
	styled := false

	for row := 0; row < rows; row++ {
		cursorCol := -1
		for col := 0; col < c.width; col++ {
			top, bottom := c.Cell(col, row)
			ti := row*2*c.width + col
			bi := ti + c.width
			if !c.forceRedraw && c.prev[ti] == top && (bi >= len(c.prev) || c.prev[bi] == bottom) {
				continue
			}
			c.prev[ti] = top
			if bi < len(c.prev) {
				c.prev[bi] = bottom
			}

			if cursorCol != col {
				w.MoveCursor(col+1, row+1)
			}
			if !styled || top != lastFG || bottom != lastBG {
				w.SetColors(top, bottom)
				lastFG, lastBG = top, bottom
				styled = true
			}
			w.WriteRune(BlockUpperHalf)
			cursorCol = col + 1
		}
	}

	c.renderLabels(w)
	w.ResetStyle()
	c.forceRedraw = false
}

// renderLabels writes labels over the cells and invalidates those cells so the
// next frame repaints them.
func (c *Canvas) renderLabels(w *ChunkWriter) {
	rows := c.Rows()
	for _, l := range c.labels {
		col, row := c.LogicalToTerminal(l.X, l.Y-l.Size/2)
		if row < 1 || row > rows || col > c.width {
			continue
		}
		col = max(col, 1)

		text := []rune(l.Text)
		if room := c.width - col + 1; len(text) > room {
			text = text[:room]
		}

		top, _ := c.Cell(col-1, row-1)
		w.MoveCursor(col, row)
		w.SetColors(l.Color.Over(top).Opaque(), top)
		w.WriteString(string(text))

		// A wide glyph can spill one extra cell.
		for i := col - 1; i < min(col+len(text), c.width); i++ {
			ti := (row-1)*2*c.width + i
			c.prev[ti] = Transparent
			if ti+c.width < len(c.prev) {
				c.prev[ti+c.width] = Transparent
			}
		}
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w *ChunkWriter) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	rows := c.Rows()
	w.SetOffset(0, 0)
	w.ResetStyle()

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.width + 1
	top := c.offsetRow
	bottom := c.offsetRow + rows + 1
	line := strings.Repeat("─", c.width)

	if hasV {
		if hasH {
			w.WriteAt(left, top, "┌"+line+"┐")
			w.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			w.WriteAt(c.offsetCol+1, top, line)
			w.WriteAt(c.offsetCol+1, bottom, line)
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+rows; row++ {
			w.WriteAt(left, row, "│")
			w.WriteAt(right, row, "│")
		}
	}

	w.SetOffset(c.offsetCol, c.offsetRow)
}
