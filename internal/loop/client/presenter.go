package client

import (
	"sync/atomic"
	"time"

	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/loop/config"
)

// termLayout is the clamped render area inside the terminal.
type termLayout struct {
	cols, rows           int
	offsetCol, offsetRow int
}

// logicalSize maps the render area to playfield units.
func (l termLayout) logicalSize() (width, height int) {
	return l.cols * config.TermPixelSize, l.rows * 2 * config.TermPixelSize
}

// termPresenter writes frames as half-block ANSI art. The session goroutine
// publishes the layout; the loop goroutine reads it before each frame.
type termPresenter struct {
	w       *draw.ChunkWriter
	layout  atomic.Pointer[termLayout]
	applied termLayout
	bell    atomic.Bool
}

func newTermPresenter(w *draw.ChunkWriter, l termLayout) *termPresenter {
	p := &termPresenter{w: w}
	p.layout.Store(&l)
	return p
}

func (p *termPresenter) setLayout(l termLayout) {
	p.layout.Store(&l)
}

// CanvasSize reports the pixel grid: one column and two pixel rows per cell.
func (p *termPresenter) CanvasSize() (int, int) {
	l := p.layout.Load()
	return l.cols, l.rows * 2
}

// Pulse rings the terminal bell on the next frame.
func (p *termPresenter) Pulse(time.Duration) {
	p.bell.Store(true)
}

// Present diffs the canvas against the previous frame and flushes it.
func (p *termPresenter) Present(c *draw.Canvas) error {
	l := *p.layout.Load()
	if l != p.applied {
		p.w.WriteString("\033[H\033[2J")
		c.ForceRedraw()
		p.applied = l
	}

	c.SetOffset(l.offsetCol, l.offsetRow)
	c.Render(p.w)
	c.RenderBorder(p.w)

	if p.bell.Swap(false) {
		p.w.WriteString("\a")
	}
	return p.w.Flush()
}
