package draw

import "sync"

// FrameBuffer hands finished frames from the loop goroutine to a host that draws
// on its own thread (a window's render callback). Present copies the canvas; View
// reads the latest copy.
type FrameBuffer struct {
	mu     sync.Mutex
	width  int
	height int
	pix    []byte // Premultiplied RGBA
	labels []Label
	seq    uint64 // Incremented per presented frame
}

// NewFrameBuffer creates a buffer whose canvas should be width x height pixels.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{width: width, height: height}
}

// CanvasSize reports the pixel size the loop should render at.
func (f *FrameBuffer) CanvasSize() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

// SetSize changes the pixel size used for the next frames.
func (f *FrameBuffer) SetSize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = width, height
}

// Present copies the canvas pixels and labels.
func (f *FrameBuffer) Present(c *Canvas) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 4 * c.Width() * c.Height()
	if cap(f.pix) < n {
		f.pix = make([]byte, n)
	}
	f.pix = f.pix[:n]
	c.WriteRGBA(f.pix)

	f.labels = append(f.labels[:0], c.Labels()...)
	f.seq++
	return nil
}

// View calls fn with the latest frame while holding the buffer. fn must not keep
// pix or labels. seq is 0 until the first frame.
func (f *FrameBuffer) View(fn func(pix []byte, labels []Label, seq uint64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.pix, f.labels, f.seq)
}
