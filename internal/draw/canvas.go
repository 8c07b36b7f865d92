package draw

import "math"

// Canvas is an RGBA pixel buffer addressed in logical coordinates.
// Logical coordinates are scaled to the pixel grid independently per axis, so the
// same game geometry can target a terminal (2 sub-pixels per row) or a window.
type Canvas struct {
	width  int     // Pixel columns
	height int     // Pixel rows
	pixels []Color // Flat slice: [y * width + x]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // width / logicalWidth
	scaleY        float64 // height / logicalHeight

	// Logical translation applied to every drawing call
	translateX float64
	translateY float64

	labels []Label // Text drawn by the presenter on top of the pixels

	// Terminal output state (see terminal.go)
	offsetCol   int
	offsetRow   int
	prev        []Color // Last frame written by Render; zero entries are unknown
	forceRedraw bool

	// Reusable buffers to reduce allocations
	scaledBuf       []Point   // Reusable buffer for fillPolygon scaled points
	intersectionBuf []float64 // Reusable buffer for scanline intersections
	polygonBuf      []Point   // Reusable buffer for polygon point generation
}

// Label is a line of text anchored at a logical baseline position.
type Label struct {
	X, Y  float64 // Logical position of the text origin (left, baseline)
	Size  float64 // Logical text height
	Color Color
	Text  string
}

// NewCanvas creates a canvas with a 1:1 mapping between logical and pixel units.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height))
}

// NewTerminalCanvas creates a canvas for a terminal of cols x rows cells.
// Each cell holds two vertically stacked pixels (half-block rendering).
func NewTerminalCanvas(cols, rows int, logicalWidth, logicalHeight float64) *Canvas {
	return NewScaledCanvas(cols, rows*2, logicalWidth, logicalHeight)
}

// NewScaledCanvas creates a canvas of width x height pixels that scales from
// the given logical coordinate space.
func NewScaledCanvas(width, height int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	c.SetLogicalSize(logicalWidth, logicalHeight)
	return c
}

// Resize updates the pixel grid while keeping the logical size.
func (c *Canvas) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	if width != c.width || height != c.height || c.pixels == nil {
		c.pixels = make([]Color, width*height)
		c.prev = make([]Color, width*height)
		c.width = width
		c.height = height
		c.forceRedraw = true
	}
	c.updateScale()
}

// SetLogicalSize changes the logical coordinate space.
func (c *Canvas) SetLogicalSize(logicalWidth, logicalHeight float64) {
	c.logicalWidth = logicalWidth
	c.logicalHeight = logicalHeight
	c.updateScale()
}

func (c *Canvas) updateScale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.width) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.height) / c.logicalHeight
	}
}

// Clear fills every pixel with bg, drops all labels and resets the translation.
func (c *Canvas) Clear(bg Color) {
	for i := range c.pixels {
		c.pixels[i] = bg
	}
	c.labels = c.labels[:0]
	c.translateX, c.translateY = 0, 0
}

// Translate sets the logical offset added to all subsequent drawing.
func (c *Canvas) Translate(dx, dy float64) {
	c.translateX = dx
	c.translateY = dy
}

// Translation returns the current logical offset.
func (c *Canvas) Translation() (dx, dy float64) {
	return c.translateX, c.translateY
}

// blendPixel composites col onto the pixel at grid coordinates (no scaling).
func (c *Canvas) blendPixel(x, y int, col Color) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		i := y*c.width + x
		c.pixels[i] = col.Over(c.pixels[i])
	}
}

// toPixel converts a logical point to fractional pixel coordinates.
func (c *Canvas) toPixel(x, y float64) (float64, float64) {
	return (x + c.translateX) * c.scaleX, (y + c.translateY) * c.scaleY
}

// Set blends col into the pixel containing logical point (x, y).
func (c *Canvas) Set(x, y float64, col Color) {
	px, py := c.toPixel(x, y)
	c.blendPixel(int(math.Floor(px)), int(math.Floor(py)), col)
}

// At returns the pixel at grid coordinates, or Transparent when out of range.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Transparent
	}
	return c.pixels[y*c.width+x]
}

// AtLogical returns the pixel under logical point (x, y), ignoring translation.
func (c *Canvas) AtLogical(x, y float64) Color {
	return c.At(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)))
}

// DrawText queues a text label at logical (x, y), translated like other shapes.
// Presenters draw labels after the pixels.
func (c *Canvas) DrawText(x, y, size float64, col Color, text string) {
	c.labels = append(c.labels, Label{
		X:     x + c.translateX,
		Y:     y + c.translateY,
		Size:  size,
		Color: col,
		Text:  text,
	})
}

// Labels returns the text queued since the last Clear.
func (c *Canvas) Labels() []Label {
	return c.labels
}

// WriteRGBA copies the pixels into dst as alpha-premultiplied RGBA bytes.
// dst must hold at least 4*Width*Height bytes.
func (c *Canvas) WriteRGBA(dst []byte) {
	for i, p := range c.pixels {
		a := uint32(p.A)
		dst[i*4] = uint8(uint32(p.R) * a / 255)
		dst[i*4+1] = uint8(uint32(p.G) * a / 255)
		dst[i*4+2] = uint8(uint32(p.B) * a / 255)
		dst[i*4+3] = p.A
	}
}

// Width returns the pixel column count.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the pixel row count.
func (c *Canvas) Height() int {
	return c.height
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// Scale returns the logical-to-pixel factors.
func (c *Canvas) Scale() (sx, sy float64) {
	return c.scaleX, c.scaleY
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
// Thread-safe as long as each goroutine uses its own Canvas instance.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
