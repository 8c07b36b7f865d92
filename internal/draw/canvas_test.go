package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorHelpers(t *testing.T) {
	assert.Equal(t, Color{R: 0x00, G: 0x05, B: 0x10, A: 0xFF}, Hex(0xFF000510))
	assert.Equal(t, Color{R: 255, G: 100, B: 0, A: 100}, ARGB(100, 255, 100, 0))

	a, b := Hex(0xFF000000), Hex(0xFFC8C8C8)
	assert.Equal(t, a, Lerp(a, b, -1))
	assert.Equal(t, b, Lerp(a, b, 2))
	assert.Equal(t, RGB(100, 100, 100), Lerp(a, b, 0.5))
}

func TestOver(t *testing.T) {
	red := RGB(255, 0, 0)
	assert.Equal(t, red, red.Over(White))
	assert.Equal(t, White, Transparent.Over(White))

	half := ARGB(128, 0, 0, 0).Over(White)
	assert.InDelta(t, 127, int(half.R), 1)
	assert.Equal(t, uint8(255), half.A)
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Clear(Black)
	c.FillCircle(10, 10, 5, White)

	assert.Equal(t, White, c.At(10, 10))
	assert.Equal(t, White, c.At(6, 10))
	assert.Equal(t, Black, c.At(0, 0))
	assert.Equal(t, Black, c.At(16, 16))
}

func TestFillCircleSubPixelLightsCentre(t *testing.T) {
	c := NewScaledCanvas(10, 10, 100, 100)
	c.Clear(Black)
	c.FillCircle(55, 55, 1, White)
	assert.Equal(t, White, c.At(5, 5))
}

func TestTranslateShiftsDrawing(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Clear(Black)
	c.Translate(5, 0)
	c.FillRect(0, 0, 2, 2, White)
	c.DrawText(1, 1, 10, White, "hi")

	assert.Equal(t, Black, c.At(0, 0))
	assert.Equal(t, White, c.At(5, 0))
	require.Len(t, c.Labels(), 1)
	assert.InDelta(t, 6.0, c.Labels()[0].X, 1e-9)

	c.Clear(Black)
	dx, dy := c.Translation()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
	assert.Empty(t, c.Labels())
}

func TestFillVerticalGradient(t *testing.T) {
	top, bottom := Hex(0xFF000510), Hex(0xFF1A0520)
	c := NewCanvas(4, 100)
	c.Clear(Black)
	c.FillVerticalGradient(4, 100, top, bottom)

	assert.Equal(t, top, c.At(0, 0))
	assert.Equal(t, Lerp(top, bottom, 0.5), c.At(3, 50))
	assert.Equal(t, Lerp(top, bottom, 0.99), c.At(0, 99))
}

func TestFillPolygonTriangle(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Clear(Black)
	c.FillPolygon([]Point{{X: 10, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}, White)

	assert.Equal(t, White, c.At(10, 15))
	assert.Equal(t, Black, c.At(1, 1))
	assert.Equal(t, Black, c.At(18, 2))
}

func TestStrokePolygonThickness(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Clear(Black)
	c.StrokePolygon([]Point{{X: 2, Y: 10}, {X: 18, Y: 10}}, 3, White)

	assert.Equal(t, White, c.At(10, 9))
	assert.Equal(t, White, c.At(10, 10))
	assert.Equal(t, White, c.At(10, 11))
	assert.Equal(t, Black, c.At(10, 13))
}

func TestWriteRGBA(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Clear(RGB(1, 2, 3))
	buf := make([]byte, 8)
	c.WriteRGBA(buf)
	assert.Equal(t, []byte{1, 2, 3, 255, 1, 2, 3, 255}, buf)
}

func TestRenderEmitsOnlyChangedCells(t *testing.T) {
	var out bytes.Buffer
	w := NewChunkWriter(&out, 0, 0)
	c := NewTerminalCanvas(4, 2, 4, 4)
	c.Clear(Black)

	c.Render(w)
	require.NoError(t, w.Flush())
	assert.Equal(t, 8, strings.Count(out.String(), string(BlockUpperHalf)))

	out.Reset()
	c.Set(0, 0, White)
	c.Render(w)
	require.NoError(t, w.Flush())
	assert.Equal(t, 1, strings.Count(out.String(), string(BlockUpperHalf)))
	assert.Contains(t, out.String(), "\033[38;2;255;255;255;48;2;0;0;0m")

	out.Reset()
	c.ForceRedraw()
	c.Render(w)
	require.NoError(t, w.Flush())
	assert.Equal(t, 8, strings.Count(out.String(), string(BlockUpperHalf)))
}

func TestRenderLabelsInvalidateCells(t *testing.T) {
	var out bytes.Buffer
	w := NewChunkWriter(&out, 0, 0)
	c := NewTerminalCanvas(10, 2, 10, 4)
	c.Clear(Black)
	c.DrawText(0, 2, 2, White, "TIME")

	c.Render(w)
	require.NoError(t, w.Flush())
	assert.Contains(t, out.String(), "TIME")

	// Without labels the covered cells (text plus one spill cell) are repainted.
	out.Reset()
	c.Clear(Black)
	c.Render(w)
	require.NoError(t, w.Flush())
	assert.Equal(t, 5, strings.Count(out.String(), string(BlockUpperHalf)))
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	w := NewChunkWriter(&out, 3, 2)
	w.WriteAt(1, 1, "x")
	assert.Equal(t, len("\033[3;4Hx"), w.Len())
	require.NoError(t, w.Flush())
	assert.Equal(t, "\033[3;4Hx", out.String())
}

func TestRenderBorder(t *testing.T) {
	var out bytes.Buffer
	w := NewChunkWriter(&out, 0, 0)
	c := NewTerminalCanvas(3, 1, 3, 2)
	c.SetOffset(2, 2)
	c.RenderBorder(w)
	require.NoError(t, w.Flush())
	assert.Contains(t, out.String(), "┌───┐")
	assert.Contains(t, out.String(), "└───┘")
}

func TestFrameBufferCopiesFrame(t *testing.T) {
	fb := NewFrameBuffer(2, 1)
	w, h := fb.CanvasSize()
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)

	fb.View(func(pix []byte, labels []Label, seq uint64) {
		assert.Empty(t, pix)
		assert.Zero(t, seq)
	})

	c := NewCanvas(2, 1)
	c.Clear(RGB(255, 0, 0))
	c.DrawText(0, 0, 10, White, "hi")
	require.NoError(t, fb.Present(c))

	// Later drawing does not leak into the presented copy.
	c.Clear(Black)

	fb.View(func(pix []byte, labels []Label, seq uint64) {
		assert.Equal(t, []byte{255, 0, 0, 255, 255, 0, 0, 255}, pix)
		require.Len(t, labels, 1)
		assert.Equal(t, "hi", labels[0].Text)
		assert.Equal(t, uint64(1), seq)
	})

	fb.SetSize(4, 4)
	w, h = fb.CanvasSize()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)
}
