package draw

import (
	"math"
	"sort"
)

// FillRect fills the logical rectangle [x, x+w) x [y, y+h).
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x1, y1 := c.toPixel(x, y)
	x2, y2 := c.toPixel(x+w, y+h)
	xs, xe := clampSpan(int(math.Round(x1)), int(math.Round(x2)), c.width)
	ys, ye := clampSpan(int(math.Round(y1)), int(math.Round(y2)), c.height)
	for py := ys; py < ye; py++ {
		for px := xs; px < xe; px++ {
			c.blendPixel(px, py, col)
		}
	}
}

// FillVerticalGradient paints the logical area [0,w) x [0,h) one logical row at a time,
// interpolating from top at row 0 towards bottom at row h.
func (c *Canvas) FillVerticalGradient(w, h float64, top, bottom Color) {
	if h <= 0 || c.scaleY == 0 {
		return
	}
	x1, _ := c.toPixel(0, 0)
	x2, _ := c.toPixel(w, 0)
	xs, xe := clampSpan(int(math.Round(x1)), int(math.Round(x2)), c.width)

	for py := 0; py < c.height; py++ {
		// Logical row whose band covers this pixel row's centre.
		row := math.Floor((float64(py)+0.5)/c.scaleY - c.translateY)
		if row < 0 || row >= h {
			continue
		}
		col := Lerp(top, bottom, row/h)
		for px := xs; px < xe; px++ {
			c.blendPixel(px, py, col)
		}
	}
}

// FillCircle fills a circle of logical radius r centred at (cx, cy).
// Non-uniform scaling yields an ellipse in pixel space. A circle smaller than a
// pixel still lights the pixel under its centre.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	if r <= 0 {
		return
	}
	pcx, pcy := c.toPixel(cx, cy)
	rx := r * c.scaleX
	ry := r * c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}

	ys, ye := clampSpan(int(math.Floor(pcy-ry)), int(math.Ceil(pcy+ry))+1, c.height)
	xs, xe := clampSpan(int(math.Floor(pcx-rx)), int(math.Ceil(pcx+rx))+1, c.width)

	hit := false
	for py := ys; py < ye; py++ {
		dy := (float64(py) + 0.5 - pcy) / ry
		for px := xs; px < xe; px++ {
			dx := (float64(px) + 0.5 - pcx) / rx
			if dx*dx+dy*dy <= 1 {
				c.blendPixel(px, py, col)
				hit = true
			}
		}
	}
	if !hit {
		c.blendPixel(int(math.Floor(pcx)), int(math.Floor(pcy)), col)
	}
}

// DrawLine draws a line of the given logical width using Bresenham's algorithm,
// stamping a disc at every step when the width spans more than one pixel.
func (c *Canvas) DrawLine(p1, p2 Point, width float64, col Color) {
	fx1, fy1 := c.toPixel(p1.X, p1.Y)
	fx2, fy2 := c.toPixel(p2.X, p2.Y)
	x1, y1 := int(math.Floor(fx1)), int(math.Floor(fy1))
	x2, y2 := int(math.Floor(fx2)), int(math.Floor(fy2))

	rx := width * c.scaleX / 2
	ry := width * c.scaleY / 2

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.stamp(x1, y1, rx, ry, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// stamp paints an axis-aligned pen of radii (rx, ry) pixels centred on (x, y).
// Translucent pens can double-blend where stamps overlap.
func (c *Canvas) stamp(x, y int, rx, ry float64, col Color) {
	ix, iy := int(rx), int(ry)
	if ix < 1 && iy < 1 {
		c.blendPixel(x, y, col)
		return
	}
	for oy := -iy; oy <= iy; oy++ {
		for ox := -ix; ox <= ix; ox++ {
			c.blendPixel(x+ox, y+oy, col)
		}
	}
}

// FillPolygon fills a polygon using the scanline algorithm in pixel space.
func (c *Canvas) FillPolygon(points []Point, col Color) {
	if len(points) < 3 {
		return
	}

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		x, y := c.toPixel(p.X, p.Y)
		scaled[i] = Point{X: x, Y: y}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart, yEnd := clampSpan(int(math.Floor(minY)), int(math.Ceil(maxY))+1, c.height)

	for y := yStart; y < yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.blendPixel(x, y, col)
			}
		}
	}
}

// StrokePolygon draws the closed outline of a polygon.
func (c *Canvas) StrokePolygon(points []Point, width float64, col Color) {
	if len(points) < 2 {
		return
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], width, col)
	}
}

// clampSpan clamps the half-open range [start, end) to [0, limit).
func clampSpan(start, end, limit int) (int, int) {
	return max(start, 0), min(end, limit)
}
