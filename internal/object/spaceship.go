package object

import (
	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/loop/config"
)

var (
	shipHullColor    = draw.RGB(100, 200, 255)
	shipCockpitColor = draw.RGB(50, 150, 255)
	shipEngineColor  = draw.RGB(255, 100, 50)
	shipOutlineColor = draw.White
)

const (
	shipEngineRadius = 8
	shipOutlineWidth = 3
)

// Spaceship is the player-controlled ship. X/Y is the top-left corner of its bounding box.
type Spaceship struct {
	X, Y          float64
	Width, Height float64
}

// NewSpaceship places the ship near the bottom centre of the screen.
func NewSpaceship(s Screen) *Spaceship {
	return &Spaceship{
		X:      float64(s.Width/2 - config.ShipOffsetX),
		Y:      float64(s.Height - config.ShipBottomMargin),
		Width:  config.ShipWidth,
		Height: config.ShipHeight,
	}
}

// Center returns the centre of the ship's bounding box.
func (s *Spaceship) Center() (x, y float64) {
	return s.X + s.Width/2, s.Y + s.Height/2
}

// Radius is the half-width used for circle checks.
func (s *Spaceship) Radius() float64 {
	return s.Width / 2
}

// Steer centres the ship on pointer x, clamped so the ship stays on screen.
func (s *Spaceship) Steer(pointerX float64, screen Screen) {
	x := pointerX - s.Width/2
	maxX := float64(screen.Width) - s.Width
	if x > maxX {
		x = maxX
	}
	if x < 0 {
		x = 0
	}
	s.X = x
}

// Update is a no-op; the ship only moves through Steer.
func (s *Spaceship) Update(_ UpdateContext) (bool, error) {
	return false, nil
}

// Draw renders the hull, cockpit, engine glow and outline.
func (s *Spaceship) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return ErrNoCanvas
	}
	c := ctx.Canvas

	hull := c.BorrowPoints(3)
	hull[0] = draw.Point{X: s.X + s.Width/2, Y: s.Y}          // Nose
	hull[1] = draw.Point{X: s.X + s.Width, Y: s.Y + s.Height} // Bottom right
	hull[2] = draw.Point{X: s.X, Y: s.Y + s.Height}           // Bottom left
	c.FillPolygon(hull, shipHullColor)

	cx, cy := s.Center()
	c.FillCircle(cx, cy, s.Width/4, shipCockpitColor)

	c.FillCircle(s.X+s.Width/4, s.Y+s.Height-5, shipEngineRadius, shipEngineColor)
	c.FillCircle(s.X+s.Width*3/4, s.Y+s.Height-5, shipEngineRadius, shipEngineColor)

	c.StrokePolygon(hull, shipOutlineWidth, shipOutlineColor)
	return nil
}
