package object

import (
	"sync"

	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/physics"
)

var (
	meteorBodyColor   = draw.RGB(139, 69, 19)
	meteorCraterColor = draw.RGB(100, 50, 20)
	meteorTrailColor  = draw.ARGB(100, 255, 100, 0)
	meteorDangerColor = draw.ARGB(50, 255, 0, 0)
)

const (
	meteorTrailBlobs   = 3
	meteorTrailSpacing = 15
)

// Meteor is a falling rock. X/Y is the top-left corner of its bounding square.
type Meteor struct {
	ID    uint32
	X, Y  float64
	Size  float64 // Diameter
	Speed float64 // Pixels per tick, downward

	// CountedAsNearMiss is set the first tick the meteor enters the near-miss band.
	CountedAsNearMiss bool
}

// meteorPool recycles meteors; a busy round spawns several per second.
var meteorPool = sync.Pool{
	New: func() any {
		return &Meteor{}
	},
}

// NewMeteor takes a meteor from the pool and places it at (x, y).
func NewMeteor(x, y, size, speed float64) *Meteor {
	m := meteorPool.Get().(*Meteor)
	*m = Meteor{
		X:     x,
		Y:     y,
		Size:  size,
		Speed: speed,
	}
	return m
}

// Release returns the meteor to the pool. It must not be used afterwards.
func (m *Meteor) Release() {
	meteorPool.Put(m)
}

// Center returns the centre of the meteor.
func (m *Meteor) Center() (x, y float64) {
	return m.X + m.Size/2, m.Y + m.Size/2
}

// Radius returns half the diameter.
func (m *Meteor) Radius() float64 {
	return m.Size / 2
}

// Update moves the meteor down. It is removed once it is below the screen.
func (m *Meteor) Update(ctx UpdateContext) (bool, error) {
	m.Y += m.Speed
	return m.Y > float64(ctx.Screen.Height), nil
}

// Band classifies the meteor's distance to the ship.
func (m *Meteor) Band(s *Spaceship) physics.Band {
	sx, sy := s.Center()
	mx, my := m.Center()
	th := physics.NewThresholds(s.Radius(), m.Radius(), config.CollisionFactor, config.NearMissFactor)
	return th.Between(sx, sy, mx, my)
}

// Draw renders the body, craters, fire trail and the danger glow while the
// meteor is in the ship's near-miss band.
func (m *Meteor) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return ErrNoCanvas
	}
	c := ctx.Canvas
	cx, cy := m.Center()

	c.FillCircle(cx, cy, m.Size/2, meteorBodyColor)

	c.FillCircle(m.X+m.Size*0.3, m.Y+m.Size*0.3, m.Size*0.15, meteorCraterColor)
	c.FillCircle(m.X+m.Size*0.7, m.Y+m.Size*0.6, m.Size*0.1, meteorCraterColor)

	for i := 0; i < meteorTrailBlobs; i++ {
		trailY := m.Y - float64(i+1)*meteorTrailSpacing
		trailSize := m.Size * (0.4 - float64(i)*0.1)
		c.FillCircle(cx, trailY, trailSize, meteorTrailColor)
	}

	if ctx.Ship != nil && m.Band(ctx.Ship) == physics.BandNearMiss {
		c.FillCircle(cx, cy, m.Size*0.8, meteorDangerColor)
	}
	return nil
}
