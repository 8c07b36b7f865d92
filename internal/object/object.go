// Package object holds the game entities and how each one updates and draws itself.
package object

import (
	"errors"

	"github.com/tomz197/novarush/internal/draw"
)

var (
	ErrNoCanvas  = errors.New("object: draw context has no canvas")
	ErrNoSpawner = errors.New("object: update context has no spawner")
)

// Random is the source of randomness used by entities.
// *math/rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// Spawner allows objects to spawn new meteors during update.
type Spawner interface {
	Spawn(m *Meteor)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Screen       Screen
	Rand         Random
	Spawner      Spawner
	SurvivalTime int64 // Whole seconds since the round started
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
	Ship   *Spaceship // Nil before the screen size is known
}

// Screen is the logical playfield size.
type Screen struct {
	Width  int
	Height int
}

// Center returns the middle of the screen.
func (s Screen) Center() (x, y float64) {
	return float64(s.Width) / 2, float64(s.Height) / 2
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Compile-time checks that the entities implement Object.
var (
	_ Object = (*Spaceship)(nil)
	_ Object = (*Meteor)(nil)
	_ Object = (*MeteorSpawner)(nil)
	_ Object = (*Star)(nil)
	_ Object = HUD{}
	_ Object = Text{}

	_ Releasable = (*Meteor)(nil)
)

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}
