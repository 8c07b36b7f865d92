// Package loop runs a round: world state, the per-tick update, rendering and the
// goroutine that drives them.
package loop

import (
	"errors"
	"time"

	"github.com/kamstrup/intmap"

	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/object"
	"github.com/tomz197/novarush/internal/physics"
)

// World holds the state of one round. It is owned by the goroutine that calls Step.
type World struct {
	Screen  object.Screen
	Ship    *object.Spaceship // Nil until the first Resize
	Meteors *intmap.Map[uint32, *object.Meteor]
	Stars   []*object.Star

	SurvivalTime int64 // Whole seconds since Start
	NearMisses   int

	ShakeFrames    int
	ShakeX, ShakeY float64

	Playing bool

	rand    object.Random
	spawner object.Object
	start   time.Time
	nextID  uint32
	removed []uint32 // Reused per step
}

// StepResult reports what happened during one Step.
type StepResult struct {
	NearMisses int  // Near misses counted this step
	GameOver   bool // The ship was hit this step
	Err        error
}

// NewWorld creates an empty, stopped world.
func NewWorld(rnd object.Random) *World {
	return &World{
		Meteors: intmap.New[uint32, *object.Meteor](64),
		rand:    rnd,
		spawner: object.NewMeteorSpawner(),
	}
}

// Resize applies a new screen size: the ship is re-created at its start position
// and the star field is regenerated.
func (w *World) Resize(width, height int) {
	w.Screen = object.Screen{Width: width, Height: height}
	w.Ship = object.NewSpaceship(w.Screen)
	w.Stars = object.NewStarField(w.Screen, w.rand)
}

// Start begins the round at now.
func (w *World) Start(now time.Time) {
	w.start = now
	w.Playing = true
}

// Spawn adds a meteor under a fresh id.
func (w *World) Spawn(m *object.Meteor) {
	w.nextID++
	m.ID = w.nextID
	w.Meteors.Put(m.ID, m)
}

// Step advances the world by one tick. pointerX is applied first when ok is set.
// After a hit the world stops playing and further calls do nothing. Entity update
// errors are joined into the result's Err; the tick still completes.
func (w *World) Step(now time.Time, pointerX float64, ok bool) StepResult {
	var res StepResult
	if !w.Playing || w.Ship == nil {
		return res
	}

	if ok {
		w.Ship.Steer(pointerX, w.Screen)
	}

	w.SurvivalTime = int64(now.Sub(w.start) / time.Second)

	ctx := object.UpdateContext{
		Screen:       w.Screen,
		Rand:         w.rand,
		Spawner:      w,
		SurvivalTime: w.SurvivalTime,
	}

	var errs []error
	if _, err := w.spawner.Update(ctx); err != nil {
		errs = append(errs, err)
	}

	if w.updateMeteors(ctx, &res, &errs) {
		res.Err = errors.Join(errs...)
		return res
	}

	for _, st := range w.Stars {
		if _, err := st.Update(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	w.updateShake()
	res.Err = errors.Join(errs...)
	return res
}

// updateMeteors moves every meteor and runs the hit and near-miss checks.
// It returns true when the ship was hit.
func (w *World) updateMeteors(ctx object.UpdateContext, res *StepResult, errs *[]error) bool {
	w.removed = w.removed[:0]
	hit := false

	w.Meteors.ForEach(func(id uint32, m *object.Meteor) bool {
		remove, err := m.Update(ctx)
		if err != nil {
			*errs = append(*errs, err)
		}
		if remove {
			w.removed = append(w.removed, id)
			return true
		}

		switch m.Band(w.Ship) {
		case physics.BandHit:
			hit = true
			return false
		case physics.BandNearMiss:
			if !m.CountedAsNearMiss {
				m.CountedAsNearMiss = true
				w.NearMisses++
				res.NearMisses++
				w.ShakeFrames = config.ShakeTicks
			}
		}
		return true
	})

	for _, id := range w.removed {
		if m, ok := w.Meteors.Get(id); ok {
			w.Meteors.Del(id)
			object.ReleaseObject(m)
		}
	}

	if hit {
		w.Playing = false
		res.GameOver = true
	}
	return hit
}

func (w *World) updateShake() {
	if w.ShakeFrames > 0 {
		w.ShakeFrames--
		w.ShakeX = (w.rand.Float64() - 0.5) * config.ShakeAmplitude
		w.ShakeY = (w.rand.Float64() - 0.5) * config.ShakeAmplitude
		return
	}
	w.ShakeX, w.ShakeY = 0, 0
}

// MeteorCount returns the number of live meteors.
func (w *World) MeteorCount() int {
	return w.Meteors.Len()
}
