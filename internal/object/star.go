package object

import (
	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/loop/config"
)

// Star is a decorative background dot that drifts down and wraps to the top.
type Star struct {
	X, Y float64
	Size float64 // Radius
}

// NewStarField scatters config.StarCount stars over the screen.
func NewStarField(s Screen, rnd Random) []*Star {
	stars := make([]*Star, 0, config.StarCount)
	for i := 0; i < config.StarCount; i++ {
		stars = append(stars, &Star{
			X:    float64(intn(rnd, s.Width)),
			Y:    float64(intn(rnd, s.Height)),
			Size: config.StarMinSize + rnd.Float64()*(config.StarMaxSize-config.StarMinSize),
		})
	}
	return stars
}

// Update moves the star down; past the bottom it restarts at the top at a new x.
func (st *Star) Update(ctx UpdateContext) (bool, error) {
	st.Y += config.StarSpeed
	if st.Y > float64(ctx.Screen.Height) {
		st.Y = 0
		st.X = float64(intn(ctx.Rand, ctx.Screen.Width))
	}
	return false, nil
}

// Draw renders the star as a white dot.
func (st *Star) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return ErrNoCanvas
	}
	ctx.Canvas.FillCircle(st.X, st.Y, st.Size, draw.White)
	return nil
}

// intn is rnd.Intn guarded against empty ranges.
func intn(rnd Random, n int) int {
	if n <= 0 {
		return 0
	}
	return rnd.Intn(n)
}
