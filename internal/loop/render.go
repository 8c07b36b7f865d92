package loop

import (
	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/object"
)

var (
	backgroundTop    = draw.Hex(0xFF000510)
	backgroundBottom = draw.Hex(0xFF1A0520)
)

// Render draws the world onto c. The canvas logical size should match w.Screen.
// Back to front: gradient, stars, meteors, ship, HUD. Everything is shifted by the
// current shake offset. It stops at the first entity that fails to draw.
func Render(w *World, c *draw.Canvas) error {
	c.Clear(draw.Black)
	if w.Screen.Width <= 0 || w.Screen.Height <= 0 {
		return nil
	}

	c.Translate(w.ShakeX, w.ShakeY)
	c.FillVerticalGradient(float64(w.Screen.Width), float64(w.Screen.Height), backgroundTop, backgroundBottom)

	ctx := object.DrawContext{Canvas: c, Ship: w.Ship}

	if err := w.spawner.Draw(ctx); err != nil {
		return err
	}

	for _, st := range w.Stars {
		if err := st.Draw(ctx); err != nil {
			return err
		}
	}

	var err error
	w.Meteors.ForEach(func(_ uint32, m *object.Meteor) bool {
		err = m.Draw(ctx)
		return err == nil
	})
	if err != nil {
		return err
	}

	if w.Ship != nil {
		if err := w.Ship.Draw(ctx); err != nil {
			return err
		}
	}

	hud := object.HUD{SurvivalTime: w.SurvivalTime, NearMisses: w.NearMisses}
	return hud.Draw(ctx)
}
