package object

import (
	"fmt"

	"github.com/tomz197/novarush/internal/draw"
)

// HUD shows survival time and near misses with a soft shadow.
type HUD struct {
	SurvivalTime int64
	NearMisses   int
}

// Text is a line drawn twice: a translucent shadow offset by two pixels, then the main colour.
type Text struct {
	X, Y   float64
	Size   float64
	Color  draw.Color
	Shadow draw.Color
	Value  string
}

// Draw queues the shadow and main text on the canvas.
func (t Text) Draw(ctx DrawContext) error {
	if t.Value == "" {
		return nil
	}
	if ctx.Canvas == nil {
		return ErrNoCanvas
	}
	ctx.Canvas.DrawText(t.X+2, t.Y+2, t.Size, t.Shadow, t.Value)
	ctx.Canvas.DrawText(t.X, t.Y, t.Size, t.Color, t.Value)
	return nil
}

// Update is a no-op for static text.
func (t Text) Update(_ UpdateContext) (bool, error) {
	return false, nil
}

// Lines returns the two HUD texts.
func (h HUD) Lines() []Text {
	return []Text{
		{
			X: 50, Y: 70, Size: 50,
			Color:  draw.RGB(0, 255, 255),
			Shadow: draw.ARGB(150, 0, 255, 255),
			Value:  fmt.Sprintf("TIME: %ds", h.SurvivalTime),
		},
		{
			X: 50, Y: 130, Size: 40,
			Color:  draw.RGB(255, 165, 0),
			Shadow: draw.ARGB(150, 255, 165, 0),
			Value:  fmt.Sprintf("⚠ %d", h.NearMisses),
		},
	}
}

// Update is a no-op; the loop refreshes the counters.
func (h HUD) Update(_ UpdateContext) (bool, error) {
	return false, nil
}

// Draw queues both lines.
func (h HUD) Draw(ctx DrawContext) error {
	for _, line := range h.Lines() {
		if err := line.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}
