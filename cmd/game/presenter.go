package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/novarush/internal/draw"
)

// screenPresenter draws frames into a tcell screen, two pixels per cell.
type screenPresenter struct {
	screen tcell.Screen
}

func (p *screenPresenter) CanvasSize() (int, int) {
	w, h := p.screen.Size()
	return w, h * 2
}

func (p *screenPresenter) Present(c *draw.Canvas) error {
	rows := c.Rows()
	for row := 0; row < rows; row++ {
		for col := 0; col < c.Width(); col++ {
			top, bottom := c.Cell(col, row)
			p.screen.SetContent(col, row, draw.BlockUpperHalf, nil, cellStyle(top, bottom))
		}
	}

	for _, l := range c.Labels() {
		col, row := c.LogicalToTerminal(l.X, l.Y-l.Size/2)
		col, row = max(col-1, 0), row-1
		if row < 0 || row >= rows {
			continue
		}
		for _, r := range l.Text {
			if col >= c.Width() {
				break
			}
			top, _ := c.Cell(col, row)
			p.screen.SetContent(col, row, r, nil, cellStyle(l.Color.Over(top).Opaque(), top))
			col++
		}
	}

	p.screen.Show()
	return nil
}

func cellStyle(fg, bg draw.Color) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}
