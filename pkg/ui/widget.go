package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Rect is the screen area of a widget.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether the point (x, y) lies inside r, borders included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// cursor returns the mouse position as floats.
func cursor() (float64, float64) {
	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my)
}

// clickLatch turns a held mouse button into a single click.
type clickLatch struct {
	down bool
}

// fire reports true once per press of the left button while over is true.
func (c *clickLatch) fire(over bool) bool {
	if over && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !c.down {
			c.down = true
			return true
		}
		return false
	}
	c.down = false
	return false
}

var (
	borderColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	textWidth   = 6.0 // ebitenutil debug font advance
)
