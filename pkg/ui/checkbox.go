package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox is a boolean toggle drawn with its label on the right.
type Checkbox struct {
	Label    string
	Value    bool
	X, Y     float64
	Size     float64
	OnChange func(bool)

	latch clickLatch
}

// NewCheckbox creates a new checkbox instance
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

// Bounds covers the box and its label, both are clickable.
func (c *Checkbox) Bounds() Rect {
	return Rect{X: c.X, Y: c.Y, Width: c.Size + 6 + float64(len(c.Label))*textWidth, Height: c.Size}
}

// Toggle flips the value and notifies OnChange.
func (c *Checkbox) Toggle() {
	c.Value = !c.Value
	if c.OnChange != nil {
		c.OnChange(c.Value)
	}
}

// Update checks for mouse interaction
func (c *Checkbox) Update() {
	if c.latch.fire(c.Bounds().Contains(cursor())) {
		c.Toggle()
	}
}

// Draw renders the checkbox
func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2, borderColor, true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.Size-4), float32(c.Size-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+6), int(c.Y))
}
