package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button is a clickable UI button. Active buttons are drawn highlighted, which
// lets a row of buttons act as a choice list.
type Button struct {
	Rect
	Label   string
	Active  bool
	OnClick func()

	latch clickLatch

	// Styling
	BGColor     color.RGBA
	HoverColor  color.RGBA
	ActiveColor color.RGBA
}

// NewButton creates a new button instance
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Rect:        Rect{X: x, Y: y, Width: width, Height: height},
		Label:       label,
		OnClick:     onClick,
		BGColor:     color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor:  color.RGBA{R: 100, G: 150, B: 220, A: 255},
		ActiveColor: color.RGBA{R: 60, G: 170, B: 90, A: 255},
	}
}

// Click runs the callback as if the button had been pressed.
func (b *Button) Click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

// Update checks for mouse interaction
func (b *Button) Update() {
	if b.latch.fire(b.Contains(cursor())) {
		b.Click()
	}
}

// Draw renders the button with its label centered
func (b *Button) Draw(screen *ebiten.Image) {
	bgColor := b.BGColor
	switch {
	case b.Active:
		bgColor = b.ActiveColor
	case b.Contains(cursor()):
		bgColor = b.HoverColor
	}

	vector.FillRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		bgColor, true)
	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		2, borderColor, true)

	tx := b.X + (b.Width-float64(len(b.Label))*textWidth)/2
	ty := b.Y + (b.Height-16)/2
	ebitenutil.DebugPrintAt(screen, b.Label, int(tx), int(ty))
}
