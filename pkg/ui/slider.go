package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal value picker. A positive Step snaps the value.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64
	X, Y     float64
	W, H     float64
	OnChange func(float64)
}

// NewSlider creates a slider; value is clamped to [min, max].
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	s := &Slider{Label: label, Min: min, Max: max, X: x, Y: y, W: width, H: 10}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// valueAt converts a screen abscissa to a value.
func (s *Slider) valueAt(x float64) float64 {
	if s.W <= 0 {
		return s.Min
	}
	return s.clamp(s.Min + (x-s.X)/s.W*(s.Max-s.Min))
}

// Set changes the value and notifies OnChange when it moved.
func (s *Slider) Set(v float64) {
	v = s.clamp(v)
	if v == s.Value {
		return
	}
	s.Value = v
	if s.OnChange != nil {
		s.OnChange(v)
	}
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := cursor()
	if (Rect{X: s.X, Y: s.Y, Width: s.W, Height: s.H}).Contains(mx, my) {
		s.Set(s.valueAt(mx))
	}
}

// Draw renders the slider and its current value
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	text := fmt.Sprintf("%.3g", s.Value)
	ebitenutil.DebugPrintAt(screen, text, int(s.X+s.W-float64(len(text))*textWidth), int(s.Y-16))
}
