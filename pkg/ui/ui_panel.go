package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
	buttonHeight  = 22.0
	buttonGap     = 6.0
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	// MoveTo places the widget top at y, used for scrolling.
	MoveTo(y float64)
}

// SliderWrapper wraps Slider to implement UIWidget
type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 {
	return s.H + 25 // Slider height + label space
}

func (s *SliderWrapper) MoveTo(y float64) { s.Y = y }

// CheckboxWrapper wraps Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 {
	return c.Size + 5 // Checkbox size + small margin
}

func (c *CheckboxWrapper) MoveTo(y float64) { c.Y = y - labelHeight }

// ButtonRow lays out buttons side by side with the same width.
type ButtonRow struct {
	Buttons []*Button
}

func (r *ButtonRow) Update() {
	for _, b := range r.Buttons {
		b.Update()
	}
}

func (r *ButtonRow) Draw(screen *ebiten.Image) {
	for _, b := range r.Buttons {
		b.Draw(screen)
	}
}

func (r *ButtonRow) GetHeight() float64 {
	return buttonHeight + buttonGap
}

func (r *ButtonRow) MoveTo(y float64) {
	for _, b := range r.Buttons {
		b.Y = y - labelHeight
	}
}

// UIPanel manages a collection of UI widgets in a scrollable panel
type UIPanel struct {
	X, Y          float64 // Panel position
	Width, Height float64 // Panel dimensions
	Title         string
	Widgets       []UIWidget
	Labels        []string // Labels for widgets, empty when the widget draws its own
	ScrollOffset  float64  // Current scroll position

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA

	// Section headers
	sections []PanelSection
}

// PanelSection groups the widgets added between AddSection and EndSection.
type PanelSection struct {
	Title      string
	StartIndex int // Widget index where this section starts
	EndIndex   int // Widget index where this section ends (exclusive)
}

// NewUIPanel creates a new UI panel
func NewUIPanel(x, y, width, height float64, title string) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// Contains reports whether a screen point is over the panel.
func (p *UIPanel) Contains(x, y float64) bool {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}.Contains(x, y)
}

// AddSection adds a section header
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(w UIWidget, label string) {
	p.Widgets = append(p.Widgets, w)
	p.Labels = append(p.Labels, label)
	if n := len(p.sections); n > 0 {
		p.sections[n-1].EndIndex = len(p.Widgets)
	}
	p.Layout()
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	slider := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(&SliderWrapper{slider}, label)
	return slider
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+10, 0, label, value)
	p.add(&CheckboxWrapper{checkbox}, "")
	return checkbox
}

// AddButtons adds a row of buttons sharing the panel width. onClick receives
// the index of the clicked button in labels.
func (p *UIPanel) AddButtons(labels []string, onClick func(i int)) []*Button {
	row := &ButtonRow{}
	if len(labels) == 0 {
		return nil
	}
	inner := p.Width - 20
	width := (inner - buttonGap*float64(len(labels)-1)) / float64(len(labels))
	for i, label := range labels {
		x := p.X + 10 + float64(i)*(width+buttonGap)
		row.Buttons = append(row.Buttons, NewButton(x, 0, width, buttonHeight, label, func() {
			if onClick != nil {
				onClick(i)
			}
		}))
	}
	p.add(row, "")
	return row.Buttons
}

// Update handles input for the visible widgets
func (p *UIPanel) Update() {
	_, dy := ebiten.Wheel()
	if dy != 0 {
		p.Scroll(-dy * 20)
	}
	for i, visible := range p.Layout() {
		if visible {
			p.Widgets[i].Update()
		}
	}
}

// Scroll moves the content by delta pixels, within the content height.
func (p *UIPanel) Scroll(delta float64) {
	maxScroll := p.calculateTotalHeight() - p.Height + 40
	if maxScroll < 0 {
		maxScroll = 0
	}
	p.ScrollOffset += delta
	if p.ScrollOffset < 0 {
		p.ScrollOffset = 0
	}
	if p.ScrollOffset > maxScroll {
		p.ScrollOffset = maxScroll
	}
}

// Layout places every widget for the current scroll offset and returns, per
// widget, whether it is visible.
func (p *UIPanel) Layout() []bool {
	visible := make([]bool, len(p.Widgets))
	currentY := p.Y + titleHeight - p.ScrollOffset
	for _, section := range p.sections {
		currentY += sectionHeight
		for i := section.StartIndex; i < section.EndIndex && i < len(p.Widgets); i++ {
			widget := p.Widgets[i]
			widget.MoveTo(currentY + labelHeight)
			visible[i] = currentY >= p.Y && currentY+widget.GetHeight() <= p.Y+p.Height
			currentY += widget.GetHeight()
		}
	}
	return visible
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	visible := p.Layout()
	currentY := p.Y + titleHeight - p.ScrollOffset
	for _, section := range p.sections {
		if currentY >= p.Y && currentY+sectionHeight <= p.Y+p.Height {
			vector.FillRect(screen,
				float32(p.X+5), float32(currentY),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, section.Title, int(p.X+10), int(currentY+3))
		}
		currentY += sectionHeight
		for i := section.StartIndex; i < section.EndIndex && i < len(p.Widgets); i++ {
			if visible[i] {
				if p.Labels[i] != "" {
					ebitenutil.DebugPrintAt(screen, p.Labels[i], int(p.X+10), int(currentY))
				}
				p.Widgets[i].Draw(screen)
			}
			currentY += p.Widgets[i].GetHeight()
		}
	}
}

// calculateTotalHeight calculates the total content height
func (p *UIPanel) calculateTotalHeight() float64 {
	height := titleHeight + float64(len(p.sections))*sectionHeight
	for _, widget := range p.Widgets {
		height += widget.GetHeight()
	}
	return height
}
