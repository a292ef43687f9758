package game

import (
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
)

var (
	background  = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	eyeColor    = color.RGBA{R: 255, G: 255, B: 120, A: 60}
	debugColor  = color.RGBA{R: 120, G: 255, B: 160, A: 160}
	trailColor  = color.RGBA{R: 150, G: 150, B: 170, A: 90}
	selectColor = color.RGBA{R: 255, G: 215, B: 0, A: 255}
)

// Pre-rendered sprites for fast batched drawing
var (
	spritesOnce   sync.Once
	whiteImage    *ebiten.Image
	predatorImage *ebiten.Image
)

// conePoints is the number of segments used to draw the arc of an eye.
const conePoints = 12

type drawOptions struct {
	eyes, debug, trails bool
}

func loadSprites() {
	whiteImage = ebiten.NewImage(3, 3)
	whiteImage.Fill(color.White)
	// Legend:
	// . = Transparent
	// G = Green (Glass/Dome)
	// P = Purple (Hull)
	// Y = Yellow (Lights)
	// R = Red (Thrusters)
	design := []string{
		"......GG......",
		"....GGGGGG....",
		"..PPPPPPPPPP..",
		"PPPYPPYPPYPPPP",
		".R...R..R...R.",
		"......RR......",
	}
	palette := map[rune]color.RGBA{
		'G': {R: 50, G: 255, B: 50, A: 255},
		'P': {R: 150, G: 50, B: 200, A: 255},
		'Y': {R: 255, G: 255, B: 0, A: 255},
		'R': {R: 255, G: 100, B: 50, A: 255},
	}
	predatorImage = generateSprite(design, palette)
}

// generateSprite converts an ASCII grid into an Ebiten image
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	h := len(design)
	w := 0
	for _, row := range design {
		w = max(w, len(row))
	}
	img := ebiten.NewImage(w, h)

	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}

func (g *Game) drawArena(screen *ebiten.Image, f simulation.Frame, opts drawOptions) {
	spritesOnce.Do(loadSprites)

	vector.StrokeRect(screen, 0, 0, float32(f.Size.X), float32(f.Size.Y), 1, trailColor, false)

	for _, a := range f.Agents {
		if opts.trails {
			drawPolyline(screen, a.Trail, trailColor)
		}
		if opts.eyes {
			for _, c := range a.Eyes {
				drawPolyline(screen, coneOutline(c), eyeColor)
			}
		}
	}

	for _, a := range f.Agents {
		switch {
		case a.Kind == simulation.KindPredator:
			drawSprite(screen, predatorImage, a)
		case a.Kind == simulation.KindBall || a.Kind == simulation.KindObstacle || a.Vel.LenSqr() == 0:
			vector.FillCircle(screen, float32(a.Pos.X), float32(a.Pos.Y), float32(a.Radius), a.Fill, true)
			vector.StrokeCircle(screen, float32(a.Pos.X), float32(a.Pos.Y), float32(a.Radius), 1, a.Border, true)
		default:
			drawBoid(screen, a)
		}
		if a.Selected {
			vector.StrokeCircle(screen, float32(a.Pos.X), float32(a.Pos.Y), float32(a.Radius+4), 2, selectColor, true)
			end := a.Pos.Add(a.Steering.Mul(10))
			vector.StrokeLine(screen, float32(a.Pos.X), float32(a.Pos.Y), float32(end.X), float32(end.Y), 1, selectColor, true)
		}
		if opts.debug {
			for _, s := range a.Debug {
				drawShape(screen, s)
			}
		}
	}

	if f.PointerInside {
		p := f.Pointer
		vector.StrokeLine(screen, float32(p.X-6), float32(p.Y), float32(p.X+6), float32(p.Y), 1, color.White, false)
		vector.StrokeLine(screen, float32(p.X), float32(p.Y-6), float32(p.X), float32(p.Y+6), 1, color.White, false)
	}
	if f.Field.Magnet.LenSqr() > 0 {
		c := f.Size.Mul(0.5)
		end := c.Add(f.Field.Magnet.Unit().Mul(40))
		vector.StrokeLine(screen, float32(c.X), float32(c.Y), float32(end.X), float32(end.Y), 2, debugColor, true)
	}
}

// coneOutline returns the closed outline of an eye: apex, arc, apex.
func coneOutline(c simulation.Cone) []geometry.Vector2D {
	half := c.FieldOfView * math.Pi / 360
	points := make([]geometry.Vector2D, 0, conePoints+3)
	points = append(points, c.Origin)
	for i := 0; i <= conePoints; i++ {
		angle := c.Heading - half + 2*half*float64(i)/conePoints
		points = append(points, c.Origin.Add(geometry.Vector2D{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(c.Range)))
	}
	return append(points, c.Origin)
}

func drawPolyline(screen *ebiten.Image, points []geometry.Vector2D, clr color.Color) {
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, clr, true)
	}
}

func drawShape(screen *ebiten.Image, s behavior.Shape) {
	switch s.Kind {
	case behavior.ShapeCircle:
		vector.StrokeCircle(screen, float32(s.From.X), float32(s.From.Y), float32(s.Radius), 1, debugColor, true)
	case behavior.ShapeLine:
		vector.StrokeLine(screen, float32(s.From.X), float32(s.From.Y), float32(s.To.X), float32(s.To.Y), 1, debugColor, true)
	case behavior.ShapePoint:
		vector.FillCircle(screen, float32(s.From.X), float32(s.From.Y), 2, debugColor, true)
	}
}

func drawSprite(screen *ebiten.Image, img *ebiten.Image, a simulation.AgentView) {
	op := &ebiten.DrawImageOptions{}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	scale := 2 * a.Radius / float64(w)
	op.GeoM.Scale(scale, scale)
	// The sprite faces up, align its top with the velocity.
	op.GeoM.Rotate(a.Vel.Angle() + math.Pi/2)
	op.GeoM.Translate(a.Pos.X, a.Pos.Y)
	screen.DrawImage(img, op)
}

// boidTriangle returns the tip, right and left corners of an agent drawn as
// an arrow pointing along its velocity.
func boidTriangle(pos, vel geometry.Vector2D, radius float64) [3]geometry.Vector2D {
	angle := vel.Angle()
	corner := func(a, r float64) geometry.Vector2D {
		return pos.Add(geometry.Vector2D{X: math.Cos(a), Y: math.Sin(a)}.Mul(r))
	}
	return [3]geometry.Vector2D{
		corner(angle, radius*1.2),
		corner(angle+2.5, radius),
		corner(angle-2.5, radius),
	}
}

func drawBoid(screen *ebiten.Image, a simulation.AgentView) {
	r, g, b, alpha := float32(a.Fill.R)/255, float32(a.Fill.G)/255, float32(a.Fill.B)/255, float32(a.Fill.A)/255
	var vertices []ebiten.Vertex
	for _, p := range boidTriangle(a.Pos, a.Vel, a.Radius) {
		vertices = append(vertices, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: alpha,
		})
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}
