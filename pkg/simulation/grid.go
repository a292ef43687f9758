package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

type gridKey struct {
	x, y int
}

// spatialGrid is a spatial hash of the population, rebuilt at the start of every tick.
// Map gridKey -> agents in that cell.
type spatialGrid struct {
	cellSize float64
	cells    map[gridKey][]*Agent
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		// Clamp to a minimum of 10 to avoid tiny grids or div by zero
		cellSize: math.Max(cellSize, 10.0),
		cells:    make(map[gridKey][]*Agent),
	}
}

func (g *spatialGrid) cellOf(p geometry.Vector2D) gridKey {
	return gridKey{x: int(math.Floor(p.X / g.cellSize)), y: int(math.Floor(p.Y / g.cellSize))}
}

func (g *spatialGrid) rebuild(agents []*Agent) {
	// Reset slices to length 0, but keep capacity! it's better then clear(g.cells)
	// This allows to reuse the underlying arrays of the slices.
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for _, a := range agents {
		key := g.cellOf(a.Pos)
		g.cells[key] = append(g.cells[key], a)
	}
}

// query returns the agents of every cell overlapping the square of half side
// radius around p. Callers still filter on the exact distance.
func (g *spatialGrid) query(p geometry.Vector2D, radius float64) []*Agent {
	lo := g.cellOf(geometry.Vector2D{X: p.X - radius, Y: p.Y - radius})
	hi := g.cellOf(geometry.Vector2D{X: p.X + radius, Y: p.Y + radius})

	var neighbors []*Agent
	if span := float64(hi.x-lo.x+1) * float64(hi.y-lo.y+1); span > float64(len(g.cells)) {
		// cheaper to walk the occupied cells than the empty ones
		for key, agents := range g.cells {
			if key.x >= lo.x && key.x <= hi.x && key.y >= lo.y && key.y <= hi.y {
				neighbors = append(neighbors, agents...)
			}
		}
		return neighbors
	}
	for i := lo.x; i <= hi.x; i++ {
		for j := lo.y; j <= hi.y; j++ {
			if agents, ok := g.cells[gridKey{x: i, y: j}]; ok {
				neighbors = append(neighbors, agents...)
			}
		}
	}
	return neighbors
}
