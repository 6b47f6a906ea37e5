// Package fill implements bucket fill over colour grids.
package fill

import (
	"fmt"
	"image"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/palette"
)

// Connectivity selects which neighbours belong to the same region.
type Connectivity int

const (
	// Four joins cells sharing an edge.
	Four Connectivity = 4
	// Eight also joins cells touching diagonally.
	Eight Connectivity = 8
)

func (c Connectivity) String() string { return fmt.Sprintf("%d-way", int(c)) }

// ParseConnectivity accepts "4" or "8" (optionally suffixed with "-way").
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "4", "4-way", "four":
		return Four, nil
	case "8", "8-way", "eight":
		return Eight, nil
	}
	return 0, fmt.Errorf("invalid connectivity %q (want 4 or 8)", s)
}

var (
	fourWay  = []image.Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	eightWay = []image.Point{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
)

func (c Connectivity) neighbours() []image.Point {
	if c == Eight {
		return eightWay
	}
	return fourWay
}

// FloodFill replaces the 4-connected region containing (seedX, seedY) with c.
func FloodFill(g grid.Grid, seedX, seedY int, c palette.Color) grid.Grid {
	return Fill(g, seedX, seedY, c, Four)
}

// FloodFill8Way replaces the 8-connected region containing (seedX, seedY) with c.
func FloodFill8Way(g grid.Grid, seedX, seedY int, c palette.Color) grid.Grid {
	return Fill(g, seedX, seedY, c, Eight)
}

// Fill returns a copy of g with the region containing the seed replaced by
// c. Cells join the region only when their colour equals the seed colour
// exactly. The input is never modified; an out of bounds seed, or a seed
// that already holds c, yields an unmodified copy.
func Fill(g grid.Grid, seedX, seedY int, c palette.Color, conn Connectivity) grid.Grid {
	out := g.Clone()
	if !g.In(seedX, seedY) || g[seedY][seedX] == c {
		return out
	}
	for _, p := range Region(g, seedX, seedY, conn) {
		out[p.Y][p.X] = c
	}
	return out
}

// Region returns the cells, as (x=col, y=row) points, of the connected
// region containing the seed in breadth-first order. It is empty for an
// out of bounds seed.
func Region(g grid.Grid, seedX, seedY int, conn Connectivity) []image.Point {
	if !g.In(seedX, seedY) {
		return nil
	}
	target := g[seedY][seedX]
	seed := image.Pt(seedX, seedY)
	visited := map[image.Point]struct{}{seed: {}}
	queue := []image.Point{seed}
	var region []image.Point
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		region = append(region, p)
		for _, d := range conn.neighbours() {
			n := p.Add(d)
			if _, seen := visited[n]; seen {
				continue
			}
			if !g.In(n.X, n.Y) || g[n.Y][n.X] != target {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return region
}
