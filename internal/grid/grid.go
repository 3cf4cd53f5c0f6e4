// Package grid implements the 10x10 battlefield: procedural wall layout,
// pathfinding, line of sight, and area-of-effect tile enumeration. A Grid is
// immutable once generated; every query treats out-of-bounds coordinates as
// walls so callers never need bounds checks of their own.
package grid

import "math/rand"

// Size is the board edge length in tiles.
const Size = 10

// Position is an integer tile coordinate on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size
}

// Manhattan returns |ax-bx| + |ay-by|, the movement metric used everywhere.
func Manhattan(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Grid holds the wall matrix for one battle.
type Grid struct {
	walls [Size][Size]bool
}

// New returns an empty grid with no walls.
func New() *Grid {
	return &Grid{}
}

// NewWithWalls returns a grid with walls at exactly the given positions.
// Out-of-bounds positions are ignored.
func NewWithWalls(walls ...Position) *Grid {
	g := &Grid{}
	for _, p := range walls {
		if p.InBounds() {
			g.walls[p.X][p.Y] = true
		}
	}
	return g
}

// IsWall reports whether the tile blocks movement and sight.
// Out-of-bounds coordinates count as walls.
func (g *Grid) IsWall(x, y int) bool {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return true
	}
	return g.walls[x][y]
}

// IsWallAt is IsWall for a Position.
func (g *Grid) IsWallAt(p Position) bool {
	return g.IsWall(p.X, p.Y)
}

// Walls returns every wall tile, row-major.
func (g *Grid) Walls() []Position {
	var out []Position
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if g.walls[x][y] {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// criticalRows are the left/right edge rows sampled by HasCriticalPath.
var criticalRows = [...]int{1, 3, 5, 7, 8}

// HasCriticalPath reports whether at least one pair of sampled left-edge and
// right-edge rows is connected by a walkable path. Wall generation refuses any
// placement that would make this false, so a generated grid always satisfies it.
func (g *Grid) HasCriticalPath() bool {
	for _, ly := range criticalRows {
		start := Position{X: 0, Y: ly}
		if g.IsWallAt(start) {
			continue
		}
		reached := g.floodFill(start)
		for _, ry := range criticalRows {
			if reached[Position{X: Size - 1, Y: ry}] {
				return true
			}
		}
	}
	return false
}

// floodFill returns every tile reachable from start through non-wall tiles,
// 4-directional.
func (g *Grid) floodFill(start Position) map[Position]bool {
	seen := map[Position]bool{start: true}
	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range neighborOffsets {
			next := Position{X: cur.X + d.X, Y: cur.Y + d.Y}
			if seen[next] || g.IsWallAt(next) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

// clusterShapes is the fixed library of wall cluster footprints, as offsets
// from the anchor tile.
var clusterShapes = [][]Position{
	{{0, 0}, {1, 0}, {2, 0}},                 // horizontal line
	{{0, 0}, {0, 1}, {0, 2}},                 // vertical line
	{{0, 0}, {0, 1}, {0, 2}, {1, 2}},         // L
	{{0, 0}, {1, 0}, {2, 0}, {1, 1}},         // T
	{{1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}}, // plus
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},         // 2x2 block
}

const clusterAttempts = 25

// spawnColumnMargin protects the two columns nearest each edge so spawn rows
// never start walled in.
const spawnColumnMargin = 2

// Generate builds a grid with 3-6 wall clusters drawn from the shape library.
// A cluster placement is rejected when it overlaps an existing wall, touches a
// spawn column, or would break the critical path; after bounded attempts the
// cluster is skipped so generation never fails. A final sweep removes walls
// with no wall neighbor in any of the eight directions.
func Generate(rng *rand.Rand) *Grid {
	g := &Grid{}
	clusters := 3 + rng.Intn(4)
	for i := 0; i < clusters; i++ {
		g.placeCluster(rng)
	}
	g.removeIsolatedWalls()
	return g
}

func (g *Grid) placeCluster(rng *rand.Rand) {
	for attempt := 0; attempt < clusterAttempts; attempt++ {
		shape := clusterShapes[rng.Intn(len(clusterShapes))]
		anchor := Position{X: rng.Intn(Size), Y: rng.Intn(Size)}

		tiles := make([]Position, 0, len(shape))
		valid := true
		for _, off := range shape {
			p := Position{X: anchor.X + off.X, Y: anchor.Y + off.Y}
			if !p.InBounds() || g.walls[p.X][p.Y] ||
				p.X < spawnColumnMargin || p.X >= Size-spawnColumnMargin {
				valid = false
				break
			}
			tiles = append(tiles, p)
		}
		if !valid {
			continue
		}

		for _, p := range tiles {
			g.walls[p.X][p.Y] = true
		}
		if g.HasCriticalPath() {
			return
		}
		for _, p := range tiles {
			g.walls[p.X][p.Y] = false
		}
	}
	// Every attempt failed; the board simply keeps fewer clusters.
}

// removeIsolatedWalls drops any wall with zero wall neighbors among the eight
// surrounding tiles. Single floating tiles read as noise, not obstacles.
func (g *Grid) removeIsolatedWalls() {
	var isolated []Position
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if !g.walls[x][y] {
				continue
			}
			neighbors := 0
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < Size && ny >= 0 && ny < Size && g.walls[nx][ny] {
						neighbors++
					}
				}
			}
			if neighbors == 0 {
				isolated = append(isolated, Position{X: x, Y: y})
			}
		}
	}
	for _, p := range isolated {
		g.walls[p.X][p.Y] = false
	}
}
