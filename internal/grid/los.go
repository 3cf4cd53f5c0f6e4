package grid

// bresenham returns every tile on the discrete line from a to b inclusive,
// in traversal order.
func bresenham(a, b Position) []Position {
	points := make([]Position, 0, Manhattan(a, b)+1)

	dx := b.X - a.X
	if dx < 0 {
		dx = -dx
	}
	dy := b.Y - a.Y
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}

	x, y := a.X, a.Y
	err := dx - dy
	for {
		points = append(points, Position{X: x, Y: y})
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
	return points
}

// HasLineOfSight reports whether sight from a to b is unobstructed. Any wall
// on an intermediate tile of the Bresenham line blocks it, and so does a
// diagonal step squeezing between two orthogonally-adjacent walls, even when
// neither flanking tile lies on the line itself.
func (g *Grid) HasLineOfSight(a, b Position) bool {
	if !a.InBounds() || !b.InBounds() {
		return false
	}
	line := bresenham(a, b)
	for i, p := range line {
		if i > 0 && i < len(line)-1 && g.IsWallAt(p) {
			return false
		}
		if i == 0 {
			continue
		}
		prev := line[i-1]
		if p.X != prev.X && p.Y != prev.Y {
			// Diagonal step: both orthogonal flanking tiles must be open.
			if g.IsWall(p.X, prev.Y) && g.IsWall(prev.X, p.Y) {
				return false
			}
		}
	}
	return true
}
