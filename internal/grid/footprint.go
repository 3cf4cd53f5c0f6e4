package grid

// Footprint is the square block of tiles a large unit occupies, anchored at
// its top-left tile. Size 1 is an ordinary single-tile unit.
type Footprint struct {
	Origin Position
	Size   int
}

// Tiles returns every tile the footprint covers, row-major.
func (f Footprint) Tiles() []Position {
	size := f.Size
	if size < 1 {
		size = 1
	}
	out := make([]Position, 0, size*size)
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			out = append(out, Position{X: f.Origin.X + dx, Y: f.Origin.Y + dy})
		}
	}
	return out
}

// Contains reports whether the footprint covers p.
func (f Footprint) Contains(p Position) bool {
	size := f.Size
	if size < 1 {
		size = 1
	}
	return p.X >= f.Origin.X && p.X < f.Origin.X+size &&
		p.Y >= f.Origin.Y && p.Y < f.Origin.Y+size
}

// Distance returns the minimum Manhattan distance from any footprint tile to
// the target; zero when the footprint covers the target.
func (f Footprint) Distance(target Position) int {
	best := -1
	for _, t := range f.Tiles() {
		d := Manhattan(t, target)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// AdjacentTo reports whether the target sits orthogonally next to the
// footprint (minimum Manhattan distance exactly 1).
func (f Footprint) AdjacentTo(target Position) bool {
	return f.Distance(target) == 1
}

// Ring returns the in-bounds tiles of the 8-directional ring surrounding the
// footprint, for self-centered auras.
func (f Footprint) Ring() []Position {
	size := f.Size
	if size < 1 {
		size = 1
	}
	var out []Position
	for dy := -1; dy <= size; dy++ {
		for dx := -1; dx <= size; dx++ {
			if dx >= 0 && dx < size && dy >= 0 && dy < size {
				continue
			}
			p := Position{X: f.Origin.X + dx, Y: f.Origin.Y + dy}
			if p.InBounds() {
				out = append(out, p)
			}
		}
	}
	return out
}

// CanFit reports whether every tile of a footprint at origin is in bounds,
// not a wall, and not occupied. Callers exclude the moving unit's own tiles
// from the occupied predicate.
func (g *Grid) CanFit(origin Position, size int, occupied OccupiedFunc) bool {
	f := Footprint{Origin: origin, Size: size}
	for _, t := range f.Tiles() {
		if g.IsWallAt(t) {
			return false
		}
		if occupied != nil && occupied(t) {
			return false
		}
	}
	return true
}

// ReachableOrigins returns every origin a size×size footprint can reach from
// start within maxRange orthogonal steps, validating the whole footprint at
// each step. The start origin is excluded.
func (g *Grid) ReachableOrigins(start Position, size, maxRange int, occupied OccupiedFunc) []Position {
	if !g.CanFit(start, size, occupied) || maxRange <= 0 {
		return nil
	}
	type visit struct {
		pos  Position
		dist int
	}
	seen := map[Position]bool{start: true}
	queue := []visit{{pos: start}}
	var out []Position
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.dist >= maxRange {
			continue
		}
		for _, d := range neighborOffsets {
			next := Position{X: cur.pos.X + d.X, Y: cur.pos.Y + d.Y}
			if seen[next] || !g.CanFit(next, size, occupied) {
				continue
			}
			seen[next] = true
			queue = append(queue, visit{pos: next, dist: cur.dist + 1})
			out = append(out, next)
		}
	}
	return out
}

// FindFootprintPath is FindPath for a size×size footprint: A* over origins,
// validating the whole footprint at every step. It returns the origin path
// excluding the start, or nil when no placement route exists.
func (g *Grid) FindFootprintPath(start, end Position, size int, occupied OccupiedFunc) []Position {
	if !g.CanFit(start, size, occupied) || !g.CanFit(end, size, occupied) {
		return nil
	}
	if start == end {
		return []Position{}
	}
	blocked := func(p Position) bool {
		return !g.CanFit(p, size, occupied)
	}
	// Reuse the single-tile A* by treating invalid origins as occupied; the
	// goal was validated above so the goal carve-out in FindPath is harmless.
	return g.FindPath(start, end, blocked)
}
