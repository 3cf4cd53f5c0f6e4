package grid

import "math"

// Shape names an area-of-effect footprint.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeLine   Shape = "line"
	ShapeCone   Shape = "cone"
)

// TilesInArea enumerates the tiles covered by a shape. For circles the anchor
// is the center and target is ignored; lines and cones are anchored at the
// caster (anchor) and aimed at target. Wall tiles never appear in the result;
// callers intersect the tiles with live unit positions to find affected units.
func (g *Grid) TilesInArea(shape Shape, radius int, anchor, target Position) []Position {
	switch shape {
	case ShapeCircle:
		return g.Circle(anchor, radius)
	case ShapeLine:
		return g.Line(anchor, target, radius)
	case ShapeCone:
		return g.Cone(anchor, target, radius)
	default:
		return nil
	}
}

// Circle returns all non-wall tiles within Manhattan distance radius of
// center, including the center itself.
func (g *Grid) Circle(center Position, radius int) []Position {
	var out []Position
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := Position{X: center.X + dx, Y: center.Y + dy}
			if Manhattan(center, p) > radius || g.IsWallAt(p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Line traces the Bresenham line from caster through target and keeps going on
// the same bearing until length tiles are collected or a wall or the board
// edge stops it. The caster's own tile is excluded. A coincident caster and
// target has no bearing, so the result is empty.
func (g *Grid) Line(caster, target Position, length int) []Position {
	if caster == target || length <= 0 {
		return nil
	}
	// Extend the target far past the board so the line can continue beyond
	// the primary target; traversal stops at the first blocker anyway.
	far := Position{
		X: caster.X + (target.X-caster.X)*2*Size,
		Y: caster.Y + (target.Y-caster.Y)*2*Size,
	}
	var out []Position
	for _, p := range bresenham(caster, far) {
		if p == caster {
			continue
		}
		if !p.InBounds() || g.IsWallAt(p) {
			break
		}
		out = append(out, p)
		if len(out) >= length {
			break
		}
	}
	return out
}

// Cone returns the 90-degree cone (±45° around the caster→target bearing) of
// non-wall tiles within Manhattan distance radius of the caster. When caster
// and target coincide the cone has no bearing and degrades to the 3x3
// neighborhood around the caster.
func (g *Grid) Cone(caster, target Position, radius int) []Position {
	if caster == target {
		var out []Position
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				p := Position{X: caster.X + dx, Y: caster.Y + dy}
				if g.IsWallAt(p) {
					continue
				}
				out = append(out, p)
			}
		}
		return out
	}

	bearing := math.Atan2(float64(target.Y-caster.Y), float64(target.X-caster.X))
	var out []Position
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := Position{X: caster.X + dx, Y: caster.Y + dy}
			if p == caster || Manhattan(caster, p) > radius || g.IsWallAt(p) {
				continue
			}
			angle := math.Atan2(float64(dy), float64(dx))
			if angleDiff(angle, bearing) <= math.Pi/4 {
				out = append(out, p)
			}
		}
	}
	return out
}

// angleDiff returns the shortest angular difference between two bearings,
// normalized to [0, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
