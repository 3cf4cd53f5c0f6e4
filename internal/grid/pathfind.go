package grid

import (
	"container/heap"
	"math"
)

// OccupiedFunc reports whether a tile is occupied by a unit. A nil func means
// no tile is occupied.
type OccupiedFunc func(Position) bool

// neighborOffsets is the fixed 4-directional visit order (up, right, down,
// left). Keeping the order fixed makes BFS results reproducible.
var neighborOffsets = [...]Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// ReachableTiles returns every tile whose BFS distance from start is at most
// maxRange. Occupied tiles can be pathed through but are excluded from the
// returned set; the start tile is never included.
func (g *Grid) ReachableTiles(start Position, maxRange int, occupied OccupiedFunc) []Position {
	if !start.InBounds() || g.IsWallAt(start) || maxRange <= 0 {
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
			if seen[next] || g.IsWallAt(next) {
				continue
			}
			seen[next] = true
			queue = append(queue, visit{pos: next, dist: cur.dist + 1})
			if occupied == nil || !occupied(next) {
				out = append(out, next)
			}
		}
	}
	return out
}

type pathNode struct {
	pos    Position
	g      int
	f      int
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int           { return len(pq) }
func (pq pathQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }
func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	item := x.(*pathNode)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath runs 4-directional A* with the Manhattan heuristic and returns the
// path from start to end, excluding the start tile. It returns nil when either
// endpoint is out of bounds, the end is a wall, or no route exists. Occupied
// tiles block intermediate steps but not the goal itself; start == end yields
// an empty (non-nil) path.
func (g *Grid) FindPath(start, end Position, occupied OccupiedFunc) []Position {
	if !start.InBounds() || !end.InBounds() {
		return nil
	}
	if g.IsWallAt(start) || g.IsWallAt(end) {
		return nil
	}
	if start == end {
		return []Position{}
	}

	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{pos: start, g: 0, f: Manhattan(start, end)})
	gScore := map[Position]int{start: 0}
	closed := map[Position]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if closed[current.pos] {
			continue
		}
		closed[current.pos] = true
		if current.pos == end {
			return reconstructPath(current)
		}

		for _, d := range neighborOffsets {
			next := Position{X: current.pos.X + d.X, Y: current.pos.Y + d.Y}
			if g.IsWallAt(next) || closed[next] {
				continue
			}
			if occupied != nil && occupied(next) && next != end {
				continue
			}
			tentative := current.g + 1
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			heap.Push(open, &pathNode{
				pos:    next,
				g:      tentative,
				f:      tentative + Manhattan(next, end),
				parent: current,
			})
		}
	}
	return nil
}

// reconstructPath walks parent links back to the start and reverses, dropping
// the start tile itself.
func reconstructPath(end *pathNode) []Position {
	var path []Position
	for node := end; node.parent != nil; node = node.parent {
		path = append(path, node.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// MovementCost returns the step count of the shortest path from start to end,
// or +Inf when no path exists.
func (g *Grid) MovementCost(start, end Position, occupied OccupiedFunc) float64 {
	path := g.FindPath(start, end, occupied)
	if path == nil {
		return math.Inf(1)
	}
	return float64(len(path))
}
