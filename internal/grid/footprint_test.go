package grid

import "testing"

func TestFootprint_Tiles(t *testing.T) {
	f := Footprint{Origin: Position{3, 3}, Size: 2}
	tiles := f.Tiles()
	if len(tiles) != 4 {
		t.Fatalf("expected 4 tiles for a 2x2 footprint, got %d", len(tiles))
	}
	set := positionSet(tiles)
	for _, want := range []Position{{3, 3}, {4, 3}, {3, 4}, {4, 4}} {
		if !set[want] {
			t.Errorf("missing footprint tile %v", want)
		}
	}
	one := Footprint{Origin: Position{5, 5}}
	if len(one.Tiles()) != 1 {
		t.Error("zero size defaults to a single tile")
	}
}

func TestFootprint_DistanceAndAdjacency(t *testing.T) {
	f := Footprint{Origin: Position{3, 3}, Size: 2}
	if d := f.Distance(Position{6, 3}); d != 2 {
		t.Errorf("expected min distance 2, got %d", d)
	}
	if d := f.Distance(Position{4, 4}); d != 0 {
		t.Errorf("covered tile must have distance 0, got %d", d)
	}
	if !f.AdjacentTo(Position{5, 4}) {
		t.Error("(5,4) touches the footprint's right edge")
	}
	if f.AdjacentTo(Position{5, 5}) {
		t.Error("(5,5) is diagonal from the footprint corner, distance 2")
	}
}

func TestFootprint_Ring(t *testing.T) {
	f := Footprint{Origin: Position{3, 3}, Size: 2}
	ring := f.Ring()
	if len(ring) != 12 {
		t.Fatalf("expected 12 ring tiles around a 2x2 footprint, got %d", len(ring))
	}
	set := positionSet(ring)
	if set[Position{3, 3}] || set[Position{4, 4}] {
		t.Error("ring must not include footprint tiles")
	}
	if !set[Position{2, 2}] || !set[Position{5, 5}] {
		t.Error("ring must include the diagonal corners")
	}

	corner := Footprint{Origin: Position{0, 0}, Size: 2}
	for _, p := range corner.Ring() {
		if !p.InBounds() {
			t.Errorf("ring tile %v out of bounds", p)
		}
	}
}

func TestCanFit(t *testing.T) {
	g := NewWithWalls(Position{4, 4})
	if g.CanFit(Position{3, 3}, 2, nil) {
		t.Error("footprint overlapping a wall must not fit")
	}
	if !g.CanFit(Position{5, 5}, 2, nil) {
		t.Error("open 2x2 area must fit")
	}
	if g.CanFit(Position{9, 9}, 2, nil) {
		t.Error("footprint hanging off the board must not fit")
	}
	occupied := func(p Position) bool { return p == Position{6, 6} }
	if g.CanFit(Position{5, 5}, 2, occupied) {
		t.Error("occupied tile inside the footprint must block the fit")
	}
}

func TestReachableOrigins_ValidatesWholeFootprint(t *testing.T) {
	// A wall at (5,3) blocks any 2x2 origin in {(4,2),(5,2),(4,3),(5,3)}.
	g := NewWithWalls(Position{5, 3}, Position{5, 4})
	origins := g.ReachableOrigins(Position{2, 2}, 2, 4, nil)
	set := positionSet(origins)
	for _, bad := range []Position{{4, 2}, {5, 2}, {4, 3}, {5, 3}, {4, 4}} {
		if set[bad] {
			t.Errorf("origin %v would overlap a wall", bad)
		}
	}
	if set[Position{2, 2}] {
		t.Error("start origin must be excluded")
	}
	if !set[Position{2, 4}] {
		t.Error("expected open origin (2,4) within range")
	}
}

func TestFindFootprintPath(t *testing.T) {
	g := New()
	path := g.FindFootprintPath(Position{0, 0}, Position{3, 0}, 2, nil)
	if path == nil {
		t.Fatal("expected a footprint path on an empty board")
	}
	if len(path) != 3 {
		t.Errorf("expected 3 origin steps, got %d", len(path))
	}
	for _, origin := range path {
		if !g.CanFit(origin, 2, nil) {
			t.Errorf("origin %v on path does not fit", origin)
		}
	}
	if p := g.FindFootprintPath(Position{0, 0}, Position{9, 9}, 2, nil); p != nil {
		t.Error("2x2 footprint cannot sit at (9,9)")
	}
	if p := g.FindFootprintPath(Position{5, 5}, Position{5, 5}, 2, nil); p == nil || len(p) != 0 {
		t.Errorf("start==end must return an empty path, got %v", p)
	}
}

func TestFindFootprintPath_ExcludeSelf(t *testing.T) {
	// The boss's own tiles are occupied, but a move of one step overlaps them;
	// the caller excludes the mover's footprint from the occupied predicate.
	g := New()
	self := Footprint{Origin: Position{4, 4}, Size: 2}
	occupiedByOthers := func(p Position) bool {
		return p == Position{8, 8} // some other unit
	}
	occupiedIncludingSelf := func(p Position) bool {
		return self.Contains(p) || occupiedByOthers(p)
	}
	if g.FindFootprintPath(Position{4, 4}, Position{5, 4}, 2, occupiedIncludingSelf) != nil {
		t.Error("without excludeSelf the unit blocks its own move")
	}
	if g.FindFootprintPath(Position{4, 4}, Position{5, 4}, 2, occupiedByOthers) == nil {
		t.Error("excluding self, the one-step move must succeed")
	}
}
