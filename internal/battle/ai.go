package battle

import "tactics/internal/grid"

// EnemyPhase plays out the scripted enemy turn: each living enemy closes on
// the nearest player unit and attacks when its spell reaches, then control
// returns to the player. Behavior is a pure function of the unit's template
// data (spell range, movement), not of its type tag.
func (e *Engine) EnemyPhase(s Snapshot) (Snapshot, []Event) {
	if s.GameOver || s.CurrentTeam != TeamEnemy {
		return s, nil
	}
	var events []Event
	var ids []string
	for _, u := range s.Units {
		if u.Team == TeamEnemy && u.Alive() {
			ids = append(ids, u.ID)
		}
	}
	out := s
	for _, id := range ids {
		if out.GameOver {
			break
		}
		var ev []Event
		out, ev = e.enemyAct(out, id)
		events = append(events, ev...)
	}
	if !out.GameOver {
		var ev []Event
		out, ev = e.EndTurn(out)
		events = append(events, ev...)
	}
	return out, events
}

// enemyAct moves one enemy toward its target and attacks if possible.
func (e *Engine) enemyAct(s Snapshot, unitID string) (Snapshot, []Event) {
	u, err := e.actingUnit(s, unitID)
	if err != nil {
		return s, nil
	}
	target, ok := nearestPlayer(s, u)
	if !ok {
		return s, nil
	}
	spell, ok := e.Lib.Spells[u.SpellID]
	if !ok {
		return s, nil
	}

	var events []Event
	out := s
	if !e.canReach(u, spell, target.Position) {
		var ev []Event
		out, ev = e.advanceToward(out, u, target.Position)
		events = append(events, ev...)
		u, _ = out.UnitByID(unitID)
	}
	if e.canReach(u, spell, target.Position) {
		next, castEvents, err := e.Cast(out, u.ID, spell.ID, target.Position)
		if err == nil {
			out = next
			events = append(events, castEvents...)
		}
	}

	// The enemy's action is spent either way so the turn can auto-advance.
	if done, ok := out.UnitByID(unitID); ok && done.Alive() && !done.HasActed {
		done.HasActed = true
		out = ReplaceUnit(out, done)
	}
	return out, events
}

// canReach reports whether the spell reaches the target tile from here.
func (e *Engine) canReach(u Unit, spell Spell, target grid.Position) bool {
	if u.Footprint().Distance(target) > spell.Range {
		return false
	}
	if spell.RequiresLOS && !e.hasFootprintLOS(u, target) {
		return false
	}
	return true
}

// advanceToward moves the unit to the legal destination closest to the
// target, if that improves on standing still.
func (e *Engine) advanceToward(s Snapshot, u Unit, target grid.Position) (Snapshot, []Event) {
	best := grid.Position{}
	bestDist := u.Footprint().Distance(target)
	found := false
	size := u.Size
	if size < 1 {
		size = 1
	}
	for _, candidate := range e.LegalMoves(s, u.ID) {
		d := (grid.Footprint{Origin: candidate, Size: size}).Distance(target)
		if d < bestDist {
			best = candidate
			bestDist = d
			found = true
		}
	}
	if !found {
		return s, nil
	}
	out, events, err := e.Move(s, u.ID, best)
	if err != nil {
		return s, nil
	}
	return out, events
}

// nearestPlayer picks the living player unit closest to u's footprint.
func nearestPlayer(s Snapshot, u Unit) (Unit, bool) {
	var best Unit
	bestDist := -1
	for _, p := range s.TeamUnits(TeamPlayer) {
		d := u.Footprint().Distance(p.Position)
		if bestDist < 0 || d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best, bestDist >= 0
}
