package battle

// EndTurn hands control to the other team and starts its turn. Entering the
// player team increments the turn counter (inside StartTurn). After game
// over the snapshot is frozen.
func EndTurn(s Snapshot) Snapshot {
	if s.GameOver {
		return s
	}
	return StartTurn(s, s.CurrentTeam.Opponent())
}

// AllEnemiesActed reports whether every living enemy has taken its action,
// so an orchestrator can auto-advance the enemy phase.
func AllEnemiesActed(s Snapshot) bool {
	for _, u := range s.Units {
		if u.Team == TeamEnemy && u.Alive() && !u.HasActed {
			return false
		}
	}
	return true
}

// PoolsExhausted reports whether both of a unit's point pools are spent, so
// an orchestrator can auto-end that unit's turn. A pool the unit does not
// have counts as spent.
func PoolsExhausted(u Unit) bool {
	return u.Stats.MovementPoints == 0 && u.Stats.ActionPoints == 0
}
