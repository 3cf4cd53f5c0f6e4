package battle

import "tactics/internal/grid"

// ApplyDamage subtracts max(1, amount - resistance) from the unit's health,
// clamped at zero. At least one point always lands regardless of resistance.
// A non-positive amount is a no-op. Resistance is magic resistance for magic
// damage and armor otherwise.
func ApplyDamage(u Unit, amount int, dtype DamageType) Unit {
	if amount <= 0 {
		return u
	}
	out := u.clone()
	final := amount - Resistance(u.Stats, dtype)
	if final < 1 {
		final = 1
	}
	out.Stats.Health -= final
	if out.Stats.Health < 0 {
		out.Stats.Health = 0
	}
	return out
}

// Resistance returns the stat that reduces incoming damage of the given type.
func Resistance(st Stats, dtype DamageType) int {
	if dtype == DamageMagic {
		return st.MagicResistance
	}
	return st.Armor
}

// ApplyHealing raises health, clamped at max. Non-positive amounts are no-ops.
func ApplyHealing(u Unit, amount int) Unit {
	if amount <= 0 {
		return u
	}
	out := u.clone()
	out.Stats.Health += amount
	if out.Stats.Health > out.Stats.MaxHealth {
		out.Stats.Health = out.Stats.MaxHealth
	}
	return out
}

// ConsumeMovementPoints spends movement points, clamped at zero. Units
// without a movement pool are unaffected.
func ConsumeMovementPoints(u Unit, amount int) Unit {
	if amount <= 0 || u.Stats.MaxMovementPoints == 0 {
		return u
	}
	out := u.clone()
	out.Stats.MovementPoints -= amount
	if out.Stats.MovementPoints < 0 {
		out.Stats.MovementPoints = 0
	}
	return out
}

// ConsumeActionPoints spends action points, clamped at zero. Units without an
// action pool are unaffected.
func ConsumeActionPoints(u Unit, amount int) Unit {
	if amount <= 0 || u.Stats.MaxActionPoints == 0 {
		return u
	}
	out := u.clone()
	out.Stats.ActionPoints -= amount
	if out.Stats.ActionPoints < 0 {
		out.Stats.ActionPoints = 0
	}
	return out
}

// ResetTurnState restores both point pools to their maximum and clears the
// acted and moved flags.
func ResetTurnState(u Unit) Unit {
	out := u.clone()
	out.Stats.MovementPoints = out.Stats.MaxMovementPoints
	out.Stats.ActionPoints = out.Stats.MaxActionPoints
	out.HasActed = false
	out.HasMoved = false
	return out
}

// ReplaceUnit returns a snapshot with the unit of the same id swapped for u.
// Unknown ids leave the snapshot unchanged.
func ReplaceUnit(s Snapshot, u Unit) Snapshot {
	out := s.clone()
	for i := range out.Units {
		if out.Units[i].ID == u.ID {
			out.Units[i] = u.clone()
			return out
		}
	}
	return out
}

// MoveUnit places the unit on a new tile and marks it moved. Point costs are
// booked separately via ConsumeMovementPoints. Once the battle is over the
// snapshot is frozen and the call is a no-op.
func MoveUnit(s Snapshot, id string, to grid.Position) Snapshot {
	if s.GameOver {
		return s
	}
	out := s.clone()
	for i := range out.Units {
		if out.Units[i].ID == id {
			out.Units[i].Position = to
			out.Units[i].HasMoved = true
			break
		}
	}
	return out
}

// PruneDead removes units whose health reached zero from the roster.
func PruneDead(s Snapshot) Snapshot {
	out := s.clone()
	kept := out.Units[:0]
	for _, u := range out.Units {
		if u.Alive() {
			kept = append(kept, u)
		}
	}
	out.Units = kept
	return out
}

// CheckVictoryConditions latches the terminal state: no living player units
// means defeat, no living enemy units means victory, otherwise the snapshot
// is returned unchanged. Once game over, the outcome never changes.
func CheckVictoryConditions(s Snapshot) Snapshot {
	if s.GameOver {
		return s
	}
	players, enemies := 0, 0
	for _, u := range s.Units {
		if !u.Alive() {
			continue
		}
		switch u.Team {
		case TeamPlayer:
			players++
		case TeamEnemy:
			enemies++
		}
	}
	switch {
	case players == 0:
		out := s.clone()
		out.GameOver = true
		out.Victory = false
		return out
	case enemies == 0:
		out := s.clone()
		out.GameOver = true
		out.Victory = true
		return out
	default:
		return s
	}
}

// StartTurn hands control to a team: only that team's units get their pools
// and flags reset, and the turn counter increments exactly when the player
// team starts. Frozen after game over.
func StartTurn(s Snapshot, team Team) Snapshot {
	if s.GameOver {
		return s
	}
	out := s.clone()
	out.CurrentTeam = team
	if team == TeamPlayer {
		out.Turn++
	}
	for i := range out.Units {
		if out.Units[i].Team == team {
			out.Units[i] = ResetTurnState(out.Units[i])
		}
	}
	return out
}
