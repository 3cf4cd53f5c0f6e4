package battle

import (
	"fmt"
	"math/rand"

	"tactics/internal/grid"
)

// Engine orchestrates one battle: it validates commands against the grid
// queries, applies them through the pure mutators, and collects the event
// deltas each command produced. The engine itself holds no battle state;
// every method takes a snapshot and returns the next one.
type Engine struct {
	Grid *grid.Grid
	Lib  *Library
	RNG  *rand.Rand
}

// NewEngine wires an engine over a generated grid and template library. The
// random source feeds damage rolls only; pass a seeded source for replays.
func NewEngine(g *grid.Grid, lib *Library, rng *rand.Rand) *Engine {
	return &Engine{Grid: g, Lib: lib, RNG: rng}
}

// actingUnit fetches a unit that is allowed to act right now.
func (e *Engine) actingUnit(s Snapshot, unitID string) (Unit, error) {
	if s.GameOver {
		return Unit{}, fmt.Errorf("battle is over")
	}
	u, ok := s.UnitByID(unitID)
	if !ok {
		return Unit{}, fmt.Errorf("unknown unit %q", unitID)
	}
	if !u.Alive() {
		return Unit{}, fmt.Errorf("unit %q is dead", unitID)
	}
	if u.Team != s.CurrentTeam {
		return Unit{}, fmt.Errorf("unit %q is not on the acting team", unitID)
	}
	return u, nil
}

// moveBudget is the number of steps the unit may still take this turn.
func moveBudget(u Unit) int {
	if u.Stats.MaxMovementPoints > 0 {
		return u.Stats.MovementPoints
	}
	if u.HasMoved {
		return 0
	}
	return u.Stats.MoveRange
}

// LegalMoves returns every tile the unit can move to this turn, for UI
// highlighting. Empty when it cannot move at all.
func (e *Engine) LegalMoves(s Snapshot, unitID string) []grid.Position {
	u, err := e.actingUnit(s, unitID)
	if err != nil {
		return nil
	}
	budget := moveBudget(u)
	occupied := s.OccupiedBy(u.ID)
	if u.Size > 1 {
		return e.Grid.ReachableOrigins(u.Position, u.Size, budget, occupied)
	}
	return e.Grid.ReachableTiles(u.Position, budget, occupied)
}

// Move walks a unit to the destination along the shortest path, spending
// movement points. Illegal destinations return an error and leave the
// snapshot untouched.
func (e *Engine) Move(s Snapshot, unitID string, to grid.Position) (Snapshot, []Event, error) {
	u, err := e.actingUnit(s, unitID)
	if err != nil {
		return s, nil, err
	}
	occupied := s.OccupiedBy(u.ID)
	var path []grid.Position
	if u.Size > 1 {
		path = e.Grid.FindFootprintPath(u.Position, to, u.Size, occupied)
	} else {
		if occupied(to) {
			return s, nil, fmt.Errorf("destination %v is occupied", to)
		}
		path = e.Grid.FindPath(u.Position, to, occupied)
	}
	if path == nil {
		return s, nil, fmt.Errorf("no path to %v", to)
	}
	cost := len(path)
	if cost == 0 {
		return s, nil, fmt.Errorf("unit is already at %v", to)
	}
	if cost > moveBudget(u) {
		return s, nil, fmt.Errorf("destination %v needs %d movement, %d available", to, cost, moveBudget(u))
	}

	from := u.Position
	out := MoveUnit(s, u.ID, to)
	moved, _ := out.UnitByID(u.ID)
	out = ReplaceUnit(out, ConsumeMovementPoints(moved, cost))

	events := []Event{{
		Kind:   EventUnitMoved,
		UnitID: u.ID,
		Payload: MovePayload{
			From: from, To: to, Path: path, Cost: cost,
		},
	}}
	return out, events, nil
}

// SpellTiles previews the tiles a cast would cover, for UI highlighting.
func (e *Engine) SpellTiles(caster Unit, spell Spell, target grid.Position) []grid.Position {
	if spell.AreaShape == "" {
		return []grid.Position{target}
	}
	if spell.AreaShape == grid.ShapeCircle {
		return e.Grid.TilesInArea(spell.AreaShape, spell.AreaRadius, target, target)
	}
	return e.Grid.TilesInArea(spell.AreaShape, spell.AreaRadius, caster.Position, target)
}

// Cast resolves a spell at the target tile: range and line-of-sight checks,
// area enumeration, damage against every covered enemy, and effect
// application. The caster's action cost is booked on success.
func (e *Engine) Cast(s Snapshot, unitID, spellID string, target grid.Position) (Snapshot, []Event, error) {
	u, err := e.actingUnit(s, unitID)
	if err != nil {
		return s, nil, err
	}
	spell, ok := e.Lib.Spells[spellID]
	if !ok {
		return s, nil, fmt.Errorf("unknown spell %q", spellID)
	}
	if u.Stats.MaxActionPoints > 0 {
		if u.Stats.ActionPoints < spell.CostAP {
			return s, nil, fmt.Errorf("not enough action points for %q", spellID)
		}
	} else if u.HasActed {
		return s, nil, fmt.Errorf("unit already acted this turn")
	}
	if spell.SelfTarget {
		target = u.Position
	}
	if !target.InBounds() {
		return s, nil, fmt.Errorf("target %v is off the board", target)
	}
	if d := u.Footprint().Distance(target); d > spell.Range {
		return s, nil, fmt.Errorf("target %v out of range (%d > %d)", target, d, spell.Range)
	}
	if spell.RequiresLOS && !e.hasFootprintLOS(u, target) {
		return s, nil, fmt.Errorf("no line of sight to %v", target)
	}

	out := s
	tiles := e.SpellTiles(u, spell, target)
	events := []Event{{
		Kind:    EventSpellCast,
		UnitID:  u.ID,
		Payload: SpellPayload{SpellID: spell.ID, Target: target, Tiles: tiles},
	}}

	if spell.Damage > 0 {
		covered := positionSet(tiles)
		for _, victim := range out.Units {
			if !victim.Alive() || victim.ID == u.ID {
				continue
			}
			hit := false
			for _, t := range victim.Footprint().Tiles() {
				if covered[t] {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
			var ev []Event
			out, ev = e.strike(out, u, victim.ID, spell)
			events = append(events, ev...)
		}
	}

	if len(spell.Effects) > 0 {
		recipientID := ""
		if spell.SelfTarget {
			recipientID = u.ID
		} else if victim, ok := out.UnitAt(target); ok {
			recipientID = victim.ID
		}
		// An effect spell aimed at an empty tile fizzles; it never falls
		// back to the caster.
		if recipientID != "" {
			var ev []Event
			out, ev = e.applyEffects(out, recipientID, spell)
			events = append(events, ev...)
		}
	}

	caster, _ := out.UnitByID(u.ID)
	caster = ConsumeActionPoints(caster, spell.CostAP)
	caster.HasActed = true
	caster.SpellID = spell.ID
	out = ReplaceUnit(out, caster)

	out, ev := e.settle(out)
	events = append(events, ev...)
	return out, events, nil
}

// hasFootprintLOS reports whether any tile of the unit's footprint sees the
// target.
func (e *Engine) hasFootprintLOS(u Unit, target grid.Position) bool {
	for _, t := range u.Footprint().Tiles() {
		if e.Grid.HasLineOfSight(t, target) {
			return true
		}
	}
	return false
}

// strike resolves one hit: damage roll, resistance, shields, mark
// consumption, and the resulting events.
func (e *Engine) strike(s Snapshot, attacker Unit, targetID string, spell Spell) (Snapshot, []Event) {
	target, ok := s.UnitByID(targetID)
	if !ok || !target.Alive() {
		return s, nil
	}
	rolled := RollDamage(e.RNG, attacker, target, spell)
	final := rolled - Resistance(target.Stats, spell.DamageType)
	if final < 1 {
		final = 1
	}
	marked := MarkBonus(target.Buffs) > 0

	buffs, unabsorbed := ConsumeShield(target.Buffs, final)
	if marked {
		buffs = ConsumeMark(buffs)
	}
	target.Buffs = buffs
	target.Stats.Health -= unabsorbed
	if target.Stats.Health < 0 {
		target.Stats.Health = 0
	}
	out := ReplaceUnit(s, target)

	events := []Event{{
		Kind:   EventUnitDamaged,
		UnitID: target.ID,
		Payload: DamagePayload{
			Amount:     unabsorbed,
			Absorbed:   final - unabsorbed,
			DamageType: spell.DamageType,
			Health:     target.Stats.Health,
		},
	}}
	if !target.Alive() {
		events = append(events, Event{Kind: EventUnitDied, UnitID: target.ID})
	}
	return out, events
}

// applyEffects attaches a spell's effects to the recipient. Instant effects
// resolve immediately: health heals, point effects refill pools.
func (e *Engine) applyEffects(s Snapshot, recipientID string, spell Spell) (Snapshot, []Event) {
	recipient, ok := s.UnitByID(recipientID)
	if !ok || !recipient.Alive() {
		return s, nil
	}
	var events []Event
	for _, eff := range spell.Effects {
		var instant *InstantEffect
		recipient, instant = ApplyBuffEffect(recipient, spell.ID, eff)
		if instant == nil {
			applied := recipient.Buffs[len(recipient.Buffs)-1]
			events = append(events, Event{
				Kind:    EventBuffApplied,
				UnitID:  recipient.ID,
				Payload: BuffPayload{Buff: applied},
			})
			continue
		}
		switch instant.Stat {
		case "", "health":
			recipient = ApplyHealing(recipient, instant.Value)
			events = append(events, Event{
				Kind:    EventUnitHealed,
				UnitID:  recipient.ID,
				Payload: HealPayload{Amount: instant.Value, Health: recipient.Stats.Health},
			})
		case "actionPoints":
			recipient.Stats.ActionPoints += instant.Value
		case "movementPoints":
			recipient.Stats.MovementPoints += instant.Value
		}
	}
	return ReplaceUnit(s, recipient), events
}

// settle prunes the dead and latches the victory state, emitting game_over
// when the battle just ended.
func (e *Engine) settle(s Snapshot) (Snapshot, []Event) {
	wasOver := s.GameOver
	out := CheckVictoryConditions(PruneDead(s))
	if out.GameOver && !wasOver {
		return out, []Event{{
			Kind:    EventGameOver,
			Payload: GameOverPayload{Victory: out.Victory},
		}}
	}
	return out, nil
}

// EndTurn flips control to the other team, resets its units, and ticks their
// buffs (regeneration fires before durations drop).
func (e *Engine) EndTurn(s Snapshot) (Snapshot, []Event) {
	if s.GameOver {
		return s, nil
	}
	next := s.CurrentTeam.Opponent()
	out := StartTurn(s, next)
	events := []Event{{
		Kind:    EventTurnChanged,
		Payload: TurnPayload{Turn: out.Turn, Team: next},
	}}
	for _, u := range out.TeamUnits(next) {
		ticked, expired, regen := TickBuffs(u)
		if regen > 0 {
			ticked = ApplyHealing(ticked, regen)
			events = append(events, Event{
				Kind:    EventUnitHealed,
				UnitID:  ticked.ID,
				Payload: HealPayload{Amount: regen, Health: ticked.Stats.Health},
			})
		}
		for _, b := range expired {
			events = append(events, Event{
				Kind:    EventBuffExpired,
				UnitID:  ticked.ID,
				Payload: BuffPayload{Buff: b},
			})
		}
		out = ReplaceUnit(out, ticked)
	}
	return out, events
}

func positionSet(tiles []grid.Position) map[grid.Position]bool {
	set := make(map[grid.Position]bool, len(tiles))
	for _, p := range tiles {
		set[p] = true
	}
	return set
}
