// Package battle implements the turn-based combat core: the immutable unit
// and snapshot model, buff lifecycle, turn flow, damage and difficulty
// formulas, and the orchestrating engine. Every mutator is copy-on-write: it
// takes a value, deep-copies what it changes, and returns the new value, so a
// snapshot can be queried concurrently and replayed freely.
package battle

import "tactics/internal/grid"

// Team identifies which side a unit fights for.
type Team string

const (
	TeamPlayer Team = "player"
	TeamEnemy  Team = "enemy"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// DamageType selects which resistance applies to a hit.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagic    DamageType = "magic"
)

// SpellKind selects which attacker stat feeds the damage formula.
type SpellKind string

const (
	SpellMelee  SpellKind = "melee"
	SpellRanged SpellKind = "ranged"
	SpellMagic  SpellKind = "magic"
)

// BuffType classifies a temporary effect.
type BuffType string

const (
	BuffStatBoost   BuffType = "stat_boost"
	BuffDamageBoost BuffType = "damage_boost"
	BuffMark        BuffType = "mark"
	BuffShield      BuffType = "shield"
	BuffInstant     BuffType = "instant"
)

// Stats holds a unit's numeric attributes. MaxMovementPoints or
// MaxActionPoints of zero means the unit has no such pool and the related
// consume operations are no-ops.
type Stats struct {
	Health            int `json:"health" yaml:"health"`
	MaxHealth         int `json:"maxHealth" yaml:"maxHealth"`
	Force             int `json:"force" yaml:"force"`
	Dexterity         int `json:"dexterity" yaml:"dexterity"`
	Intelligence      int `json:"intelligence,omitempty" yaml:"intelligence"`
	Armor             int `json:"armor" yaml:"armor"`
	MagicResistance   int `json:"magicResistance,omitempty" yaml:"magicResistance"`
	MoveRange         int `json:"moveRange" yaml:"moveRange"`
	AttackRange       int `json:"attackRange" yaml:"attackRange"`
	MovementPoints    int `json:"movementPoints,omitempty" yaml:"movementPoints"`
	MaxMovementPoints int `json:"maxMovementPoints,omitempty" yaml:"maxMovementPoints"`
	ActionPoints      int `json:"actionPoints,omitempty" yaml:"actionPoints"`
	MaxActionPoints   int `json:"maxActionPoints,omitempty" yaml:"maxActionPoints"`
}

// ActiveBuff is one timed effect attached to a unit. Buffs sharing a
// (SourceSpellID, Stat) pair refresh in place instead of stacking.
type ActiveBuff struct {
	ID             string   `json:"id"`
	Type           BuffType `json:"buffType"`
	RemainingTurns int      `json:"remainingTurns"`
	Stat           string   `json:"stat,omitempty"`
	Value          int      `json:"value"`
	SourceSpellID  string   `json:"sourceSpellId"`
}

// Unit is one combatant. Units are owned by the Snapshot and never aliased:
// reads that will be mutated go through clone first.
type Unit struct {
	ID        string        `json:"id"`
	Team      Team          `json:"team"`
	Position  grid.Position `json:"position"`
	Stats     Stats         `json:"stats"`
	HasActed  bool          `json:"hasActed"`
	HasMoved  bool          `json:"hasMovedThisTurn"`
	SpellID   string        `json:"currentSpellId,omitempty"`
	EnemyType string        `json:"enemyType,omitempty"`
	Size      int           `json:"size,omitempty"`
	Buffs     []ActiveBuff  `json:"activeBuffs"`
}

// Alive reports whether the unit is still in the fight.
func (u Unit) Alive() bool {
	return u.Stats.Health > 0
}

// Footprint returns the block of tiles the unit occupies.
func (u Unit) Footprint() grid.Footprint {
	size := u.Size
	if size < 1 {
		size = 1
	}
	return grid.Footprint{Origin: u.Position, Size: size}
}

// clone deep-copies the unit so callers can mutate it freely.
func (u Unit) clone() Unit {
	out := u
	if u.Buffs != nil {
		out.Buffs = make([]ActiveBuff, len(u.Buffs))
		copy(out.Buffs, u.Buffs)
	}
	return out
}

// Snapshot is the full battle state at one instant. It is the single source
// of truth; all mutation happens by deriving a new Snapshot.
type Snapshot struct {
	Turn           int      `json:"turn"`
	CurrentTeam    Team     `json:"currentTeam"`
	Units          []Unit   `json:"units"`
	AppliedBonuses []string `json:"appliedBonuses"`
	Wins           int      `json:"wins"`
	GameOver       bool     `json:"isGameOver"`
	Victory        bool     `json:"isVictory"`
	PlayerClass    string   `json:"playerClass,omitempty"`
	Artifacts      []string `json:"equippedArtifacts,omitempty"`
}

// clone deep-copies the snapshot's unit roster.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Units = make([]Unit, len(s.Units))
	for i, u := range s.Units {
		out.Units[i] = u.clone()
	}
	if s.AppliedBonuses != nil {
		out.AppliedBonuses = append([]string(nil), s.AppliedBonuses...)
	}
	if s.Artifacts != nil {
		out.Artifacts = append([]string(nil), s.Artifacts...)
	}
	return out
}

// UnitByID returns a deep copy of the unit with the given id.
func (s Snapshot) UnitByID(id string) (Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u.clone(), true
		}
	}
	return Unit{}, false
}

// TeamUnits returns copies of all living units on a team.
func (s Snapshot) TeamUnits(team Team) []Unit {
	var out []Unit
	for _, u := range s.Units {
		if u.Team == team && u.Alive() {
			out = append(out, u.clone())
		}
	}
	return out
}

// OccupiedBy returns an occupancy predicate over every living unit's
// footprint except the one with exceptID; pass an empty id to include all.
func (s Snapshot) OccupiedBy(exceptID string) grid.OccupiedFunc {
	type placed struct {
		fp grid.Footprint
	}
	var footprints []placed
	for _, u := range s.Units {
		if !u.Alive() || u.ID == exceptID {
			continue
		}
		footprints = append(footprints, placed{fp: u.Footprint()})
	}
	return func(p grid.Position) bool {
		for _, f := range footprints {
			if f.fp.Contains(p) {
				return true
			}
		}
		return false
	}
}

// UnitAt returns a copy of the living unit whose footprint covers p.
func (s Snapshot) UnitAt(p grid.Position) (Unit, bool) {
	for _, u := range s.Units {
		if u.Alive() && u.Footprint().Contains(p) {
			return u.clone(), true
		}
	}
	return Unit{}, false
}
