package battle

import "tactics/internal/grid"

// EventKind identifies one incremental state delta.
type EventKind string

const (
	EventUnitMoved   EventKind = "unit_moved"
	EventUnitDamaged EventKind = "unit_damaged"
	EventUnitHealed  EventKind = "unit_healed"
	EventUnitDied    EventKind = "unit_died"
	EventBuffApplied EventKind = "buff_applied"
	EventBuffExpired EventKind = "buff_expired"
	EventSpellCast   EventKind = "spell_cast"
	EventTurnChanged EventKind = "turn_changed"
	EventGameOver    EventKind = "game_over"
)

// Event is a diff entry a UI collaborator can apply to its copy of the state
// without refetching the whole snapshot.
type Event struct {
	Kind    EventKind `json:"kind"`
	UnitID  string    `json:"unitId,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// MovePayload carries a completed movement.
type MovePayload struct {
	From grid.Position   `json:"from"`
	To   grid.Position   `json:"to"`
	Path []grid.Position `json:"path,omitempty"`
	Cost int             `json:"cost"`
}

// DamagePayload carries a resolved hit.
type DamagePayload struct {
	Amount     int        `json:"amount"`
	Absorbed   int        `json:"absorbed,omitempty"`
	DamageType DamageType `json:"damageType"`
	Health     int        `json:"health"`
}

// HealPayload carries a resolved heal or regeneration tick.
type HealPayload struct {
	Amount int `json:"amount"`
	Health int `json:"health"`
}

// BuffPayload carries an applied or expired buff.
type BuffPayload struct {
	Buff ActiveBuff `json:"buff"`
}

// SpellPayload carries a cast announcement with the tiles it covered.
type SpellPayload struct {
	SpellID string          `json:"spellId"`
	Target  grid.Position   `json:"target"`
	Tiles   []grid.Position `json:"tiles,omitempty"`
}

// TurnPayload carries a control handover.
type TurnPayload struct {
	Turn int  `json:"turn"`
	Team Team `json:"team"`
}

// GameOverPayload carries the terminal outcome.
type GameOverPayload struct {
	Victory bool `json:"victory"`
}
