package battle

import "github.com/google/uuid"

// SpellEffect is a spell-defined effect template. Duration zero or type
// instant resolves immediately and never becomes a stored buff.
type SpellEffect struct {
	Type     BuffType `json:"type" yaml:"type"`
	Stat     string   `json:"stat,omitempty" yaml:"stat"`
	Value    int      `json:"value" yaml:"value"`
	Duration int      `json:"duration" yaml:"duration"`
}

// InstantEffect is the immediate stat delta produced by an instant or
// zero-duration effect, for the caller to apply directly (heal, grant points).
type InstantEffect struct {
	Stat  string
	Value int
}

// ApplyBuffEffect attaches a spell effect to the unit. Persistent effects are
// stored as an ActiveBuff (refreshing any buff with the same source spell and
// stat); instant effects are returned for immediate application and leave no
// record.
func ApplyBuffEffect(u Unit, sourceSpellID string, e SpellEffect) (Unit, *InstantEffect) {
	if e.Type == BuffInstant || e.Duration == 0 {
		return u, &InstantEffect{Stat: e.Stat, Value: e.Value}
	}
	out := u.clone()
	out.Buffs = AddBuff(out.Buffs, ActiveBuff{
		ID:             uuid.NewString(),
		Type:           e.Type,
		RemainingTurns: e.Duration,
		Stat:           e.Stat,
		Value:          e.Value,
		SourceSpellID:  sourceSpellID,
	})
	return out, nil
}

// AddBuff appends a buff, replacing any existing buff with the same
// (SourceSpellID, Stat) pair in place rather than stacking a duplicate.
func AddBuff(buffs []ActiveBuff, b ActiveBuff) []ActiveBuff {
	out := append([]ActiveBuff(nil), buffs...)
	for i := range out {
		if out[i].SourceSpellID == b.SourceSpellID && out[i].Stat == b.Stat {
			out[i] = b
			return out
		}
	}
	return append(out, b)
}

// TickBuffs advances every buff by one owning-unit turn: a positive health
// stat boost emits its regeneration amount before the decrement, remaining
// turns drop by exactly one, and buffs reaching zero expire. It returns the
// updated unit, the expired buffs, and the total regeneration to apply.
func TickBuffs(u Unit) (Unit, []ActiveBuff, int) {
	out := u.clone()
	var kept []ActiveBuff
	var expired []ActiveBuff
	regen := 0
	for _, b := range out.Buffs {
		if b.Type == BuffStatBoost && b.Stat == "health" && b.Value > 0 {
			regen += b.Value
		}
		b.RemainingTurns--
		if b.RemainingTurns <= 0 {
			expired = append(expired, b)
			continue
		}
		kept = append(kept, b)
	}
	out.Buffs = kept
	return out, expired, regen
}

// ConsumeShield drains shield buffs in list order until the incoming damage
// is absorbed or the shields run out. Fully depleted shields are removed.
// The second return is the damage left unabsorbed; it never goes negative.
func ConsumeShield(buffs []ActiveBuff, incoming int) ([]ActiveBuff, int) {
	if incoming <= 0 {
		return append([]ActiveBuff(nil), buffs...), 0
	}
	remaining := incoming
	var kept []ActiveBuff
	for _, b := range buffs {
		if b.Type != BuffShield || remaining <= 0 {
			kept = append(kept, b)
			continue
		}
		if b.Value > remaining {
			b.Value -= remaining
			remaining = 0
			kept = append(kept, b)
			continue
		}
		remaining -= b.Value
	}
	return kept, remaining
}

// ConsumeMark removes the first mark buff; marks are single-use and are
// consumed by the hit that benefits from them.
func ConsumeMark(buffs []ActiveBuff) []ActiveBuff {
	var out []ActiveBuff
	removed := false
	for _, b := range buffs {
		if !removed && b.Type == BuffMark {
			removed = true
			continue
		}
		out = append(out, b)
	}
	return out
}

// StatBonus sums stat_boost values for one stat.
func StatBonus(buffs []ActiveBuff, stat string) int {
	total := 0
	for _, b := range buffs {
		if b.Type == BuffStatBoost && b.Stat == stat {
			total += b.Value
		}
	}
	return total
}

// DamageBonus sums damage_boost values.
func DamageBonus(buffs []ActiveBuff) int {
	total := 0
	for _, b := range buffs {
		if b.Type == BuffDamageBoost {
			total += b.Value
		}
	}
	return total
}

// ShieldTotal sums remaining shield absorption.
func ShieldTotal(buffs []ActiveBuff) int {
	total := 0
	for _, b := range buffs {
		if b.Type == BuffShield {
			total += b.Value
		}
	}
	return total
}

// MarkBonus sums mark values, the bonus damage added to an attack against a
// marked target.
func MarkBonus(buffs []ActiveBuff) int {
	total := 0
	for _, b := range buffs {
		if b.Type == BuffMark {
			total += b.Value
		}
	}
	return total
}
