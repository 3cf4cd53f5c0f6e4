package battle

import (
	"math"
	"math/rand"
)

// attackStat returns the attacker stat feeding the damage formula for a
// spell kind, including active stat boosts.
func attackStat(u Unit, kind SpellKind) int {
	var base int
	var stat string
	switch kind {
	case SpellMelee:
		base, stat = u.Stats.Force, "force"
	case SpellRanged:
		base, stat = u.Stats.Dexterity, "dexterity"
	case SpellMagic:
		base, stat = u.Stats.Intelligence, "intelligence"
	default:
		return 0
	}
	return base + StatBonus(u.Buffs, stat)
}

// rawDamage is the pre-roll, pre-resistance damage: spell base plus the
// attacker's stat, additive damage boosts, and the target's mark bonus.
func rawDamage(attacker, target Unit, spell Spell) int {
	return spell.Damage + attackStat(attacker, spell.Kind) +
		DamageBonus(attacker.Buffs) + MarkBonus(target.Buffs)
}

// RollDamage computes the damage a hit inflicts before resistance, applying
// the live-combat uniform multiplier in [0.8, 1.2]. The random source is
// injected so combat is reproducible; resistance and the 1-damage floor are
// applied by ApplyDamage.
func RollDamage(rng *rand.Rand, attacker, target Unit, spell Spell) int {
	raw := float64(rawDamage(attacker, target, spell))
	mult := 0.8 + rng.Float64()*0.4
	rolled := int(math.Round(raw * mult))
	if rolled < 1 {
		rolled = 1
	}
	return rolled
}

// PreviewDamage is the deterministic damage preview shown before committing
// an action: no random multiplier, resistance applied, floored at 1.
func PreviewDamage(attacker, target Unit, spell Spell) int {
	final := rawDamage(attacker, target, spell) - Resistance(target.Stats, spell.DamageType)
	if final < 1 {
		final = 1
	}
	return final
}
