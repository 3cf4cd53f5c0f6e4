package battle

// Modifiers scale enemy parameters for one battle.
type Modifiers struct {
	HealthMul          float64 `yaml:"healthMul" json:"healthMul"`
	DamageMul          float64 `yaml:"damageMul" json:"damageMul"`
	ArmorBonus         int     `yaml:"armorBonus" json:"armorBonus"`
	EnemyCount         int     `yaml:"enemyCount" json:"enemyCount"`
	MoveRangeBonus     int     `yaml:"moveRangeBonus" json:"moveRangeBonus"`
	ActionPointBonus   int     `yaml:"actionPointBonus" json:"actionPointBonus"`
	MovementPointBonus int     `yaml:"movementPointBonus" json:"movementPointBonus"`
}

// Tier binds a win-count threshold to modifiers and an enemy composition.
// Tiers must be listed in ascending MinWins order; the curve is flat inside a
// tier and non-decreasing across tiers.
type Tier struct {
	MinWins     int       `yaml:"minWins" json:"minWins"`
	Modifiers   Modifiers `yaml:"modifiers" json:"modifiers"`
	Composition []string  `yaml:"composition" json:"composition"`
}

// defaultTiers is the built-in difficulty curve. The zero-win tier is the
// tutorial: sub-1.0 multipliers and a small roster.
func defaultTiers() []Tier {
	return []Tier{
		{
			MinWins: 0,
			Modifiers: Modifiers{
				HealthMul: 0.8, DamageMul: 0.8, EnemyCount: 2,
			},
			Composition: []string{"grunt", "grunt"},
		},
		{
			MinWins: 2,
			Modifiers: Modifiers{
				HealthMul: 1.0, DamageMul: 1.0, EnemyCount: 2,
			},
			Composition: []string{"grunt", "stalker"},
		},
		{
			MinWins: 4,
			Modifiers: Modifiers{
				HealthMul: 1.15, DamageMul: 1.1, ArmorBonus: 1, EnemyCount: 3,
			},
			Composition: []string{"grunt", "stalker", "warlock"},
		},
		{
			MinWins: 7,
			Modifiers: Modifiers{
				HealthMul: 1.3, DamageMul: 1.2, ArmorBonus: 1, EnemyCount: 3,
				MoveRangeBonus: 1, MovementPointBonus: 1,
			},
			Composition: []string{"stalker", "stalker", "warlock"},
		},
		{
			MinWins: 10,
			Modifiers: Modifiers{
				HealthMul: 1.5, DamageMul: 1.3, ArmorBonus: 2, EnemyCount: 4,
				MoveRangeBonus: 1, ActionPointBonus: 1, MovementPointBonus: 1,
			},
			Composition: []string{"grunt", "stalker", "warlock", "ogre"},
		},
	}
}

// tierForWins picks the highest tier whose threshold the win count meets.
func tierForWins(tiers []Tier, wins int) Tier {
	if len(tiers) == 0 {
		tiers = defaultTiers()
	}
	chosen := tiers[0]
	for _, t := range tiers {
		if wins >= t.MinWins {
			chosen = t
		}
	}
	return chosen
}

// ModifiersForWins derives the enemy scaling bundle from the cumulative win
// count.
func ModifiersForWins(tiers []Tier, wins int) Modifiers {
	return tierForWins(tiers, wins).Modifiers
}

// CompositionForWins derives the enemy roster from the cumulative win count.
func CompositionForWins(tiers []Tier, wins int) []string {
	return append([]string(nil), tierForWins(tiers, wins).Composition...)
}

// BossModifiers scales a boss by its encounter ordinal (1st, 2nd, ...).
// Damage grows slower than health so later bosses get tanky without
// one-shotting the player.
func BossModifiers(encounter int) Modifiers {
	if encounter < 1 {
		encounter = 1
	}
	n := float64(encounter - 1)
	return Modifiers{
		HealthMul:  1.0 + 0.35*n,
		DamageMul:  1.0 + 0.12*n,
		ArmorBonus: (encounter - 1) / 2,
		EnemyCount: 1,
	}
}

// ScaleStats applies difficulty modifiers to an enemy template's stats.
func ScaleStats(st Stats, m Modifiers) Stats {
	out := st
	out.MaxHealth = scaleRound(st.MaxHealth, m.HealthMul)
	out.Health = out.MaxHealth
	out.Force = scaleRound(st.Force, m.DamageMul)
	out.Dexterity = scaleRound(st.Dexterity, m.DamageMul)
	out.Intelligence = scaleRound(st.Intelligence, m.DamageMul)
	out.Armor += m.ArmorBonus
	out.MoveRange += m.MoveRangeBonus
	if out.MaxMovementPoints > 0 {
		out.MaxMovementPoints += m.MovementPointBonus
		out.MovementPoints = out.MaxMovementPoints
	}
	if out.MaxActionPoints > 0 {
		out.MaxActionPoints += m.ActionPointBonus
		out.ActionPoints = out.MaxActionPoints
	}
	return out
}

func scaleRound(v int, mul float64) int {
	if mul == 0 {
		return v
	}
	scaled := int(float64(v)*mul + 0.5)
	if scaled < 1 && v > 0 {
		scaled = 1
	}
	return scaled
}
