package battle

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tactics/internal/grid"
)

// Spell describes one castable action. Kind picks the attacker stat that
// feeds the damage formula; Damage zero means a pure utility spell.
type Spell struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Kind        SpellKind     `yaml:"kind" json:"kind"`
	DamageType  DamageType    `yaml:"damageType" json:"damageType"`
	Damage      int           `yaml:"damage" json:"damage"`
	Range       int           `yaml:"range" json:"range"`
	AreaShape   grid.Shape    `yaml:"areaShape,omitempty" json:"areaShape,omitempty"`
	AreaRadius  int           `yaml:"areaRadius,omitempty" json:"areaRadius,omitempty"`
	CostAP      int           `yaml:"costAP" json:"costAP"`
	RequiresLOS bool          `yaml:"requiresLOS" json:"requiresLOS"`
	SelfTarget  bool          `yaml:"selfTarget,omitempty" json:"selfTarget,omitempty"`
	Effects     []SpellEffect `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// UnitTemplate is the data-driven description a unit is stamped from; the
// enemyType/playerClass tag on a live unit points back at its template.
type UnitTemplate struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Visual string   `yaml:"visual"`
	Size   int      `yaml:"size"`
	Stats  Stats    `yaml:"stats"`
	Spells []string `yaml:"spells"`
}

// StatBonusDef maps an unlocked bonus or artifact id to a flat stat delta
// applied at battle setup.
type StatBonusDef struct {
	ID    string `yaml:"id"`
	Stat  string `yaml:"stat"`
	Value int    `yaml:"value"`
}

// Library bundles every template table a battle needs.
type Library struct {
	Classes map[string]UnitTemplate
	Enemies map[string]UnitTemplate
	Spells  map[string]Spell
	Bonuses map[string]StatBonusDef
	Tiers   []Tier
}

type libraryFile struct {
	Classes []UnitTemplate `yaml:"classes"`
	Enemies []UnitTemplate `yaml:"enemies"`
	Spells  []Spell        `yaml:"spells"`
	Bonuses []StatBonusDef `yaml:"bonuses"`
	Tiers   []Tier         `yaml:"tiers"`
}

// LoadLibrary reads templates.yaml from dir and merges it over the built-in
// defaults, so a data file only needs to list what it changes.
func LoadLibrary(dir string) (*Library, error) {
	cleanPath := filepath.Clean(filepath.Join(dir, "templates.yaml"))
	b, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, err
	}
	var f libraryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cleanPath, err)
	}
	lib := DefaultLibrary()
	for _, c := range f.Classes {
		lib.Classes[c.ID] = c
	}
	for _, e := range f.Enemies {
		lib.Enemies[e.ID] = e
	}
	for _, s := range f.Spells {
		lib.Spells[s.ID] = s
	}
	for _, bd := range f.Bonuses {
		lib.Bonuses[bd.ID] = bd
	}
	if len(f.Tiers) > 0 {
		lib.Tiers = f.Tiers
	}
	return lib, nil
}

// DefaultLibrary returns the compiled-in template set, enough to run battles
// and tests without a data directory.
func DefaultLibrary() *Library {
	classes := []UnitTemplate{
		{
			ID: "warrior", Name: "Warrior", Visual: "warrior",
			Stats: Stats{
				Health: 30, MaxHealth: 30, Force: 6, Dexterity: 3, Armor: 3,
				MoveRange: 3, AttackRange: 1,
				MovementPoints: 3, MaxMovementPoints: 3,
				ActionPoints: 2, MaxActionPoints: 2,
			},
			Spells: []string{"slash", "war-cry"},
		},
		{
			ID: "archer", Name: "Archer", Visual: "archer",
			Stats: Stats{
				Health: 22, MaxHealth: 22, Force: 2, Dexterity: 6, Armor: 1,
				MoveRange: 4, AttackRange: 4,
				MovementPoints: 4, MaxMovementPoints: 4,
				ActionPoints: 2, MaxActionPoints: 2,
			},
			Spells: []string{"piercing-shot", "hunters-mark"},
		},
		{
			ID: "mage", Name: "Mage", Visual: "mage",
			Stats: Stats{
				Health: 18, MaxHealth: 18, Force: 1, Dexterity: 2,
				Intelligence: 7, Armor: 0, MagicResistance: 3,
				MoveRange: 3, AttackRange: 5,
				MovementPoints: 3, MaxMovementPoints: 3,
				ActionPoints: 2, MaxActionPoints: 2,
			},
			Spells: []string{"fireball", "arcane-shield", "flame-wave"},
		},
	}
	enemies := []UnitTemplate{
		{
			ID: "grunt", Name: "Grunt", Visual: "grunt",
			Stats: Stats{
				Health: 12, MaxHealth: 12, Force: 3, Dexterity: 2, Armor: 1,
				MoveRange: 3, AttackRange: 1,
				MovementPoints: 3, MaxMovementPoints: 3,
				ActionPoints: 1, MaxActionPoints: 1,
			},
			Spells: []string{"claw"},
		},
		{
			ID: "stalker", Name: "Stalker", Visual: "stalker",
			Stats: Stats{
				Health: 10, MaxHealth: 10, Force: 2, Dexterity: 5, Armor: 0,
				MoveRange: 4, AttackRange: 3,
				MovementPoints: 4, MaxMovementPoints: 4,
				ActionPoints: 1, MaxActionPoints: 1,
			},
			Spells: []string{"dart"},
		},
		{
			ID: "warlock", Name: "Warlock", Visual: "warlock",
			Stats: Stats{
				Health: 14, MaxHealth: 14, Force: 1, Dexterity: 2,
				Intelligence: 5, Armor: 0, MagicResistance: 2,
				MoveRange: 3, AttackRange: 4,
				MovementPoints: 3, MaxMovementPoints: 3,
				ActionPoints: 1, MaxActionPoints: 1,
			},
			Spells: []string{"hex-bolt"},
		},
		{
			ID: "ogre", Name: "Ogre", Visual: "ogre", Size: 2,
			Stats: Stats{
				Health: 40, MaxHealth: 40, Force: 7, Dexterity: 1, Armor: 2,
				MoveRange: 2, AttackRange: 1,
				MovementPoints: 2, MaxMovementPoints: 2,
				ActionPoints: 1, MaxActionPoints: 1,
			},
			Spells: []string{"smash"},
		},
	}
	spells := []Spell{
		{ID: "slash", Name: "Slash", Kind: SpellMelee, DamageType: DamagePhysical, Damage: 5, Range: 1, CostAP: 1},
		{ID: "war-cry", Name: "War Cry", Kind: SpellMelee, DamageType: DamagePhysical, Range: 0, CostAP: 1, SelfTarget: true,
			Effects: []SpellEffect{{Type: BuffDamageBoost, Value: 3, Duration: 2}}},
		{ID: "piercing-shot", Name: "Piercing Shot", Kind: SpellRanged, DamageType: DamagePhysical, Damage: 4, Range: 4, CostAP: 1, RequiresLOS: true},
		{ID: "hunters-mark", Name: "Hunter's Mark", Kind: SpellRanged, DamageType: DamagePhysical, Range: 5, CostAP: 1, RequiresLOS: true,
			Effects: []SpellEffect{{Type: BuffMark, Value: 4, Duration: 3}}},
		{ID: "fireball", Name: "Fireball", Kind: SpellMagic, DamageType: DamageMagic, Damage: 6, Range: 5, CostAP: 1, RequiresLOS: true,
			AreaShape: grid.ShapeCircle, AreaRadius: 1},
		{ID: "arcane-shield", Name: "Arcane Shield", Kind: SpellMagic, DamageType: DamageMagic, Range: 0, CostAP: 1, SelfTarget: true,
			Effects: []SpellEffect{{Type: BuffShield, Value: 8, Duration: 3}}},
		{ID: "flame-wave", Name: "Flame Wave", Kind: SpellMagic, DamageType: DamageMagic, Damage: 4, Range: 3, CostAP: 2,
			AreaShape: grid.ShapeCone, AreaRadius: 3},
		{ID: "claw", Name: "Claw", Kind: SpellMelee, DamageType: DamagePhysical, Damage: 3, Range: 1, CostAP: 1},
		{ID: "dart", Name: "Dart", Kind: SpellRanged, DamageType: DamagePhysical, Damage: 3, Range: 3, CostAP: 1, RequiresLOS: true},
		{ID: "hex-bolt", Name: "Hex Bolt", Kind: SpellMagic, DamageType: DamageMagic, Damage: 4, Range: 4, CostAP: 1, RequiresLOS: true},
		{ID: "smash", Name: "Smash", Kind: SpellMelee, DamageType: DamagePhysical, Damage: 7, Range: 1, CostAP: 1},
	}
	bonuses := []StatBonusDef{
		{ID: "bonus-vitality", Stat: "health", Value: 5},
		{ID: "bonus-force", Stat: "force", Value: 2},
		{ID: "bonus-dexterity", Stat: "dexterity", Value: 2},
		{ID: "bonus-intellect", Stat: "intelligence", Value: 2},
		{ID: "artifact-iron-skin", Stat: "armor", Value: 2},
		{ID: "artifact-ward-stone", Stat: "magicResistance", Value: 2},
		{ID: "artifact-boots", Stat: "moveRange", Value: 1},
	}

	lib := &Library{
		Classes: make(map[string]UnitTemplate, len(classes)),
		Enemies: make(map[string]UnitTemplate, len(enemies)),
		Spells:  make(map[string]Spell, len(spells)),
		Bonuses: make(map[string]StatBonusDef, len(bonuses)),
		Tiers:   defaultTiers(),
	}
	for _, c := range classes {
		lib.Classes[c.ID] = c
	}
	for _, e := range enemies {
		lib.Enemies[e.ID] = e
	}
	for _, s := range spells {
		lib.Spells[s.ID] = s
	}
	for _, b := range bonuses {
		lib.Bonuses[b.ID] = b
	}
	return lib
}

// applyStatBonus adds a flat delta to the named stat; health bonuses raise
// both current and max health.
func applyStatBonus(st Stats, def StatBonusDef) Stats {
	switch def.Stat {
	case "health":
		st.MaxHealth += def.Value
		st.Health += def.Value
	case "force":
		st.Force += def.Value
	case "dexterity":
		st.Dexterity += def.Value
	case "intelligence":
		st.Intelligence += def.Value
	case "armor":
		st.Armor += def.Value
	case "magicResistance":
		st.MagicResistance += def.Value
	case "moveRange":
		st.MoveRange += def.Value
	}
	return st
}
