package battle

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"tactics/internal/grid"
)

func buffGen() *rapid.Generator[ActiveBuff] {
	return rapid.Custom(func(t *rapid.T) ActiveBuff {
		types := []BuffType{BuffStatBoost, BuffDamageBoost, BuffMark, BuffShield}
		return ActiveBuff{
			ID:             rapid.StringMatching(`[a-z0-9-]{1,12}`).Draw(t, "id"),
			Type:           types[rapid.IntRange(0, len(types)-1).Draw(t, "type")],
			RemainingTurns: rapid.IntRange(1, 9).Draw(t, "turns"),
			Stat:           rapid.SampledFrom([]string{"", "force", "dexterity", "health"}).Draw(t, "stat"),
			Value:          rapid.IntRange(-5, 20).Draw(t, "value"),
			SourceSpellID:  rapid.StringMatching(`[a-z-]{1,10}`).Draw(t, "source"),
		}
	})
}

func unitGen() *rapid.Generator[Unit] {
	return rapid.Custom(func(t *rapid.T) Unit {
		teams := []Team{TeamPlayer, TeamEnemy}
		return Unit{
			ID:   rapid.StringMatching(`[a-z0-9-]{1,16}`).Draw(t, "id"),
			Team: teams[rapid.IntRange(0, 1).Draw(t, "team")],
			Position: grid.Position{
				X: rapid.IntRange(0, grid.Size-1).Draw(t, "x"),
				Y: rapid.IntRange(0, grid.Size-1).Draw(t, "y"),
			},
			Stats: Stats{
				Health:            rapid.IntRange(0, 40).Draw(t, "hp"),
				MaxHealth:         rapid.IntRange(1, 40).Draw(t, "maxhp"),
				Force:             rapid.IntRange(0, 9).Draw(t, "force"),
				Dexterity:         rapid.IntRange(0, 9).Draw(t, "dex"),
				Intelligence:      rapid.IntRange(0, 9).Draw(t, "int"),
				Armor:             rapid.IntRange(0, 5).Draw(t, "armor"),
				MagicResistance:   rapid.IntRange(0, 5).Draw(t, "mr"),
				MoveRange:         rapid.IntRange(1, 5).Draw(t, "move"),
				AttackRange:       rapid.IntRange(1, 6).Draw(t, "atk"),
				MovementPoints:    rapid.IntRange(0, 5).Draw(t, "mp"),
				MaxMovementPoints: rapid.IntRange(0, 5).Draw(t, "maxmp"),
				ActionPoints:      rapid.IntRange(0, 3).Draw(t, "ap"),
				MaxActionPoints:   rapid.IntRange(0, 3).Draw(t, "maxap"),
			},
			HasActed:  rapid.Bool().Draw(t, "acted"),
			HasMoved:  rapid.Bool().Draw(t, "moved"),
			SpellID:   rapid.SampledFrom([]string{"", "slash", "fireball"}).Draw(t, "spell"),
			EnemyType: rapid.SampledFrom([]string{"", "grunt", "ogre"}).Draw(t, "etype"),
			Size:      rapid.SampledFrom([]int{0, 1, 2}).Draw(t, "size"),
			Buffs:     rapid.SliceOfN(buffGen(), 0, 4).Draw(t, "buffs"),
		}
	})
}

func snapshotGen() *rapid.Generator[Snapshot] {
	return rapid.Custom(func(t *rapid.T) Snapshot {
		teams := []Team{TeamPlayer, TeamEnemy}
		return Snapshot{
			Turn:           rapid.IntRange(1, 50).Draw(t, "turn"),
			CurrentTeam:    teams[rapid.IntRange(0, 1).Draw(t, "team")],
			Units:          rapid.SliceOfN(unitGen(), 0, 6).Draw(t, "units"),
			AppliedBonuses: rapid.SliceOfN(rapid.StringMatching(`bonus-[a-z]{1,8}`), 0, 3).Draw(t, "bonuses"),
			Wins:           rapid.IntRange(0, 30).Draw(t, "wins"),
			GameOver:       rapid.Bool().Draw(t, "over"),
			Victory:        rapid.Bool().Draw(t, "victory"),
			PlayerClass:    rapid.SampledFrom([]string{"", "warrior", "mage"}).Draw(t, "class"),
			Artifacts:      rapid.SliceOfN(rapid.StringMatching(`artifact-[a-z]{1,8}`), 0, 2).Draw(t, "artifacts"),
		}
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := snapshotGen().Draw(t, "snapshot")
		b, err := Encode(s)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !reflect.DeepEqual(normalize(s), normalize(got)) {
			t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", s, got)
		}
	})
}

// normalize maps empty and nil slices together; JSON does not distinguish
// them and neither does any consumer.
func normalize(s Snapshot) Snapshot {
	if len(s.Units) == 0 {
		s.Units = nil
	}
	for i := range s.Units {
		if len(s.Units[i].Buffs) == 0 {
			s.Units[i].Buffs = nil
		}
	}
	if len(s.AppliedBonuses) == 0 {
		s.AppliedBonuses = nil
	}
	if len(s.Artifacts) == 0 {
		s.Artifacts = nil
	}
	return s
}

func TestCodec_RejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("expected an error decoding garbage")
	}
}

func TestCodec_KnownSnapshot(t *testing.T) {
	s := testSnapshot()
	s.Units[0].Buffs = []ActiveBuff{{ID: "b", Type: BuffShield, Value: 4, RemainingTurns: 2, SourceSpellID: "arcane-shield"}}
	b, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	u, ok := got.UnitByID("p1")
	if !ok {
		t.Fatal("p1 missing after round trip")
	}
	if len(u.Buffs) != 1 || u.Buffs[0].Value != 4 {
		t.Errorf("buff lost in round trip: %+v", u.Buffs)
	}
}
