package battle

import (
	"testing"

	"pgregory.net/rapid"

	"tactics/internal/grid"
)

func TestApplyBuffEffect_InstantNeverStored(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})

	out, instant := ApplyBuffEffect(u, "heal", SpellEffect{Type: BuffInstant, Stat: "health", Value: 6})
	if instant == nil {
		t.Fatal("instant effect must be returned for immediate application")
	}
	if instant.Value != 6 || instant.Stat != "health" {
		t.Errorf("unexpected instant effect %+v", instant)
	}
	if len(out.Buffs) != 0 {
		t.Error("instant effect must not enter the active list")
	}

	// Duration zero behaves the same regardless of type.
	out, instant = ApplyBuffEffect(u, "surge", SpellEffect{Type: BuffStatBoost, Stat: "force", Value: 2, Duration: 0})
	if instant == nil || len(out.Buffs) != 0 {
		t.Error("zero-duration effect must resolve immediately")
	}
}

func TestApplyBuffEffect_PersistentStored(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	out, instant := ApplyBuffEffect(u, "war-cry", SpellEffect{Type: BuffDamageBoost, Value: 3, Duration: 2})
	if instant != nil {
		t.Error("persistent effect must not produce an instant delta")
	}
	if len(out.Buffs) != 1 {
		t.Fatalf("expected 1 stored buff, got %d", len(out.Buffs))
	}
	b := out.Buffs[0]
	if b.Type != BuffDamageBoost || b.RemainingTurns != 2 || b.SourceSpellID != "war-cry" {
		t.Errorf("unexpected stored buff %+v", b)
	}
	if b.ID == "" {
		t.Error("stored buff needs an id")
	}
}

func TestAddBuff_RefreshInPlace(t *testing.T) {
	buffs := []ActiveBuff{
		{ID: "a", Type: BuffStatBoost, Stat: "force", Value: 2, RemainingTurns: 1, SourceSpellID: "rage"},
		{ID: "b", Type: BuffShield, Value: 5, RemainingTurns: 2, SourceSpellID: "shield"},
	}
	out := AddBuff(buffs, ActiveBuff{ID: "c", Type: BuffStatBoost, Stat: "force", Value: 4, RemainingTurns: 3, SourceSpellID: "rage"})
	if len(out) != 2 {
		t.Fatalf("same (spell, stat) must refresh, not stack; got %d buffs", len(out))
	}
	if out[0].Value != 4 || out[0].RemainingTurns != 3 {
		t.Errorf("buff not refreshed in place: %+v", out[0])
	}
	// Different stat from the same spell stacks separately.
	out = AddBuff(out, ActiveBuff{ID: "d", Type: BuffStatBoost, Stat: "dexterity", Value: 1, RemainingTurns: 2, SourceSpellID: "rage"})
	if len(out) != 3 {
		t.Errorf("different stat must append, got %d buffs", len(out))
	}
}

func TestTickBuffs_ExpiresExactlyOnTime(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "turns")
		u := testUnit("u", TeamPlayer, grid.Position{})
		u.Buffs = []ActiveBuff{{ID: "b", Type: BuffDamageBoost, Value: 2, RemainingTurns: n, SourceSpellID: "s"}}

		for i := 0; i < n-1; i++ {
			var expired []ActiveBuff
			u, expired, _ = TickBuffs(u)
			if len(expired) != 0 {
				t.Fatalf("buff expired on tick %d of %d", i+1, n)
			}
		}
		var expired []ActiveBuff
		u, expired, _ = TickBuffs(u)
		if len(expired) != 1 {
			t.Fatalf("buff must expire exactly on tick %d", n)
		}
		if len(u.Buffs) != 0 {
			t.Fatal("expired buff still active")
		}
	})
}

func TestTickBuffs_HealthRegenEmittedBeforeDecrement(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	u.Buffs = []ActiveBuff{{ID: "r", Type: BuffStatBoost, Stat: "health", Value: 3, RemainingTurns: 1, SourceSpellID: "regen"}}
	out, expired, regen := TickBuffs(u)
	if regen != 3 {
		t.Errorf("regeneration must fire on the expiry tick too, got %d", regen)
	}
	if len(expired) != 1 || len(out.Buffs) != 0 {
		t.Error("one-turn regen must expire after its final tick")
	}

	// Negative health boosts (poison-style) do not regenerate.
	u.Buffs = []ActiveBuff{{ID: "p", Type: BuffStatBoost, Stat: "health", Value: -2, RemainingTurns: 2, SourceSpellID: "poison"}}
	_, _, regen = TickBuffs(u)
	if regen != 0 {
		t.Errorf("negative value must not regen, got %d", regen)
	}
}

func TestConsumeShield(t *testing.T) {
	buffs := []ActiveBuff{
		{ID: "s1", Type: BuffShield, Value: 4, RemainingTurns: 2, SourceSpellID: "a"},
		{ID: "m", Type: BuffMark, Value: 2, RemainingTurns: 2, SourceSpellID: "mk"},
		{ID: "s2", Type: BuffShield, Value: 3, RemainingTurns: 2, SourceSpellID: "b"},
	}

	out, remaining := ConsumeShield(buffs, 5)
	if remaining != 0 {
		t.Errorf("7 shield absorbs 5 fully, got %d through", remaining)
	}
	if len(out) != 2 {
		t.Fatalf("depleted first shield must be removed, got %v", out)
	}
	if out[1].Value != 2 {
		t.Errorf("second shield must keep 2 points, got %d", out[1].Value)
	}

	out, remaining = ConsumeShield(buffs, 10)
	if remaining != 3 {
		t.Errorf("expected 3 unabsorbed, got %d", remaining)
	}
	for _, b := range out {
		if b.Type == BuffShield {
			t.Error("exhausted shields must all be removed")
		}
	}
}

func TestConsumeShield_Underflow(t *testing.T) {
	out, remaining := ConsumeShield(nil, 7)
	if remaining != 7 || len(out) != 0 {
		t.Errorf("no shields means full damage through, got %d", remaining)
	}
	if _, remaining = ConsumeShield(nil, -3); remaining != 0 {
		t.Errorf("negative incoming clamps to 0, got %d", remaining)
	}
}

func TestConsumeMark_FirstOnly(t *testing.T) {
	buffs := []ActiveBuff{
		{ID: "m1", Type: BuffMark, Value: 2, RemainingTurns: 2, SourceSpellID: "a"},
		{ID: "m2", Type: BuffMark, Value: 3, RemainingTurns: 2, SourceSpellID: "b"},
	}
	out := ConsumeMark(buffs)
	if len(out) != 1 || out[0].ID != "m2" {
		t.Errorf("only the first mark is consumed, got %v", out)
	}
	if got := ConsumeMark(nil); len(got) != 0 {
		t.Error("consuming a mark from nothing must degrade gracefully")
	}
}

func TestAggregateQueries(t *testing.T) {
	buffs := []ActiveBuff{
		{Type: BuffStatBoost, Stat: "force", Value: 2},
		{Type: BuffStatBoost, Stat: "force", Value: 1},
		{Type: BuffStatBoost, Stat: "dexterity", Value: 5},
		{Type: BuffDamageBoost, Value: 3},
		{Type: BuffShield, Value: 4},
		{Type: BuffShield, Value: 2},
		{Type: BuffMark, Value: 6},
	}
	if got := StatBonus(buffs, "force"); got != 3 {
		t.Errorf("StatBonus(force) = %d, want 3", got)
	}
	if got := DamageBonus(buffs); got != 3 {
		t.Errorf("DamageBonus = %d, want 3", got)
	}
	if got := ShieldTotal(buffs); got != 6 {
		t.Errorf("ShieldTotal = %d, want 6", got)
	}
	if got := MarkBonus(buffs); got != 6 {
		t.Errorf("MarkBonus = %d, want 6", got)
	}
}
