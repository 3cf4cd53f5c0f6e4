package battle

import (
	"testing"

	"tactics/internal/grid"
)

func testUnit(id string, team Team, pos grid.Position) Unit {
	return Unit{
		ID:       id,
		Team:     team,
		Position: pos,
		Stats: Stats{
			Health: 20, MaxHealth: 20, Force: 4, Dexterity: 3, Armor: 2,
			MagicResistance: 1, MoveRange: 3, AttackRange: 1,
			MovementPoints: 3, MaxMovementPoints: 3,
			ActionPoints: 2, MaxActionPoints: 2,
		},
	}
}

func testSnapshot() Snapshot {
	return Snapshot{
		Turn:        1,
		CurrentTeam: TeamPlayer,
		Units: []Unit{
			testUnit("p1", TeamPlayer, grid.Position{X: 0, Y: 5}),
			testUnit("e1", TeamEnemy, grid.Position{X: 9, Y: 5}),
			testUnit("e2", TeamEnemy, grid.Position{X: 9, Y: 3}),
		},
	}
}

func TestApplyDamage_Resistance(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})

	hit := ApplyDamage(u, 10, DamagePhysical)
	if hit.Stats.Health != 12 { // 10 - 2 armor = 8
		t.Errorf("expected health 12 after armored hit, got %d", hit.Stats.Health)
	}
	magic := ApplyDamage(u, 10, DamageMagic)
	if magic.Stats.Health != 11 { // 10 - 1 MR = 9
		t.Errorf("expected health 11 after magic hit, got %d", magic.Stats.Health)
	}
}

func TestApplyDamage_AlwaysAtLeastOne(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	u.Stats.Armor = 50
	hit := ApplyDamage(u, 1, DamagePhysical)
	if hit.Stats.Health != 19 {
		t.Errorf("expected 1 damage through heavy armor, got health %d", hit.Stats.Health)
	}
}

func TestApplyDamage_ClampsAtZeroAndIgnoresNonPositive(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	dead := ApplyDamage(u, 100, DamagePhysical)
	if dead.Stats.Health != 0 {
		t.Errorf("expected health clamped at 0, got %d", dead.Stats.Health)
	}
	same := ApplyDamage(u, 0, DamagePhysical)
	if same.Stats.Health != 20 {
		t.Errorf("zero damage must be a no-op, got health %d", same.Stats.Health)
	}
}

func TestApplyDamage_DoesNotMutateInput(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	u.Buffs = []ActiveBuff{{ID: "b", Type: BuffShield, Value: 5}}
	_ = ApplyDamage(u, 10, DamagePhysical)
	if u.Stats.Health != 20 {
		t.Error("input unit was mutated")
	}
}

func TestApplyHealing(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	u.Stats.Health = 10
	healed := ApplyHealing(u, 5)
	if healed.Stats.Health != 15 {
		t.Errorf("expected health 15, got %d", healed.Stats.Health)
	}
	full := ApplyHealing(healed, 100)
	if full.Stats.Health != 20 {
		t.Errorf("healing must clamp at max health, got %d", full.Stats.Health)
	}
}

func TestConsumePoints(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	spent := ConsumeMovementPoints(u, 2)
	if spent.Stats.MovementPoints != 1 {
		t.Errorf("expected 1 movement point left, got %d", spent.Stats.MovementPoints)
	}
	floor := ConsumeMovementPoints(spent, 10)
	if floor.Stats.MovementPoints != 0 {
		t.Errorf("movement points must clamp at 0, got %d", floor.Stats.MovementPoints)
	}

	noPool := u
	noPool.Stats.MaxActionPoints = 0
	noPool.Stats.ActionPoints = 0
	if got := ConsumeActionPoints(noPool, 1); got.Stats.ActionPoints != 0 {
		t.Error("consuming from a missing pool must be a no-op")
	}
}

func TestResetTurnState(t *testing.T) {
	u := testUnit("u", TeamPlayer, grid.Position{})
	u.Stats.MovementPoints = 0
	u.Stats.ActionPoints = 0
	u.HasActed = true
	u.HasMoved = true
	reset := ResetTurnState(u)
	if reset.Stats.MovementPoints != 3 || reset.Stats.ActionPoints != 2 {
		t.Errorf("pools not restored: %+v", reset.Stats)
	}
	if reset.HasActed || reset.HasMoved {
		t.Error("flags not cleared")
	}
}

func TestMoveUnit(t *testing.T) {
	s := testSnapshot()
	moved := MoveUnit(s, "p1", grid.Position{X: 2, Y: 5})
	u, _ := moved.UnitByID("p1")
	if u.Position != (grid.Position{X: 2, Y: 5}) {
		t.Errorf("expected new position, got %v", u.Position)
	}
	if !u.HasMoved {
		t.Error("moved unit must be flagged")
	}
	// Original snapshot untouched.
	orig, _ := s.UnitByID("p1")
	if orig.Position != (grid.Position{X: 0, Y: 5}) {
		t.Error("source snapshot was mutated")
	}
}

func TestMoveUnit_FrozenAfterGameOver(t *testing.T) {
	s := testSnapshot()
	s.GameOver = true
	moved := MoveUnit(s, "p1", grid.Position{X: 2, Y: 5})
	u, _ := moved.UnitByID("p1")
	if u.Position != (grid.Position{X: 0, Y: 5}) {
		t.Error("game-over snapshot must be frozen")
	}
}

func TestCheckVictoryConditions(t *testing.T) {
	s := testSnapshot()
	if got := CheckVictoryConditions(s); got.GameOver {
		t.Error("both teams alive must not end the battle")
	}

	defeat := s.clone()
	for i := range defeat.Units {
		if defeat.Units[i].Team == TeamPlayer {
			defeat.Units[i].Stats.Health = 0
		}
	}
	got := CheckVictoryConditions(defeat)
	if !got.GameOver || got.Victory {
		t.Errorf("dead player team must mean defeat, got over=%v victory=%v", got.GameOver, got.Victory)
	}

	victory := s.clone()
	for i := range victory.Units {
		if victory.Units[i].Team == TeamEnemy {
			victory.Units[i].Stats.Health = 0
		}
	}
	got = CheckVictoryConditions(victory)
	if !got.GameOver || !got.Victory {
		t.Errorf("dead enemy team must mean victory, got over=%v victory=%v", got.GameOver, got.Victory)
	}
}

func TestCheckVictoryConditions_Terminal(t *testing.T) {
	s := testSnapshot()
	s.GameOver = true
	s.Victory = true
	// Even with every unit dead, a latched outcome never flips.
	for i := range s.Units {
		s.Units[i].Stats.Health = 0
	}
	got := CheckVictoryConditions(s)
	if !got.Victory {
		t.Error("latched outcome must not change")
	}
}

func TestStartTurn(t *testing.T) {
	s := testSnapshot()
	for i := range s.Units {
		s.Units[i].HasActed = true
		s.Units[i].Stats.MovementPoints = 0
	}
	started := StartTurn(s, TeamEnemy)
	if started.Turn != 1 {
		t.Errorf("starting the enemy turn must not increment the counter, got %d", started.Turn)
	}
	if started.CurrentTeam != TeamEnemy {
		t.Errorf("expected enemy team active, got %s", started.CurrentTeam)
	}
	for _, u := range started.Units {
		switch u.Team {
		case TeamEnemy:
			if u.HasActed || u.Stats.MovementPoints != 3 {
				t.Errorf("enemy unit %s not reset", u.ID)
			}
		case TeamPlayer:
			if !u.HasActed {
				t.Errorf("player unit %s must be untouched", u.ID)
			}
		}
	}

	back := StartTurn(started, TeamPlayer)
	if back.Turn != 2 {
		t.Errorf("starting the player turn must increment the counter, got %d", back.Turn)
	}
}

func TestPruneDead(t *testing.T) {
	s := testSnapshot()
	s.Units[1].Stats.Health = 0
	pruned := PruneDead(s)
	if len(pruned.Units) != 2 {
		t.Errorf("expected 2 units after pruning, got %d", len(pruned.Units))
	}
	if _, ok := pruned.UnitByID("e1"); ok {
		t.Error("dead unit still on the roster")
	}
}

func TestOccupiedBy_FootprintsAndExclusion(t *testing.T) {
	s := testSnapshot()
	s.Units[1].Size = 2 // e1 covers (9,5)..(10,6), clipped by the board
	occupied := s.OccupiedBy("")
	if !occupied(grid.Position{X: 9, Y: 6}) {
		t.Error("footprint tile must be occupied")
	}
	excluding := s.OccupiedBy("e1")
	if excluding(grid.Position{X: 9, Y: 5}) {
		t.Error("excluded unit's tiles must read unoccupied")
	}
	if !excluding(grid.Position{X: 0, Y: 5}) {
		t.Error("other units stay occupied")
	}
}
