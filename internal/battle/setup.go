package battle

import (
	"fmt"

	"github.com/google/uuid"

	"tactics/internal/grid"
)

// Progression is the read-only meta-progression context a battle consumes.
// It is produced and persisted outside the core; the core never mutates it.
type Progression struct {
	Wins        int      `json:"wins"`
	ClassID     string   `json:"classId"`
	BonusIDs    []string `json:"bonusIds,omitempty"`
	ArtifactIDs []string `json:"artifactIds,omitempty"`
}

// DefaultClassID is used when the progression names no class.
const DefaultClassID = "warrior"

// spawnRowOrder spreads spawns from the middle rows outward.
var spawnRowOrder = [...]int{5, 4, 6, 3, 7, 2, 8, 1, 9, 0}

// NewBattle stamps a fresh snapshot: the player's class unit on the left
// edge, the difficulty-scaled enemy roster on the right. The first turn
// belongs to the player.
func NewBattle(lib *Library, prog Progression, g *grid.Grid) (Snapshot, error) {
	classID := prog.ClassID
	if classID == "" {
		classID = DefaultClassID
	}
	class, ok := lib.Classes[classID]
	if !ok {
		return Snapshot{}, fmt.Errorf("unknown class %q", classID)
	}

	stats := class.Stats
	applied := make([]string, 0, len(prog.BonusIDs)+len(prog.ArtifactIDs))
	for _, id := range append(append([]string(nil), prog.BonusIDs...), prog.ArtifactIDs...) {
		def, ok := lib.Bonuses[id]
		if !ok {
			continue
		}
		stats = applyStatBonus(stats, def)
		applied = append(applied, id)
	}

	s := Snapshot{
		Turn:           1,
		CurrentTeam:    TeamPlayer,
		Wins:           prog.Wins,
		AppliedBonuses: applied,
		PlayerClass:    classID,
		Artifacts:      append([]string(nil), prog.ArtifactIDs...),
	}

	player := Unit{
		ID:       uuid.NewString(),
		Team:     TeamPlayer,
		Stats:    stats,
		Size:     class.Size,
		Position: grid.Position{X: 0, Y: spawnRowOrder[0]},
	}
	if len(class.Spells) > 0 {
		player.SpellID = class.Spells[0]
	}
	pos, ok := findSpawn(g, s, player.Size, []int{0, 1})
	if !ok {
		return Snapshot{}, fmt.Errorf("no spawn tile for player on left edge")
	}
	player.Position = pos
	s.Units = append(s.Units, player)

	mods := ModifiersForWins(lib.Tiers, prog.Wins)
	for _, enemyID := range CompositionForWins(lib.Tiers, prog.Wins) {
		tpl, ok := lib.Enemies[enemyID]
		if !ok {
			continue
		}
		enemy := Unit{
			ID:        uuid.NewString(),
			Team:      TeamEnemy,
			EnemyType: enemyID,
			Size:      tpl.Size,
			Stats:     ScaleStats(tpl.Stats, mods),
		}
		if len(tpl.Spells) > 0 {
			enemy.SpellID = tpl.Spells[0]
		}
		// Large footprints anchor one column further in so they fit.
		cols := []int{grid.Size - 1, grid.Size - 2}
		if enemy.Size > 1 {
			cols = []int{grid.Size - enemy.Size, grid.Size - enemy.Size - 1}
		}
		pos, ok := findSpawn(g, s, enemy.Size, cols)
		if !ok {
			continue // board too crowded; fight fewer enemies
		}
		enemy.Position = pos
		s.Units = append(s.Units, enemy)
	}
	if len(s.TeamUnits(TeamEnemy)) == 0 {
		return Snapshot{}, fmt.Errorf("no enemy could be placed")
	}
	return s, nil
}

// findSpawn returns the first free origin in the given columns, scanning rows
// middle-out, where the whole footprint fits.
func findSpawn(g *grid.Grid, s Snapshot, size int, cols []int) (grid.Position, bool) {
	if size < 1 {
		size = 1
	}
	occupied := s.OccupiedBy("")
	for _, y := range spawnRowOrder {
		for _, x := range cols {
			p := grid.Position{X: x, Y: y}
			if g.CanFit(p, size, occupied) {
				return p, true
			}
		}
	}
	return grid.Position{}, false
}
