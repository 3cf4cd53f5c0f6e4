// Package report renders a battle snapshot into a printable PDF: the board
// with walls and unit footprints, a roster table, and the recent event log.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"tactics/internal/battle"
	"tactics/internal/grid"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	cellSize  = 42.0
	fontSize  = 8
	titleSize = 16
	labelSize = 7
	maxEvents = 18
)

// Generate returns PDF bytes for the given snapshot. Events beyond the most
// recent maxEvents are dropped. A nil grid renders an open board.
func Generate(s battle.Snapshot, g *grid.Grid, events []battle.Event) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetTextColor(30, 30, 30)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageW-2*margin, 16, "Battle Report", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(margin, margin+20)
	pdf.CellFormat(pageW-2*margin, 10, headline(s), "", 0, "L", false, 0, "")

	boardX := float64(margin)
	boardY := float64(margin) + 44
	drawBoard(pdf, boardX, boardY, g)
	for _, u := range s.Units {
		drawUnit(pdf, boardX, boardY, u)
	}

	rosterY := boardY + cellSize*grid.Size + 18
	rosterY = drawRoster(pdf, margin, rosterY, "Player", s.TeamUnits(battle.TeamPlayer))
	rosterY = drawRoster(pdf, margin, rosterY+6, "Enemy", s.TeamUnits(battle.TeamEnemy))

	drawEvents(pdf, margin, rosterY+10, events)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headline(s battle.Snapshot) string {
	if s.GameOver {
		if s.Victory {
			return fmt.Sprintf("Turn %d - VICTORY (%d wins)", s.Turn, s.Wins)
		}
		return fmt.Sprintf("Turn %d - DEFEAT (%d wins)", s.Turn, s.Wins)
	}
	return fmt.Sprintf("Turn %d - %s to act (%d wins, class %s)", s.Turn, s.CurrentTeam, s.Wins, s.PlayerClass)
}

// drawBoard draws the cell lattice with walls as filled squares.
func drawBoard(pdf *gofpdf.Fpdf, x0, y0 float64, g *grid.Grid) {
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.5)
	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			cx := x0 + float64(x)*cellSize
			cy := y0 + float64(y)*cellSize
			if g != nil && g.IsWall(x, y) {
				pdf.SetFillColor(70, 70, 70)
				pdf.Rect(cx, cy, cellSize, cellSize, "FD")
			} else {
				pdf.Rect(cx, cy, cellSize, cellSize, "D")
			}
		}
	}
	// Coordinate labels along the top and left edges.
	pdf.SetFont("Helvetica", "", labelSize)
	pdf.SetTextColor(120, 120, 120)
	for i := 0; i < grid.Size; i++ {
		pdf.SetXY(x0+float64(i)*cellSize, y0-10)
		pdf.CellFormat(cellSize, 8, fmt.Sprintf("%d", i), "", 0, "C", false, 0, "")
		pdf.SetXY(x0-14, y0+float64(i)*cellSize+cellSize/2-4)
		pdf.CellFormat(12, 8, fmt.Sprintf("%d", i), "", 0, "R", false, 0, "")
	}
}

// drawUnit draws a unit's footprint as a colored disc spanning its tiles,
// with its short id and health inside.
func drawUnit(pdf *gofpdf.Fpdf, x0, y0 float64, u battle.Unit) {
	fp := u.Footprint()
	span := cellSize * float64(fp.Size)
	cx := x0 + float64(fp.Origin.X)*cellSize + span/2
	cy := y0 + float64(fp.Origin.Y)*cellSize + span/2

	if u.Team == battle.TeamPlayer {
		pdf.SetFillColor(70, 110, 190)
	} else {
		pdf.SetFillColor(190, 70, 70)
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.2)
	pdf.Circle(cx, cy, span/2-4, "FD")

	pdf.SetFont("Helvetica", "B", labelSize)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(cx-span/2, cy-8)
	pdf.CellFormat(span, 8, shortID(u), "", 0, "C", false, 0, "")
	pdf.SetXY(cx-span/2, cy+1)
	pdf.CellFormat(span, 8, fmt.Sprintf("%d/%d", u.Stats.Health, u.Stats.MaxHealth), "", 0, "C", false, 0, "")
	pdf.SetLineWidth(0.5)
}

func shortID(u battle.Unit) string {
	if u.EnemyType != "" {
		return strings.ToUpper(u.EnemyType[:min(len(u.EnemyType), 6)])
	}
	if len(u.ID) > 6 {
		return strings.ToUpper(u.ID[:6])
	}
	return strings.ToUpper(u.ID)
}

// drawRoster prints one line per unit and returns the next free y.
func drawRoster(pdf *gofpdf.Fpdf, x, y float64, team string, units []battle.Unit) float64 {
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 10, team, "", 0, "L", false, 0, "")
	y += 11
	pdf.SetFont("Helvetica", "", labelSize)
	for _, u := range units {
		line := fmt.Sprintf("%s  (%d,%d)  HP %d/%d  MP %d  AP %d",
			shortID(u), u.Position.X, u.Position.Y,
			u.Stats.Health, u.Stats.MaxHealth,
			u.Stats.MovementPoints, u.Stats.ActionPoints)
		if n := len(u.Buffs); n > 0 {
			line += fmt.Sprintf("  buffs %d", n)
		}
		pdf.SetXY(x+8, y)
		pdf.CellFormat(pageW-2*margin-8, 9, line, "", 0, "L", false, 0, "")
		y += 9
	}
	return y
}

// drawEvents prints the tail of the event log in reverse order, newest first.
func drawEvents(pdf *gofpdf.Fpdf, x, y float64, events []battle.Event) {
	if len(events) == 0 {
		return
	}
	if len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 10, "Recent events", "", 0, "L", false, 0, "")
	y += 11
	pdf.SetFont("Helvetica", "", labelSize)
	for i := len(events) - 1; i >= 0; i-- {
		pdf.SetXY(x+8, y)
		pdf.CellFormat(pageW-2*margin-8, 9, eventLine(events[i]), "", 0, "L", false, 0, "")
		y += 9
		if y > pageH-margin {
			break
		}
	}
}

func eventLine(ev battle.Event) string {
	switch p := ev.Payload.(type) {
	case battle.MovePayload:
		return fmt.Sprintf("%s moved (%d,%d) -> (%d,%d), cost %d", ev.UnitID, p.From.X, p.From.Y, p.To.X, p.To.Y, p.Cost)
	case battle.DamagePayload:
		if p.Absorbed > 0 {
			return fmt.Sprintf("%s took %d %s damage (%d absorbed), now %d hp", ev.UnitID, p.Amount, p.DamageType, p.Absorbed, p.Health)
		}
		return fmt.Sprintf("%s took %d %s damage, now %d hp", ev.UnitID, p.Amount, p.DamageType, p.Health)
	case battle.HealPayload:
		return fmt.Sprintf("%s healed %d, now %d hp", ev.UnitID, p.Amount, p.Health)
	case battle.BuffPayload:
		return fmt.Sprintf("%s %s: %s from %s", ev.UnitID, ev.Kind, p.Buff.Type, p.Buff.SourceSpellID)
	case battle.SpellPayload:
		return fmt.Sprintf("%s cast %s at (%d,%d)", ev.UnitID, p.SpellID, p.Target.X, p.Target.Y)
	case battle.TurnPayload:
		return fmt.Sprintf("turn %d, %s to act", p.Turn, p.Team)
	case battle.GameOverPayload:
		if p.Victory {
			return "battle won"
		}
		return "battle lost"
	default:
		return string(ev.Kind) + " " + ev.UnitID
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
