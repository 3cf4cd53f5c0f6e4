package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tactics/internal/battle"
	"tactics/internal/grid"
)

type moveRequest struct {
	UnitID string `json:"unitId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type castRequest struct {
	UnitID  string `json:"unitId"`
	SpellID string `json:"spellId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := s.loadRecord(r.Context(), w, r)
	if !ok {
		return
	}
	unitID := r.URL.Query().Get("unit")
	if unitID == "" {
		writeError(w, http.StatusBadRequest, "missing unit parameter")
		return
	}
	moves := s.engineFor(rec).LegalMoves(rec.Battle, unitID)
	if moves == nil {
		moves = []grid.Position{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"moves": moves})
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := s.loadRecord(r.Context(), w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	unitID := q.Get("unit")
	spellID := q.Get("spell")
	u, found := rec.Battle.UnitByID(unitID)
	if !found {
		writeError(w, http.StatusBadRequest, "unknown unit")
		return
	}
	spell, found := s.Lib.Spells[spellID]
	if !found {
		writeError(w, http.StatusBadRequest, "unknown spell")
		return
	}
	target := u.Position
	if !spell.SelfTarget {
		x, errX := strconv.Atoi(q.Get("x"))
		y, errY := strconv.Atoi(q.Get("y"))
		if errX != nil || errY != nil {
			writeError(w, http.StatusBadRequest, "bad x/y coordinates")
			return
		}
		target = grid.Position{X: x, Y: y}
	}

	e := s.engineFor(rec)
	tiles := e.SpellTiles(u, spell, target)
	if tiles == nil {
		tiles = []grid.Position{}
	}
	// Preview the expected damage per covered unit so the UI can show it
	// before committing.
	type preview struct {
		UnitID string `json:"unitId"`
		Damage int    `json:"damage"`
	}
	previews := []preview{}
	if spell.Damage > 0 {
		covered := map[grid.Position]bool{}
		for _, t := range tiles {
			covered[t] = true
		}
		for _, victim := range rec.Battle.Units {
			if victim.ID == u.ID || !victim.Alive() {
				continue
			}
			for _, t := range victim.Footprint().Tiles() {
				if covered[t] {
					previews = append(previews, preview{
						UnitID: victim.ID,
						Damage: battle.PreviewDamage(u, victim, spell),
					})
					break
				}
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiles": tiles, "previews": previews})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, id, ok := s.loadRecord(ctx, w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	e := s.engineFor(rec)
	next, events, err := e.Move(rec.Battle, req.UnitID, grid.Position{X: req.X, Y: req.Y})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	next, events = s.autoAdvance(e, next, events)
	rec.Battle = next
	if err := s.saveAndNotify(ctx, id, rec, events); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Battle: next, Walls: rec.Walls, Events: events})
}

func (s *Server) handleCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, id, ok := s.loadRecord(ctx, w, r)
	if !ok {
		return
	}
	var req castRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	e := s.engineFor(rec)
	next, events, err := e.Cast(rec.Battle, req.UnitID, req.SpellID, grid.Position{X: req.X, Y: req.Y})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	next, events = s.autoAdvance(e, next, events)
	rec.Battle = next
	if err := s.saveAndNotify(ctx, id, rec, events); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Battle: next, Walls: rec.Walls, Events: events})
}

// autoAdvance runs the enemy phase as soon as every player unit has spent
// both pools, so a client does not have to send an explicit end-turn.
func (s *Server) autoAdvance(e *battle.Engine, snap battle.Snapshot, events []battle.Event) (battle.Snapshot, []battle.Event) {
	if snap.GameOver || snap.CurrentTeam != battle.TeamPlayer {
		return snap, events
	}
	for _, u := range snap.TeamUnits(battle.TeamPlayer) {
		if !battle.PoolsExhausted(u) {
			return snap, events
		}
	}
	next, ev := e.EndTurn(snap)
	events = append(events, ev...)
	if !next.GameOver && next.CurrentTeam == battle.TeamEnemy {
		next, ev = e.EnemyPhase(next)
		events = append(events, ev...)
	}
	return next, events
}

// handleEndTurn hands control to the enemy team, runs its whole phase, and
// returns the board with control already back in the player's hands.
func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, id, ok := s.loadRecord(ctx, w, r)
	if !ok {
		return
	}
	if rec.Battle.CurrentTeam != battle.TeamPlayer {
		writeError(w, http.StatusUnprocessableEntity, "not the player turn")
		return
	}
	e := s.engineFor(rec)
	next, events := e.EndTurn(rec.Battle)
	if !next.GameOver && next.CurrentTeam == battle.TeamEnemy {
		var phaseEvents []battle.Event
		next, phaseEvents = e.EnemyPhase(next)
		events = append(events, phaseEvents...)
	}
	rec.Battle = next
	if err := s.saveAndNotify(ctx, id, rec, events); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Battle: next, Walls: rec.Walls, Events: events})
}
