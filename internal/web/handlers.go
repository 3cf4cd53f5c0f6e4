// Package web exposes the battle engine as a JSON API with a cookie-bound
// session per player, plus a PDF report and a websocket event feed.
package web

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"tactics/internal/battle"
	"tactics/internal/grid"
	"tactics/internal/session"
)

// Record is everything one player's battle needs to be replayed or resumed:
// the seed and step counter pin the damage rolls, the wall list pins the
// board.
type Record struct {
	Seed        int64              `json:"seed"`
	Steps       int64              `json:"steps"`
	Walls       []grid.Position    `json:"walls"`
	Progression battle.Progression `json:"progression"`
	Battle      battle.Snapshot    `json:"battle"`
	Events      []battle.Event     `json:"events"`
}

type Server struct {
	Lib   *battle.Library
	Store session.Store[Record]
	Hub   *Hub
}

const cookieName = "tactics_sid"

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /battle/new", s.handleNew)
	mux.HandleFunc("GET /battle/state", s.handleState)
	mux.HandleFunc("GET /battle/moves", s.handleMoves)
	mux.HandleFunc("GET /battle/targets", s.handleTargets)
	mux.HandleFunc("POST /battle/move", s.handleMove)
	mux.HandleFunc("POST /battle/cast", s.handleCast)
	mux.HandleFunc("POST /battle/end-turn", s.handleEndTurn)
	mux.HandleFunc("POST /battle/abandon", s.handleAbandon)
	mux.HandleFunc("GET /battle/report", s.handleReport)
	mux.HandleFunc("GET /battle/watch", s.handleWatch)
	return mux
}

// engineFor rebuilds the deterministic engine for a record. The random source
// is re-seeded per step so a replayed action rolls the same damage.
func (s *Server) engineFor(rec Record) *battle.Engine {
	g := grid.NewWithWalls(rec.Walls...)
	rng := rand.New(rand.NewSource(rec.Seed + rec.Steps))
	return battle.NewEngine(g, s.Lib, rng)
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ensureSession returns the session id, minting a cookie when absent.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := s.sessionID(r); id != "" {
		return id
	}
	id := s.Store.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// loadRecord fetches the caller's battle, writing the error response itself
// when there is none.
func (s *Server) loadRecord(ctx context.Context, w http.ResponseWriter, r *http.Request) (Record, string, bool) {
	id := s.sessionID(r)
	if id == "" {
		writeError(w, http.StatusNotFound, "no battle in progress")
		return Record{}, "", false
	}
	rec, ok, err := s.Store.Get(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return Record{}, "", false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no battle in progress")
		return Record{}, "", false
	}
	return rec, id, true
}

// saveAndNotify persists the advanced record and pushes its new events to any
// websocket watchers.
func (s *Server) saveAndNotify(ctx context.Context, id string, rec Record, events []battle.Event) error {
	rec.Steps++
	rec.Events = append(rec.Events, events...)
	if err := s.Store.Put(ctx, id, rec); err != nil {
		return err
	}
	if s.Hub != nil {
		s.Hub.Broadcast(id, events)
	}
	return nil
}

type newBattleRequest struct {
	ClassID     string   `json:"classId"`
	Wins        int      `json:"wins"`
	BonusIDs    []string `json:"bonusIds,omitempty"`
	ArtifactIDs []string `json:"artifactIds,omitempty"`
	Seed        int64    `json:"seed,omitempty"`
}

type stateResponse struct {
	Battle battle.Snapshot `json:"battle"`
	Walls  []grid.Position `json:"walls"`
	Events []battle.Event  `json:"events,omitempty"`
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req newBattleRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request body")
			return
		}
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	g := grid.Generate(rng)

	prog := battle.Progression{
		Wins:        req.Wins,
		ClassID:     req.ClassID,
		BonusIDs:    req.BonusIDs,
		ArtifactIDs: req.ArtifactIDs,
	}
	snap, err := battle.NewBattle(s.Lib, prog, g)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.ensureSession(w, r)
	rec := Record{
		Seed:        seed,
		Walls:       g.Walls(),
		Progression: prog,
		Battle:      snap,
	}
	if err := s.Store.Put(ctx, id, rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stateResponse{Battle: snap, Walls: rec.Walls})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := s.loadRecord(r.Context(), w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Battle: rec.Battle, Walls: rec.Walls})
}

// handleAbandon forfeits the current battle and drops its record; a new
// battle can be started on the same session afterwards.
func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, id, ok := s.loadRecord(ctx, w, r)
	if !ok {
		return
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
