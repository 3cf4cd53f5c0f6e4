package web

import (
	"net/http"

	"tactics/internal/grid"
	"tactics/internal/report"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := s.loadRecord(r.Context(), w, r)
	if !ok {
		return
	}
	pdf, err := report.Generate(rec.Battle, grid.NewWithWalls(rec.Walls...), rec.Events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="battle-report.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
