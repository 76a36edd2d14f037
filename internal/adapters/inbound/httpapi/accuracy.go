package httpapi

import (
	"net/http"
	"strings"

	"github.com/chladner/hockeyquant/internal/core/tracking"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// POSTStoreSlate analyzes the slate for a date and persists its picks.
// Re-posting a date already stored is a no-op.
func (s *Server) POSTStoreSlate(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	preds, err := s.eng.AnalyzeDate(r.Context(), date)
	if err != nil {
		telemetry.Warnf("api: slate %s failed: %v", date, err)
		writeErr(w, http.StatusBadGateway, "slate analysis failed")
		return
	}
	if len(preds) == 0 {
		writeErr(w, http.StatusNotFound, "no games on "+date)
		return
	}

	stored, err := s.store.StoreSlate(date, preds)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "stored": stored})
}

// POSTGradeDate grades a stored date against final scores.
func (s *Server) POSTGradeDate(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	results, err := s.results.FetchResults(r.Context(), date)
	if err != nil {
		telemetry.Warnf("api: results %s failed: %v", date, err)
		writeErr(w, http.StatusBadGateway, "results fetch failed")
		return
	}

	graded, err := s.store.GradeDate(date, results)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "graded": graded})
}

// POSTGradePending grades every stored date that still has ungraded picks.
func (s *Server) POSTGradePending(w http.ResponseWriter, r *http.Request) {
	dates, err := s.store.PendingDates()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	graded := 0
	for _, date := range dates {
		results, err := s.results.FetchResults(r.Context(), date)
		if err != nil {
			telemetry.Warnf("api: results %s failed: %v", date, err)
			continue
		}
		n, err := s.store.GradeDate(date, results)
		if err != nil {
			telemetry.Warnf("api: grading %s failed: %v", date, err)
			continue
		}
		graded += n
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": len(dates), "graded": graded})
}

// GETAccuracyStats reports hit rates, optionally filtered by date range,
// picked team, or confidence tier.
func (s *Server) GETAccuracyStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := tracking.Filter{
		StartDate:  q.Get("start"),
		EndDate:    q.Get("end"),
		Pick:       strings.ToUpper(q.Get("team")),
		Confidence: strings.ToUpper(q.Get("confidence")),
	}

	stats, recent, err := s.store.Stats(f)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats, "recent": recent})
}
