package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// SlateResponse is the analyzed slate for one date, ranked by score
// differential.
type SlateResponse struct {
	Date        string                 `json:"date"`
	Games       int                    `json:"games"`
	Predictions []model.GamePrediction `json:"predictions"`
}

// OverridesRequest names a starting goalie per team, keyed by abbreviation.
type OverridesRequest struct {
	GoalieOverrides map[string]string `json:"goalie_overrides"`
}

// GETPredictions analyzes the full slate for a date.
func (s *Server) GETPredictions(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, SlateResponse{Date: date, Games: len(preds), Predictions: preds})
}

// POSTPredictions re-analyzes a slate with starting-goalie overrides. The
// run cache stays warm, so only the analysis recomputes.
func (s *Server) POSTPredictions(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var req OverridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	preds, err := s.eng.AnalyzeDateWithOverrides(r.Context(), date, req.GoalieOverrides)
	if err != nil {
		telemetry.Warnf("api: slate %s (overrides) failed: %v", date, err)
		writeErr(w, http.StatusBadGateway, "slate analysis failed")
		return
	}
	if len(preds) == 0 {
		writeErr(w, http.StatusNotFound, "no games on "+date)
		return
	}

	writeJSON(w, http.StatusOK, SlateResponse{Date: date, Games: len(preds), Predictions: preds})
}
