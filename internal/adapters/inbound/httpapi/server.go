package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chladner/hockeyquant/internal/core/engine"
	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/core/tracking"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// ResultsProvider fetches final scores for grading stored slates.
type ResultsProvider interface {
	FetchResults(ctx context.Context, date string) ([]model.GameResult, error)
}

// Server exposes the prediction engine over HTTP.
//
// Routes:
//
//	GET  /api/predictions/{date}        -> full analyzed slate
//	POST /api/predictions/{date}        -> slate with starting-goalie overrides
//	GET  /api/teams                     -> team directory
//	GET  /api/teams/{abbrev}            -> one team's record, goalies, injuries, form
//	POST /api/accuracy/store/{date}     -> persist the slate's picks for grading
//	POST /api/accuracy/grade/{date}     -> grade a stored date against finals
//	POST /api/accuracy/grade-pending    -> grade every stored-but-ungraded date
//	GET  /api/accuracy/stats            -> hit rates overall and per tier
//	GET  /health                        -> 200 OK
//	GET  /metrics                       -> process counters
type Server struct {
	eng      *engine.Engine
	stats    engine.StatsProvider
	injuries engine.InjuryProvider
	store    *tracking.Store
	results  ResultsProvider
	r        chi.Router
}

func NewServer(eng *engine.Engine, stats engine.StatsProvider, injuries engine.InjuryProvider, store *tracking.Store, results ResultsProvider) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	s := &Server{
		eng:      eng,
		stats:    stats,
		injuries: injuries,
		store:    store,
		results:  results,
		r:        r,
	}

	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)
	r.Route("/api", func(r chi.Router) {
		r.Get("/predictions/{date}", s.GETPredictions)
		r.Post("/predictions/{date}", s.POSTPredictions)
		r.Get("/teams", s.GETTeams)
		r.Get("/teams/{abbrev}", s.GETTeam)
		r.Post("/accuracy/store/{date}", s.POSTStoreSlate)
		r.Post("/accuracy/grade/{date}", s.POSTGradeDate)
		r.Post("/accuracy/grade-pending", s.POSTGradePending)
		r.Get("/accuracy/stats", s.GETAccuracyStats)
	})

	return s
}

// Handler returns the router for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) metrics(w http.ResponseWriter, _ *http.Request) {
	m := &telemetry.Metrics
	writeJSON(w, http.StatusOK, map[string]any{
		"slates_analyzed":      m.SlatesAnalyzed.Value(),
		"games_predicted":      m.GamesPredicted.Value(),
		"games_skipped":        m.GamesSkipped.Value(),
		"upstream_requests":    m.UpstreamRequests.Value(),
		"upstream_errors":      m.UpstreamErrors.Value(),
		"upstream_p50_ms":      m.UpstreamLatency.P50().Milliseconds(),
		"upstream_p99_ms":      m.UpstreamLatency.P99().Milliseconds(),
		"predictions_stored":   m.PredictionsStored.Value(),
		"predictions_graded":   m.PredictionsGraded.Value(),
		"pending_slates":       m.PendingSlates.Value(),
	})
}

// dateParam pulls and validates the {date} route parameter. A false return
// means the 400 has already been written.
func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeErr(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
