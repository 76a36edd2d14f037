package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chladner/hockeyquant/internal/core/engine"
	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

// TeamSummary is one directory row.
type TeamSummary struct {
	Abbrev     string `json:"abbrev"`
	Name       string `json:"name"`
	Division   string `json:"division"`
	Conference string `json:"conference"`
}

// TeamDetail is the full current-season view of one team.
type TeamDetail struct {
	TeamSummary
	Record       *model.TeamSeasonRecord `json:"record,omitempty"`
	Starter      *model.GoalieProfile    `json:"starter,omitempty"`
	Backup       *model.GoalieProfile    `json:"backup,omitempty"`
	StarterScore float64                 `json:"starter_score"`
	Injuries     []string                `json:"injuries"`
	RecentForm   string                  `json:"recent_form"`
	LastTen      []model.GameLogEntry    `json:"last_ten"`
}

// GETTeams lists every team with its division and conference.
func (s *Server) GETTeams(w http.ResponseWriter, _ *http.Request) {
	teams := nhl.AllTeams()
	out := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, summarize(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// GETTeam returns one team's season record, goaltending, injury list, and
// recent form.
func (s *Server) GETTeam(w http.ResponseWriter, r *http.Request) {
	abbrev := strings.ToUpper(chi.URLParam(r, "abbrev"))
	if _, ok := nhl.DivisionOf(abbrev); !ok {
		writeErr(w, http.StatusNotFound, "unknown team "+abbrev)
		return
	}

	detail := TeamDetail{
		TeamSummary: summarize(abbrev),
		Injuries:    s.injuries.Injuries(abbrev),
	}

	standings := s.eng.Cache().Standings(r.Context())
	for i := range standings {
		if standings[i].Team == abbrev {
			rec := standings[i]
			if splits, ok := s.stats.TeamSplits(abbrev); ok && splits.GamesPlayed > 0 {
				rec.XGoalsFor = splits.XGoalsFor
				rec.XGoalsAgainst = splits.XGoalsAgainst
			}
			detail.Record = &rec
			break
		}
	}

	detail.Starter = s.eng.Starter(abbrev, "")
	detail.Backup = s.eng.Backup(abbrev)
	detail.StarterScore = engine.GoalieScore(detail.Starter)

	last := s.eng.LastTen(r.Context(), abbrev)
	detail.LastTen = last
	detail.RecentForm = formString(last)

	writeJSON(w, http.StatusOK, detail)
}

func summarize(abbrev string) TeamSummary {
	div, _ := nhl.DivisionOf(abbrev)
	conf, _ := nhl.ConferenceOf(abbrev)
	return TeamSummary{
		Abbrev:     abbrev,
		Name:       nhl.FullName(abbrev),
		Division:   string(div),
		Conference: string(conf),
	}
}

func formString(games []model.GameLogEntry) string {
	if len(games) == 0 {
		return ""
	}
	var w, l, otl int
	for _, g := range games {
		switch g.Result {
		case model.ResultWin:
			w++
		case model.ResultOTLoss:
			otl++
		default:
			l++
		}
	}
	return fmt.Sprintf("%d-%d-%d last %d", w, l, otl, len(games))
}
