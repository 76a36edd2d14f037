package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

const (
	dividerHeavy = "========================================================================"
	dividerLight = "------------------------------------------------------------------------"
)

// PrintSlate writes the analyzed slate for date to w, ranked by score
// differential.
func PrintSlate(w io.Writer, date string, predictions []model.GamePrediction) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", dividerHeavy)
	fmt.Fprintf(&b, "  Slate for %s  (%d games)\n", date, len(predictions))
	fmt.Fprintf(&b, "%s\n", dividerHeavy)

	for i, p := range predictions {
		fmt.Fprintf(&b, "\n%d. %s @ %s\n", i+1, nhl.FullName(p.Away.Team), nhl.FullName(p.Home.Team))
		fmt.Fprintf(&b, "%s\n", dividerLight)
		writeSide(&b, p.Away)
		writeSide(&b, p.Home)
		fmt.Fprintf(&b, "    %-28sPICK %s  (%s, diff %.1f)\n", "", p.Pick, p.Confidence, p.Diff)
		if len(p.Factors) > 0 {
			fmt.Fprintf(&b, "    %-28s%s\n", "Key factors:", strings.Join(p.Factors, "; "))
		}
	}
	fmt.Fprintf(&b, "\n%s\n", dividerHeavy)

	fmt.Fprint(w, b.String())
}

func writeSide(b *strings.Builder, a *model.TeamAnalysis) {
	goalie := "(auto)"
	if a.Goalie != nil {
		goalie = fmt.Sprintf("%s (%.3f sv%%, %.2f GAA)", a.Goalie.Name, a.Goalie.SavePct, a.Goalie.GAA)
	}
	fmt.Fprintf(b, "    %-28s%.1f -> %.1f\n", a.Team+":", a.BaseScore, a.FinalScore)
	fmt.Fprintf(b, "    %-28s%s\n", "  Goalie:", goalie)
	writeMult(b, "Fatigue", a.Fatigue)
	writeMult(b, "Streak", a.Streak)
	writeMult(b, "Special teams", a.SpecialTeams)
	writeMult(b, "Injuries", a.Injury)
	writeMult(b, "Head-to-head", a.HeadToHead)
}

func writeMult(b *strings.Builder, label string, m model.Multiplier) {
	if m.Factor == 1.0 {
		return
	}
	fmt.Fprintf(b, "    %-28sx%.3f  %s\n", "  "+label+":", m.Factor, m.Summary)
}
