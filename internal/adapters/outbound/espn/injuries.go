package espn

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Feed scrapes the ESPN NHL injuries page into a per-team list of injured
// skater names. Snapshots are cached on a TTL; a failed scrape keeps
// serving the previous snapshot.
type Feed struct {
	url        string
	httpClient *http.Client
	ttl        time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	snapshot model.InjurySnapshot
}

func NewFeed(url string, ttl, timeout time.Duration) *Feed {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Feed{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		ttl:        ttl,
		now:        time.Now,
	}
}

// Injuries returns the cached injured-player names for a team, in report
// order. An expired snapshot is refreshed in place.
func (f *Feed) Injuries(team string) []string {
	f.mu.RLock()
	snap := f.snapshot
	f.mu.RUnlock()

	if snap.FetchedAt.IsZero() || f.now().Sub(snap.FetchedAt) >= f.ttl {
		ctx, cancel := context.WithTimeout(context.Background(), f.httpClient.Timeout)
		defer cancel()
		if err := f.Refresh(ctx); err != nil {
			telemetry.Warnf("espn: injury refresh failed, using stale snapshot: %v", err)
		}
		f.mu.RLock()
		snap = f.snapshot
		f.mu.RUnlock()
	}

	return snap.Teams[team]
}

// Snapshot returns the whole cached report.
func (f *Feed) Snapshot() model.InjurySnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot
}

// Refresh scrapes the injuries page and replaces the snapshot. The previous
// snapshot survives any error.
func (f *Feed) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	telemetry.Metrics.UpstreamRequests.Inc()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		telemetry.Metrics.UpstreamErrors.Inc()
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		telemetry.Metrics.UpstreamErrors.Inc()
		return fmt.Errorf("GET %s: status %d", f.url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse injuries page: %w", err)
	}

	teams := parseInjuryTables(doc)

	f.mu.Lock()
	f.snapshot = model.InjurySnapshot{Teams: teams, FetchedAt: f.now()}
	f.mu.Unlock()

	telemetry.Infof("espn: injury report covers %d teams", len(teams))
	return nil
}

// parseInjuryTables walks the per-team ResponsiveTable sections. The first
// cell of each row is the player name; goalies are included on purpose.
func parseInjuryTables(doc *goquery.Document) map[string][]string {
	teams := make(map[string][]string)

	doc.Find("div.ResponsiveTable").Each(func(_ int, section *goquery.Selection) {
		teamName := section.Find("span.injuries__teamName").First().Text()
		abbrev := nhl.AbbrevFromName(teamName)
		if abbrev == "" {
			return
		}

		var players []string
		section.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
			name := tr.Find("td").First().Text()
			if name != "" {
				players = append(players, name)
			}
		})

		if len(players) > 0 {
			teams[abbrev] = players
		}
	})

	return teams
}
