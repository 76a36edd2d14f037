package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/chladner/hockeyquant/internal/adapters/outbound/espn"
	"github.com/chladner/hockeyquant/internal/adapters/outbound/moneypuck"
	"github.com/chladner/hockeyquant/internal/adapters/outbound/nhlapi"
	"github.com/chladner/hockeyquant/internal/config"
	"github.com/chladner/hockeyquant/internal/core/display"
	"github.com/chladner/hockeyquant/internal/core/engine"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// One-shot slate analysis: fetch, score, print, exit.
func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "slate date (YYYY-MM-DD)")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	if _, err := time.Parse("2006-01-02", *date); err != nil {
		telemetry.Errorf("Bad date %q: want YYYY-MM-DD", *date)
		os.Exit(1)
	}

	nhlClient := nhlapi.NewClient(cfg.NHLBaseURL, cfg.RequestTimeout)
	stats := moneypuck.NewStore(cfg.MoneyPuckBaseURL, cfg.StatsTTL, cfg.RequestTimeout)
	injuries := espn.NewFeed(cfg.ESPNInjuriesURL, cfg.InjuryTTL, cfg.RequestTimeout)
	eng := engine.New(nhlClient, nhlClient, stats, injuries)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	predictions, err := eng.AnalyzeDate(ctx, *date)
	if err != nil {
		telemetry.Errorf("Slate analysis failed: %v", err)
		os.Exit(1)
	}
	if len(predictions) == 0 {
		telemetry.Infof("No games on %s", *date)
		return
	}

	display.PrintSlate(os.Stdout, *date, predictions)
}
