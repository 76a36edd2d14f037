package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chladner/hockeyquant/internal/adapters/inbound/httpapi"
	"github.com/chladner/hockeyquant/internal/adapters/outbound/discord"
	"github.com/chladner/hockeyquant/internal/adapters/outbound/espn"
	"github.com/chladner/hockeyquant/internal/adapters/outbound/moneypuck"
	"github.com/chladner/hockeyquant/internal/adapters/outbound/nhlapi"
	"github.com/chladner/hockeyquant/internal/config"
	"github.com/chladner/hockeyquant/internal/core/engine"
	"github.com/chladner/hockeyquant/internal/core/tracking"
	"github.com/chladner/hockeyquant/internal/scheduler"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting hockeyquant server")

	// ── Upstream providers ─────────────────────────────────────
	nhlClient := nhlapi.NewClient(cfg.NHLBaseURL, cfg.RequestTimeout)
	stats := moneypuck.NewStore(cfg.MoneyPuckBaseURL, cfg.StatsTTL, cfg.RequestTimeout)
	injuries := espn.NewFeed(cfg.ESPNInjuriesURL, cfg.InjuryTTL, cfg.RequestTimeout)

	// ── Engine & prediction store ──────────────────────────────
	eng := engine.New(nhlClient, nhlClient, stats, injuries)

	store, err := tracking.Open(cfg.DBPath)
	if err != nil {
		telemetry.Errorf("Prediction store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// ── Scheduler ──────────────────────────────────────────────
	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		telemetry.Errorf("Tuning: %v", err)
		os.Exit(1)
	}

	notify := discord.NewNotifier(cfg.DiscordWebhookURL)
	if notify.Enabled() {
		telemetry.Infof("Discord notifications enabled")
	}

	if cfg.SchedulerEnabled {
		sched, err := scheduler.New(eng, store, nhlClient, injuries, notify, tuning.Scheduler, cfg.Timezone)
		if err != nil {
			telemetry.Errorf("Scheduler: %v", err)
			os.Exit(1)
		}
		if err := sched.Start(); err != nil {
			telemetry.Errorf("Scheduler start: %v", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	// ── HTTP API ───────────────────────────────────────────────
	api := httpapi.NewServer(eng, stats, injuries, store, nhlClient)
	addr := fmt.Sprintf("%s:%d", cfg.ListenHost, cfg.ListenPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.Handler(),
	}

	go func() {
		telemetry.Infof("API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Errorf("HTTP server: %v", err)
			os.Exit(1)
		}
	}()

	// ── Shutdown ───────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	telemetry.Infof("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Warnf("HTTP shutdown: %v", err)
	}
	telemetry.Infof("Shutdown complete")
}
