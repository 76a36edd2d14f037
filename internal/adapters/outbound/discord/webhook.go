package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Enabled() bool { return n.webhookURL != "" }

type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

func (n *Notifier) SendText(ctx context.Context, msg string) error {
	return n.send(ctx, webhookPayload{Content: msg})
}

func (n *Notifier) SendEmbed(ctx context.Context, embed Embed) error {
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return n.send(ctx, webhookPayload{Embeds: []Embed{embed}})
}

func (n *Notifier) send(ctx context.Context, payload webhookPayload) error {
	if !n.Enabled() {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		telemetry.Warnf("discord: rate limited")
		return fmt.Errorf("discord rate limited")
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook: status=%d", resp.StatusCode)
	}

	return nil
}

// --- Convenience methods for common notification types ---

const (
	ColorGreen  = 0x2ECC71
	ColorRed    = 0xE74C3C
	ColorYellow = 0xF1C40F
	ColorBlue   = 0x3498DB
)

// SlatePicks posts the day's picks, one field per game, most confident first.
func (n *Notifier) SlatePicks(ctx context.Context, date string, predictions []model.GamePrediction) error {
	if len(predictions) == 0 {
		return n.SendText(ctx, fmt.Sprintf("No games on %s", date))
	}

	fields := make([]Field, 0, len(predictions))
	for _, p := range predictions {
		fields = append(fields, Field{
			Name:   fmt.Sprintf("%s @ %s", p.Away.Team, p.Home.Team),
			Value:  fmt.Sprintf("%s (%s, +%.1f)", p.Pick, p.Confidence, p.Diff),
			Inline: true,
		})
	}

	return n.SendEmbed(ctx, Embed{
		Title:  fmt.Sprintf("Picks — %s", date),
		Color:  ColorBlue,
		Fields: fields,
	})
}

// GradeSummary posts grading results for one date.
func (n *Notifier) GradeSummary(ctx context.Context, date string, graded, correct int) error {
	color := ColorGreen
	if graded > 0 && correct*2 < graded {
		color = ColorRed
	}
	pct := 0.0
	if graded > 0 {
		pct = float64(correct) / float64(graded) * 100
	}
	return n.SendEmbed(ctx, Embed{
		Title:       fmt.Sprintf("Graded — %s", date),
		Description: fmt.Sprintf("%d/%d correct (%.0f%%)", correct, graded, pct),
		Color:       color,
	})
}

// InjuryUpdate posts teams whose injury lists changed since the last poll.
func (n *Notifier) InjuryUpdate(ctx context.Context, changes map[string][]string) error {
	if len(changes) == 0 {
		return nil
	}
	fields := make([]Field, 0, len(changes))
	for team, players := range changes {
		value := strings.Join(players, ", ")
		if value == "" {
			value = "all cleared"
		}
		fields = append(fields, Field{
			Name:   team,
			Value:  value,
			Inline: false,
		})
	}
	return n.SendEmbed(ctx, Embed{
		Title:  "Injury Report Update",
		Color:  ColorYellow,
		Fields: fields,
	})
}
