package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP API
	ListenHost string
	ListenPort int

	// Upstream endpoints
	NHLBaseURL       string
	MoneyPuckBaseURL string
	ESPNInjuriesURL  string

	// Data freshness
	StatsTTL  time.Duration
	InjuryTTL time.Duration

	// Upstream request timeout
	RequestTimeout time.Duration

	// Prediction store
	DBPath string

	// Tuning overlay (optional YAML)
	TuningPath string

	// Scheduler
	SchedulerEnabled bool
	Timezone         string

	// Optional Discord webhook for slate and grading notifications
	DiscordWebhookURL string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenHost: envStr("HQ_LISTEN_HOST", "0.0.0.0"),
		ListenPort: envInt("HQ_LISTEN_PORT", 8090),

		NHLBaseURL:       envStr("HQ_NHL_BASE_URL", "https://api-web.nhle.com/v1"),
		MoneyPuckBaseURL: envStr("HQ_MONEYPUCK_BASE_URL", "https://moneypuck.com/moneypuck/playerData/seasonSummary"),
		ESPNInjuriesURL:  envStr("HQ_ESPN_INJURIES_URL", "https://www.espn.com/nhl/injuries"),

		// Season tables refresh hourly; injuries are slower-moving.
		StatsTTL:  time.Duration(envInt("HQ_STATS_TTL_MIN", 60)) * time.Minute,
		InjuryTTL: time.Duration(envInt("HQ_INJURY_TTL_MIN", 120)) * time.Minute,

		RequestTimeout: time.Duration(envInt("HQ_REQUEST_TIMEOUT_SEC", 10)) * time.Second,

		DBPath: envStr("HQ_DB_PATH", "data/predictions.db"),

		TuningPath: envStr("HQ_TUNING_PATH", ""),

		SchedulerEnabled: envStr("HQ_SCHEDULER_ENABLED", "true") == "true",
		Timezone:         envStr("HQ_TIMEZONE", "America/New_York"),

		DiscordWebhookURL: envStr("HQ_DISCORD_WEBHOOK_URL", ""),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
