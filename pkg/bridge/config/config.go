package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every process-wide setting. It is constructed once at
// startup and passed by reference into each component; nothing reads the
// environment after load.
type Config struct {
	Addr string

	// Model endpoint.
	OpenAIAPIKey string
	Model        string
	Temperature  float64

	// Carrier REST credentials and fixed numbers.
	TwilioAccountSID string
	TwilioAuthToken  string
	BusinessNumber   string
	OwnerAlertNumber string

	// Optional live-transfer target. Empty disables handoff.
	HandoffURL string

	// HTTP server defaults.
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration

	// Relay WebSocket settings.
	WSWriteTimeout time.Duration
	WSPingInterval time.Duration
	MaxFrameBytes  int64

	// Per-turn budget for the model call. Carrier side effects use
	// NotifyTimeout inside the REST client.
	TurnTimeout   time.Duration
	NotifyTimeout time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                ":" + envOr("PORT", "8080"),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:               envOr("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:         envFloat64Or("OPENAI_TEMPERATURE", 0.2),
		TwilioAccountSID:    strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		TwilioAuthToken:     strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		BusinessNumber:      envOr("TWILIO_BUSINESS_NUMBER", "+19014464277"),
		OwnerAlertNumber:    envOr("OWNER_ALERT_NUMBER", "+19012321362"),
		HandoffURL:          strings.TrimSpace(os.Getenv("HANDOFF_URL")),
		ReadHeaderTimeout:   envDurationOr("MSPC_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:         envDurationOr("MSPC_READ_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod: envDurationOr("MSPC_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
		WSWriteTimeout:      envDurationOr("MSPC_WS_WRITE_TIMEOUT", 5*time.Second),
		WSPingInterval:      envDurationOr("MSPC_WS_PING_INTERVAL", 20*time.Second),
		MaxFrameBytes:       envInt64Or("MSPC_MAX_FRAME_BYTES", 64*1024),
		TurnTimeout:         envDurationOr("MSPC_TURN_TIMEOUT", 30*time.Second),
		NotifyTimeout:       envDurationOr("MSPC_NOTIFY_TIMEOUT", 10*time.Second),
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if cfg.TwilioAccountSID == "" {
		return Config{}, fmt.Errorf("TWILIO_ACCOUNT_SID must be set")
	}
	if cfg.TwilioAuthToken == "" {
		return Config{}, fmt.Errorf("TWILIO_AUTH_TOKEN must be set")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return Config{}, fmt.Errorf("OPENAI_MODEL must not be empty")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return Config{}, fmt.Errorf("OPENAI_TEMPERATURE must be in [0, 2]")
	}
	if strings.TrimSpace(cfg.BusinessNumber) == "" {
		return Config{}, fmt.Errorf("TWILIO_BUSINESS_NUMBER must not be empty")
	}
	if strings.TrimSpace(cfg.OwnerAlertNumber) == "" {
		return Config{}, fmt.Errorf("OWNER_ALERT_NUMBER must not be empty")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("MSPC_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("MSPC_READ_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("MSPC_SHUTDOWN_GRACE_PERIOD must be > 0")
	}
	if cfg.WSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("MSPC_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.WSPingInterval <= 0 {
		return Config{}, fmt.Errorf("MSPC_WS_PING_INTERVAL must be > 0")
	}
	if cfg.MaxFrameBytes <= 0 {
		return Config{}, fmt.Errorf("MSPC_MAX_FRAME_BYTES must be > 0")
	}
	if cfg.TurnTimeout <= 0 {
		return Config{}, fmt.Errorf("MSPC_TURN_TIMEOUT must be > 0")
	}
	if cfg.NotifyTimeout <= 0 {
		return Config{}, fmt.Errorf("MSPC_NOTIFY_TIMEOUT must be > 0")
	}

	return cfg, nil
}

// HandoffEnabled reports whether a live-transfer target is configured.
func (c Config) HandoffEnabled() bool {
	return strings.TrimSpace(c.HandoffURL) != ""
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envFloat64Or(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
