package config

import (
	"strings"
	"testing"
	"time"
)

var bridgeEnvKeys = []string{
	"PORT",
	"OPENAI_API_KEY",
	"OPENAI_MODEL",
	"OPENAI_TEMPERATURE",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"TWILIO_BUSINESS_NUMBER",
	"OWNER_ALERT_NUMBER",
	"HANDOFF_URL",
	"MSPC_READ_HEADER_TIMEOUT",
	"MSPC_READ_TIMEOUT",
	"MSPC_SHUTDOWN_GRACE_PERIOD",
	"MSPC_WS_WRITE_TIMEOUT",
	"MSPC_WS_PING_INTERVAL",
	"MSPC_MAX_FRAME_BYTES",
	"MSPC_TURN_TIMEOUT",
	"MSPC_NOTIFY_TIMEOUT",
}

func clearBridgeEnv(t *testing.T) {
	t.Helper()
	for _, key := range bridgeEnvKeys {
		t.Setenv(key, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC0123456789")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearBridgeEnv(t)
	setRequired(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("model=%q", cfg.Model)
	}
	if cfg.Temperature != 0.2 {
		t.Fatalf("temperature=%v", cfg.Temperature)
	}
	if cfg.BusinessNumber != "+19014464277" {
		t.Fatalf("business number=%q", cfg.BusinessNumber)
	}
	if cfg.OwnerAlertNumber != "+19012321362" {
		t.Fatalf("owner number=%q", cfg.OwnerAlertNumber)
	}
	if cfg.HandoffEnabled() {
		t.Fatal("handoff should be disabled by default")
	}
	if cfg.TurnTimeout != 30*time.Second {
		t.Fatalf("turn timeout=%v", cfg.TurnTimeout)
	}
	if cfg.MaxFrameBytes != 64*1024 {
		t.Fatalf("max frame bytes=%d", cfg.MaxFrameBytes)
	}
}

func TestLoadFromEnv_MissingModelKey(t *testing.T) {
	clearBridgeEnv(t)
	t.Setenv("TWILIO_ACCOUNT_SID", "AC0123456789")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("err=%v", err)
	}
}

func TestLoadFromEnv_MissingTwilioCredentials(t *testing.T) {
	clearBridgeEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "TWILIO_ACCOUNT_SID") {
		t.Fatalf("err=%v", err)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearBridgeEnv(t)
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_TEMPERATURE", "0.5")
	t.Setenv("HANDOFF_URL", "https://handler.twil.io/forward")
	t.Setenv("MSPC_TURN_TIMEOUT", "12s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("model=%q", cfg.Model)
	}
	if cfg.Temperature != 0.5 {
		t.Fatalf("temperature=%v", cfg.Temperature)
	}
	if !cfg.HandoffEnabled() {
		t.Fatal("handoff should be enabled")
	}
	if cfg.TurnTimeout != 12*time.Second {
		t.Fatalf("turn timeout=%v", cfg.TurnTimeout)
	}
}

func TestLoadFromEnv_InvalidTemperature(t *testing.T) {
	clearBridgeEnv(t)
	setRequired(t)
	t.Setenv("OPENAI_TEMPERATURE", "3.5")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromEnv_UnparseableDurationFallsBack(t *testing.T) {
	clearBridgeEnv(t)
	setRequired(t)
	t.Setenv("MSPC_TURN_TIMEOUT", "soon")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.TurnTimeout != 30*time.Second {
		t.Fatalf("turn timeout=%v", cfg.TurnTimeout)
	}
}
