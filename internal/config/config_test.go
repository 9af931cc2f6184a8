package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REPLY_DELAY", "VOICE_TIMEOUT", "STORE", "REDIS_DB", "SESSION_TTL", "DB_TYPE", "RATE_LIMIT", "RATE_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Dialogue.ReplyDelay != 800*time.Millisecond {
		t.Fatalf("unexpected reply delay %s", cfg.Dialogue.ReplyDelay)
	}
	if cfg.Dialogue.VoiceTimeout != 2*time.Second {
		t.Fatalf("unexpected voice timeout %s", cfg.Dialogue.VoiceTimeout)
	}
	if cfg.Store.Kind != "memory" {
		t.Fatalf("unexpected store %q", cfg.Store.Kind)
	}
	if cfg.Database.Type != "sqlite" {
		t.Fatalf("unexpected db type %q", cfg.Database.Type)
	}
	if !cfg.RateLimit.Enabled() {
		t.Fatal("expected rate limit enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9090")
	t.Setenv("REPLY_DELAY", "0s")
	t.Setenv("STORE", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Dialogue.ReplyDelay != 0 {
		t.Fatalf("expected zero reply delay, got %s", cfg.Dialogue.ReplyDelay)
	}
	if cfg.Store.Kind != "redis" || cfg.Store.RedisDB != 3 {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.RateLimit.Enabled() {
		t.Fatal("expected rate limit disabled")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":        "80 80",
		"REPLY_DELAY": "soon",
		"STORE":       "mongo",
		"REDIS_DB":    "x",
		"RATE_BURST":  "many",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
