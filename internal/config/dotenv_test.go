package config

import (
	"testing"
	"time"
)

func TestDefaultTimings(t *testing.T) {
	cfg := Default()
	if cfg.LobbyGrace != 60*time.Second {
		t.Fatalf("lobby grace %v, want 60s", cfg.LobbyGrace)
	}
	if cfg.ReadyCountdown != 90*time.Second {
		t.Fatalf("ready countdown %v, want 90s", cfg.ReadyCountdown)
	}
	if cfg.AnswerWindow != 20*time.Second {
		t.Fatalf("answer window %v, want 20s", cfg.AnswerWindow)
	}
	if cfg.CorrectAward != 100 {
		t.Fatalf("correct award %d, want 100", cfg.CorrectAward)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token-123")
	t.Setenv("ANSWER_SECONDS", "45")
	t.Setenv("CORRECT_AWARD", "250")
	t.Setenv("LOBBY_GRACE_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.BotToken != "token-123" {
		t.Fatalf("bot token %q", cfg.BotToken)
	}
	if cfg.AnswerWindow != 45*time.Second {
		t.Fatalf("answer window %v, want 45s", cfg.AnswerWindow)
	}
	if cfg.CorrectAward != 250 {
		t.Fatalf("correct award %d, want 250", cfg.CorrectAward)
	}
	if cfg.LobbyGrace != 60*time.Second {
		t.Fatalf("lobby grace %v, want the default on a bad value", cfg.LobbyGrace)
	}
}
