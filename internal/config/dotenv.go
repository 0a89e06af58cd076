package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	BotToken                 string
	AdminAddr                string
	LobbyGrace               time.Duration
	ReadyCountdown           time.Duration
	AnswerWindow             time.Duration
	RoundPause               time.Duration
	LobbyPoll                time.Duration
	CorrectAward             int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		AdminAddr:                ":8081",
		LobbyGrace:               60 * time.Second,
		ReadyCountdown:           90 * time.Second,
		AnswerWindow:             20 * time.Second,
		RoundPause:               5 * time.Second,
		LobbyPoll:                time.Second,
		CorrectAward:             100,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("BOT_TOKEN"); raw != "" {
		cfg.BotToken = raw
	}
	if raw := os.Getenv("ADMIN_ADDR"); raw != "" {
		cfg.AdminAddr = raw
	}
	if d, ok := secondsEnv("LOBBY_GRACE_SECONDS"); ok {
		cfg.LobbyGrace = d
	}
	if d, ok := secondsEnv("READY_COUNTDOWN_SECONDS"); ok {
		cfg.ReadyCountdown = d
	}
	if d, ok := secondsEnv("ANSWER_SECONDS"); ok {
		cfg.AnswerWindow = d
	}
	if d, ok := secondsEnv("ROUND_PAUSE_SECONDS"); ok {
		cfg.RoundPause = d
	}
	if d, ok := secondsEnv("LOBBY_POLL_SECONDS"); ok {
		cfg.LobbyPoll = d
	}
	if raw := os.Getenv("CORRECT_AWARD"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.CorrectAward = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}

func secondsEnv(name string) (time.Duration, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return time.Duration(value) * time.Second, true
}
