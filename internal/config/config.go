package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/scythe504/impostor-backend/internal/game"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	StaticDir     string
	QuestionsFile string

	Game game.Config

	ConnectRateLimit  int
	ConnectRateWindow time.Duration
}

// Load reads a .env file when one exists, then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	defaults := game.DefaultConfig()
	var errs []error

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		StaticDir:     getEnv("STATIC_DIR", ""),
		QuestionsFile: getEnv("QUESTIONS_FILE", ""),
		Game: game.Config{
			TransitionDeadline: getDuration("TRANSITION_DEADLINE", defaults.TransitionDeadline, &errs),
			RedirectGrace:      getDuration("REDIRECT_GRACE", defaults.RedirectGrace, &errs),
			EmptyRoomTTL:       getDuration("EMPTY_ROOM_TTL", defaults.EmptyRoomTTL, &errs),
			PhaseTimerSlack:    getDuration("PHASE_TIMER_SLACK", defaults.PhaseTimerSlack, &errs),
			MinPlayers:         getInt("MIN_PLAYERS", defaults.MinPlayers, &errs),
		},
		ConnectRateLimit:  getInt("CONNECT_RATE_LIMIT", 30, &errs),
		ConnectRateWindow: getDuration("CONNECT_RATE_WINDOW", time.Minute, &errs),
	}

	if cfg.Game.MinPlayers < 1 {
		errs = append(errs, fmt.Errorf("MIN_PLAYERS must be at least 1, got %d", cfg.Game.MinPlayers))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return value
}
