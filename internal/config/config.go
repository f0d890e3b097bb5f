package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                   string
	DatabaseURL            string
	EventID                string
	PollInterval           time.Duration
	RosterInterval         time.Duration
	OutboxInterval         time.Duration
	OutboxBatchSize        int
	RateLimitPerMinute     int
	RateLimitBurst         int
	HallRateLimitPerMinute int
	HallRateLimitBurst     int
	HeuristicsPath         string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:                   port,
		DatabaseURL:            os.Getenv("DB_DSN"),
		EventID:                os.Getenv("EVENT_ID"),
		PollInterval:           readDurationSeconds("POLL_INTERVAL_SECONDS", 10),
		RosterInterval:         readDurationSeconds("ROSTER_REFRESH_SECONDS", 300),
		OutboxInterval:         readDurationSeconds("OUTBOX_POLL_SECONDS", 1),
		OutboxBatchSize:        readInt("OUTBOX_BATCH_SIZE", 100),
		RateLimitPerMinute:     readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:         readInt("RATE_LIMIT_BURST", 30),
		HallRateLimitPerMinute: readInt("HALL_RATE_LIMIT_PER_MIN", 600),
		HallRateLimitBurst:     readInt("HALL_RATE_LIMIT_BURST", 120),
		HeuristicsPath:         os.Getenv("HEURISTICS_PATH"),
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
