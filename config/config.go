package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL = "http://localhost:8080/api/v1"
	defaultRows    = 10
	defaultColumns = 12
)

// Config carries the process configuration, read once at startup from a .env
// file (if present) and the environment.
type Config struct {
	APIBaseURL     string
	Token          string
	DefaultRows    int
	DefaultColumns int
}

// Load reads configuration. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:     defaultBaseURL,
		Token:          strings.TrimSpace(os.Getenv("SEATPLAN_TOKEN")),
		DefaultRows:    defaultRows,
		DefaultColumns: defaultColumns,
	}
	if url := strings.TrimSpace(os.Getenv("SEATPLAN_API_URL")); url != "" {
		cfg.APIBaseURL = strings.TrimRight(url, "/")
	}
	if rows, ok := envInt("SEATPLAN_ROWS"); ok {
		cfg.DefaultRows = rows
	}
	if columns, ok := envInt("SEATPLAN_COLUMNS"); ok {
		cfg.DefaultColumns = columns
	}
	return cfg
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
