package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Provider settings
	APIKey     string
	BaseURL    string
	OutputSize string

	// Pipeline settings
	Symbols     []string
	SymbolDelay time.Duration
	RawDir      string

	// Storage and server settings
	DBPath     string
	Port       string
	ScheduleAt string // "HH:MM", local time
}

// Load reads configuration from a .env file (if present) and environment
// variables, falling back to defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIKey:      getEnv("ALPHAVANTAGE_API_KEY", ""),
		BaseURL:     getEnv("ALPHAVANTAGE_URL", "https://www.alphavantage.co/query"),
		OutputSize:  getEnv("ALPHAVANTAGE_OUTPUT_SIZE", "compact"),
		Symbols:     getEnvList("SYMBOLS", []string{"AAPL", "GOOG", "MSFT"}),
		SymbolDelay: time.Duration(getEnvInt("SYMBOL_DELAY", 12)) * time.Second,
		RawDir:      getEnv("RAW_DATA_DIR", "raw_data"),
		DBPath:      getEnv("DB_PATH", "stock_data.db"),
		Port:        getEnv("PORT", "8080"),
		ScheduleAt:  getEnv("SCHEDULE_AT", "18:00"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
