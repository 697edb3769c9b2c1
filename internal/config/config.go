package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the run defaults that flags fall back to. Values come from a
// .env file when present, then the process environment, then the built-in
// defaults.
type Config struct {
	Trials    int
	Seed      int64
	Workers   int
	Delimiter string
	LogLevel  string
}

// Load reads the optional .env file and the environment.
func Load(logger zerolog.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	return Config{
		Trials:    getEnvInt("CHEATMC_TRIALS", 20, logger),
		Seed:      getEnvInt64("CHEATMC_SEED", 42, logger),
		Workers:   getEnvInt("CHEATMC_WORKERS", 1, logger),
		Delimiter: getEnv("CHEATMC_DELIMITER", "\t"),
		LogLevel:  getEnv("CHEATMC_LOG_LEVEL", "info"),
	}
}

// ParseDelimiter maps the literal two-character sequence \t to a tab so
// shells and .env files don't need to embed a real tab character.
func ParseDelimiter(s string) string {
	if s == `\t` {
		return "\t"
	}
	return s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int, logger zerolog.Logger) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer environment value")
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64, logger zerolog.Logger) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer environment value")
		return fallback
	}
	return n
}
