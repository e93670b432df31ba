package httpapi

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings configure the HTTP server. They come from the environment,
// optionally seeded from a .env file.
type Settings struct {
	Addr           string
	LogLevel       string
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultSettings are used for every variable that is unset or invalid.
func DefaultSettings() Settings {
	return Settings{
		Addr:           ":8080",
		LogLevel:       "info",
		RateLimitRPS:   10,
		RateLimitBurst: 30,
	}
}

// LoadSettings reads ZZPTAX_ADDR, LOG_LEVEL, RATE_LIMIT_RPS and
// RATE_LIMIT_BURST. Variables already in the environment win over envFile.
// Problems are returned as warnings so they can be logged once the logger
// exists; they never stop the server.
func LoadSettings(envFile string) (Settings, []string) {
	var warnings []string

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			warnings = append(warnings, fmt.Sprintf("loading %s: %v", envFile, err))
		}
	}

	s := DefaultSettings()
	if v, ok := os.LookupEnv("ZZPTAX_ADDR"); ok && v != "" {
		s.Addr = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			warnings = append(warnings, fmt.Sprintf("invalid RATE_LIMIT_RPS %q, using default %g", v, s.RateLimitRPS))
		} else {
			s.RateLimitRPS = rps
		}
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			warnings = append(warnings, fmt.Sprintf("invalid RATE_LIMIT_BURST %q, using default %d", v, s.RateLimitBurst))
		} else {
			s.RateLimitBurst = burst
		}
	}
	return s, warnings
}
