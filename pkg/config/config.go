// Package config loads hero2saber settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Values come from the
// environment (optionally via a .env file) with sensible defaults.
type Config struct {
	OutputDir         string // base directory for generated Beat Saber maps
	TempDir           string // scratch space for extracted song packages
	FFmpegPath        string
	AudioTargetFormat string // "ogg" or "wav"
	DeleteTempFiles   bool
	LogLevel          string
	LogPath           string // empty disables file logging

	// DifficultyMap translates Clone Hero numeric difficulties (0-6) to
	// Beat Saber tier names. Swappable so chart packs with unusual
	// difficulty scales can be accommodated.
	DifficultyMap map[int]string
}

// DefaultDifficultyMap returns the standard 0-6 translation table.
func DefaultDifficultyMap() map[int]string {
	return map[int]string{
		0: "Easy",
		1: "Easy",
		2: "Normal",
		3: "Hard",
		4: "Expert",
		5: "Expert",
		6: "ExpertPlus",
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// parseDifficultyMap parses a "0=Easy,4=Expert" style override string.
// Malformed entries are skipped.
func parseDifficultyMap(raw string) map[int]string {
	m := make(map[int]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		num, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		m[num] = strings.TrimSpace(v)
	}
	return m
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	diffMap := DefaultDifficultyMap()
	if raw := os.Getenv("DIFFICULTY_MAP"); raw != "" {
		if parsed := parseDifficultyMap(raw); len(parsed) > 0 {
			diffMap = parsed
		}
	}

	return &Config{
		OutputDir:         getEnv("OUTPUT_DIR", "output_bs_maps"),
		TempDir:           getEnv("TEMP_DIR", os.TempDir()),
		FFmpegPath:        getEnv("FFMPEG_PATH", "ffmpeg"),
		AudioTargetFormat: strings.ToLower(getEnv("AUDIO_TARGET_FORMAT", "ogg")),
		DeleteTempFiles:   getEnvBool("DELETE_TEMP_FILES", true),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogPath:           os.Getenv("LOG_PATH"),
		DifficultyMap:     diffMap,
	}
}
