// Package config loads process configuration from the environment,
// following the teacher's config.Load shape: best-effort .env loading via
// godotenv, typed getters with defaults, everything else left to real
// environment variables in production.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"sttgateway/pkg/binaries"
)

// Config holds every tunable named in spec.md §6.
type Config struct {
	// HTTP surface
	Host string
	Port string

	// Scheduler (C6)
	MaxQueueSize int

	// Admission (C5)
	MaxUploadSizeMB int
	AllowedOrigins  []string

	// Logging
	LogLevel string

	// Default model selection at startup (C1)
	EngineType string
	ModelID    string

	// Filesystem
	UploadDir string

	// Engine subprocess tooling (C3/C4)
	UVPath          string
	FFmpegPath      string
	FunASREnvPath   string
	FunASRExtraArgs string
	FunASRScriptURL string
	MLXEnvPath      string
	MLXExtraArgs    string
	MLXScriptURL    string
}

// Load reads a .env file if present (falls back to the real environment
// with a one-line notice, matching the teacher's behaviour) and returns a populated
// Config with every default from spec.md §6.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	return &Config{
		Host: getEnv("HOST", "0.0.0.0"),
		Port: getEnv("PORT", "50070"),

		MaxQueueSize: getEnvAsInt("MAX_QUEUE_SIZE", 50),

		MaxUploadSizeMB: getEnvAsInt("MAX_UPLOAD_SIZE_MB", 200),
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		EngineType: getEnv("ENGINE_TYPE", "funasr"),
		ModelID:    getEnv("MODEL_ID", "paraformer"),

		UploadDir: getEnv("UPLOAD_DIR", "data/tmp"),

		// Tool discovery delegates to pkg/binaries, the same resolver the
		// teacher's adapters call directly (base_adapter.go's readiness
		// probe shells out via binaries.UV()) rather than re-implementing
		// PATH lookup here.
		UVPath:          binaries.UV(),
		FFmpegPath:      binaries.FFmpeg(),
		FunASREnvPath:   getEnv("FUNASR_ENV_PATH", "data/envs/funasr"),
		FunASRExtraArgs: getEnv("FUNASR_EXTRA_ARGS", ""),
		FunASRScriptURL: getEnv("FUNASR_SCRIPT_URL", ""),
		MLXEnvPath:      getEnv("MLX_ENV_PATH", "data/envs/mlx"),
		MLXExtraArgs:    getEnv("MLX_EXTRA_ARGS", ""),
		MLXScriptURL:    getEnv("MLX_SCRIPT_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
