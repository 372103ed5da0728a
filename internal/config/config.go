// Package config reads application settings from the environment, with an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/parla/internal/speech"
	"github.com/abhisek/parla/internal/tutor"
)

// Progress backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Transcriber kinds.
const (
	STTOpenAI   = "openai"
	STTTextFile = "textfile"
)

// Config holds everything outside the LLM provider settings, which
// llm.ConfigFromEnv reads on its own.
type Config struct {
	// Session defaults.
	Settings  tutor.Settings
	TipPolicy tutor.TipPolicy

	// ProgressBackend is "file" (default) or "sqlite".
	ProgressBackend string
	// ProgressPath is the JSON progress file. Empty means the data dir.
	ProgressPath string

	// STT selects the transcriber: "openai" or "textfile".
	STT string
	// TTS enables speech synthesis of the target-language reply.
	TTS    bool
	Speech speech.OpenAIConfig

	// ServerAddr is where `parla serve` listens.
	ServerAddr string

	LogLevel slog.Level
}

// Load reads .env (if present) and the PARLA_* environment.
func Load() (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Settings: tutor.Settings{
			TargetLanguage: getEnvOrDefault("PARLA_TARGET_LANGUAGE", tutor.DefaultTargetLanguage),
			BaseLanguage:   getEnvOrDefault("PARLA_BASE_LANGUAGE", tutor.DefaultBaseLanguage),
			Scenario:       getEnvOrDefault("PARLA_SCENARIO", tutor.DefaultScenario),
			Stream:         getEnvAsBoolOrDefault("PARLA_STREAM", false),
		},
		ProgressBackend: strings.ToLower(getEnvOrDefault("PARLA_PROGRESS_BACKEND", BackendFile)),
		ProgressPath:    os.Getenv("PARLA_PROGRESS_FILE"),
		STT:             strings.ToLower(getEnvOrDefault("PARLA_STT", STTOpenAI)),
		TTS:             getEnvAsBoolOrDefault("PARLA_TTS", true),
		Speech: speech.OpenAIConfig{
			APIKey:             firstEnv("PARLA_SPEECH_API_KEY", "PARLA_OPENAI_API_KEY", "OPENAI_API_KEY"),
			BaseURL:            os.Getenv("PARLA_SPEECH_BASE_URL"),
			TranscriptionModel: os.Getenv("PARLA_STT_MODEL"),
			SpeechModel:        os.Getenv("PARLA_TTS_MODEL"),
			OutputDir:          os.Getenv("PARLA_AUDIO_DIR"),
		},
		ServerAddr: getEnvOrDefault("PARLA_ADDR", ":8080"),
	}

	mode, err := tutor.ParseMode(getEnvOrDefault("PARLA_MODE", string(tutor.ModeConversation)))
	if err != nil {
		return Config{}, fmt.Errorf("PARLA_MODE: %w", err)
	}
	cfg.Settings.Mode = mode

	if err := cfg.Settings.Validate(); err != nil {
		return Config{}, err
	}

	cfg.TipPolicy, err = tutor.ParseTipPolicy(os.Getenv("PARLA_TIP_POLICY"))
	if err != nil {
		return Config{}, fmt.Errorf("PARLA_TIP_POLICY: %w", err)
	}

	switch cfg.ProgressBackend {
	case BackendFile, BackendSQLite:
	default:
		return Config{}, fmt.Errorf("PARLA_PROGRESS_BACKEND: unknown backend %q", cfg.ProgressBackend)
	}

	switch cfg.STT {
	case STTOpenAI, STTTextFile:
	default:
		return Config{}, fmt.Errorf("PARLA_STT: unknown transcriber %q", cfg.STT)
	}

	if lvl := os.Getenv("PARLA_LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return Config{}, fmt.Errorf("PARLA_LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

// ResolveProgressPath returns the JSON progress file location: the
// configured path, or progress.json in dataDir.
func (c Config) ResolveProgressPath(dataDir string) string {
	if c.ProgressPath != "" {
		return c.ProgressPath
	}
	return filepath.Join(dataDir, "progress.json")
}

// NewLogger returns a text logger on stderr at the configured level.
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
