package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/parla/internal/config"
	"github.com/abhisek/parla/internal/llm"
	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/speech"
	"github.com/abhisek/parla/internal/store"
	"github.com/abhisek/parla/internal/tutor"
	"github.com/spf13/cobra"
)

// deps is everything a command that runs turns needs.
type deps struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	prog   *progress.Store
	tutor  *tutor.Tutor
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
}

// loadConfig reads the environment and applies the persistent flag
// overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("progress"); p != "" {
		cfg.ProgressPath = p
	}
	return cfg, nil
}

// openStore opens the SQLite database named by --db / PARLA_DB.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openProgress opens the progress store on the configured backend. Load
// problems are logged; the store always opens.
func openProgress(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) (*progress.Store, error) {
	var backend progress.Backend
	switch cfg.ProgressBackend {
	case config.BackendSQLite:
		backend = progress.NewSQLiteBackend(st.ProgressRepo())
	default:
		dataDir, err := store.DataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		backend = progress.NewFileBackend(cfg.ResolveProgressPath(dataDir))
	}

	prog := progress.Open(ctx, backend, logger)
	if out := prog.Outcome(); out.Status == progress.Corrupt {
		logger.Warn("saved progress unreadable, starting from zero", "error", out.Err)
	}
	return prog, nil
}

// newTranscriber picks the speech-to-text backend.
func newTranscriber(cfg config.Config) (speech.Transcriber, error) {
	if cfg.STT == config.STTTextFile {
		return speech.TextFileTranscriber{}, nil
	}
	t, err := speech.NewOpenAITranscriber(cfg.Speech)
	if err != nil {
		return nil, fmt.Errorf("speech-to-text: %w (set PARLA_SPEECH_API_KEY, or PARLA_STT=textfile for text transcripts)", err)
	}
	return t, nil
}

// newSynthesizer picks the text-to-speech backend. Missing credentials
// disable speech rather than failing.
func newSynthesizer(cfg config.Config, logger *slog.Logger) speech.Synthesizer {
	if !cfg.TTS {
		return speech.NoopSynthesizer{}
	}
	s, err := speech.NewOpenAISynthesizer(cfg.Speech)
	if err != nil {
		logger.Warn("speech synthesis disabled", "error", err)
		return speech.NoopSynthesizer{}
	}
	return s
}

// buildDeps wires config, storage, provider and speech into a Tutor.
// logger may be nil, in which case one is built from the config.
func buildDeps(cmd *cobra.Command, cfg config.Config, logger *slog.Logger) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = cfg.NewLogger()
	}
	slog.SetDefault(logger)

	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, logger: logger, store: st}

	d.prog, err = openProgress(ctx, cfg, st, logger)
	if err != nil {
		d.Close()
		return nil, err
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), logger)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	stt, err := newTranscriber(cfg)
	if err != nil {
		d.Close()
		return nil, err
	}

	llmCfg := llm.ConfigFromEnv()
	tcfg := tutor.Config{
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		TipPolicy:   cfg.TipPolicy,
		Timeout:     llmCfg.Timeout,
	}
	d.tutor = tutor.New(provider, stt, newSynthesizer(cfg, logger), d.prog, tcfg, logger)
	return d, nil
}

// errAborted is returned when the user declines a confirmation prompt.
var errAborted = errors.New("aborted")
