package speech

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI audio endpoints.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional. Override for OpenAI-compatible servers.

	TranscriptionModel string // Default: "whisper-1"
	SpeechModel        string // Default: "tts-1"

	// OutputDir receives synthesized mp3 files. Default: os.TempDir().
	OutputDir string
}

func newOpenAIClient(cfg OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required for speech")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(config), nil
}

// OpenAITranscriber implements Transcriber with the Whisper API.
type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

// NewOpenAITranscriber creates a Whisper-backed transcriber.
func NewOpenAITranscriber(cfg OpenAIConfig) (*OpenAITranscriber, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	model := cfg.TranscriptionModel
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{client: client, model: model}, nil
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (Transcription, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return Transcription{}, fmt.Errorf("open audio: %w", err)
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Transcription{}, fmt.Errorf("transcribe %s: %w", filepath.Base(audioPath), err)
	}

	lang := resp.Language
	if lang == "" {
		lang = "unknown"
	}

	var confidence float64
	if n := len(resp.Segments); n > 0 {
		var sum float64
		for _, seg := range resp.Segments {
			sum += math.Exp(seg.AvgLogprob)
		}
		confidence = math.Min(1, sum/float64(n))
	}

	return Transcription{
		Text:       strings.TrimSpace(resp.Text),
		Language:   lang,
		Confidence: confidence,
	}, nil
}

// OpenAISynthesizer implements Synthesizer with the OpenAI speech API.
type OpenAISynthesizer struct {
	client    *openai.Client
	model     openai.SpeechModel
	outputDir string
}

// NewOpenAISynthesizer creates a TTS-backed synthesizer.
func NewOpenAISynthesizer(cfg OpenAIConfig) (*OpenAISynthesizer, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	model := openai.SpeechModel(cfg.SpeechModel)
	if model == "" {
		model = openai.TTSModel1
	}
	dir := cfg.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &OpenAISynthesizer{client: client, model: model, outputDir: dir}, nil
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, language, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          VoiceFor(language).Name,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	defer resp.Close()

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	path := filepath.Join(s.outputDir, "assistant-"+uuid.NewString()+".mp3")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, resp); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close audio: %w", err)
	}
	return path, nil
}
