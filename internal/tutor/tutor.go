// Package tutor runs language-practice turns: it transcribes the learner,
// asks the model for a structured reply, parses it, updates progress and
// voices the answer.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/parla/internal/llm"
	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/speech"
)

// NoAudioText is shown in place of a transcript when a turn has no audio.
const NoAudioText = "No audio provided"

// StreamingPlaceholder fills the translation while a reply is streaming.
const StreamingPlaceholder = "(streaming...)"

// StatsTopN is the number of words listed in the stats summary.
const StatsTopN = 8

// Config holds tutor generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	TipPolicy   TipPolicy

	// Timeout bounds the chat call of a single turn. Zero means no limit.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for tutoring turns.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   800,
		Temperature: 0.7,
		TipPolicy:   TipPolicyModel,
	}
}

// TurnInput is what the learner supplies for one turn.
type TurnInput struct {
	AudioPath string

	// Stream requests an incremental reply even when the session is not
	// set to stream.
	Stream bool
}

// TurnResult is the display-ready outcome of a turn, or of a partial
// streaming update when Partial is set.
type TurnResult struct {
	Chat        []ChatPair `json:"chat"`
	UserText    string     `json:"user_text"`
	Translation string     `json:"translation"`
	Extras      string     `json:"extras"`
	AudioPath   string     `json:"audio_path,omitempty"`
	Stats       string     `json:"stats"`

	Sections      ParsedResponse       `json:"sections"`
	Transcription speech.Transcription `json:"transcription"`
	Turn          int                  `json:"turn"`
	Partial       bool                 `json:"partial,omitempty"`
}

// Tutor ties the collaborators together. It holds no per-learner state;
// that lives in Session.
type Tutor struct {
	provider    llm.Provider
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	progress    *progress.Store
	cfg         Config
	logger      *slog.Logger
}

// New creates a Tutor. A nil synthesizer disables speech output and a nil
// logger uses slog.Default().
func New(provider llm.Provider, transcriber speech.Transcriber, synthesizer speech.Synthesizer,
	prog *progress.Store, cfg Config, logger *slog.Logger) *Tutor {
	if synthesizer == nil {
		synthesizer = speech.NoopSynthesizer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TipPolicy == "" {
		cfg.TipPolicy = TipPolicyModel
	}
	return &Tutor{
		provider:    provider,
		transcriber: transcriber,
		synthesizer: synthesizer,
		progress:    prog,
		cfg:         cfg,
		logger:      logger,
	}
}

// Progress returns the shared progress store.
func (t *Tutor) Progress() *progress.Store {
	return t.progress
}

// Stats renders the current progress summary.
func (t *Tutor) Stats() string {
	return FormatStats(t.progress.Data(), t.progress.TopVocabulary(StatsTopN))
}

// Turn runs one learner turn on sess. When sess.Settings.Stream or
// in.Stream is set, onPartial (if non-nil) receives a partial result after
// every chunk.
//
// A missing audio path returns a placeholder result and changes nothing.
// Transcription and chat failures are returned. Speech synthesis failures
// only leave AudioPath empty.
func (t *Tutor) Turn(ctx context.Context, sess *Session, in TurnInput, onPartial func(TurnResult)) (TurnResult, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if strings.TrimSpace(in.AudioPath) == "" {
		return TurnResult{
			Chat:     []ChatPair{},
			UserText: NoAudioText,
			Stats:    t.Stats(),
			Turn:     sess.conv.Turn,
		}, nil
	}

	tr, err := t.transcriber.Transcribe(ctx, in.AudioPath)
	if err != nil {
		return TurnResult{}, fmt.Errorf("transcribe: %w", err)
	}
	logger := t.logger.With("session", sess.ID)
	logger.Debug("transcribed", "language", tr.Language, "confidence", tr.Confidence)

	conv := &sess.conv
	if len(conv.Messages) == 0 {
		conv.append(RoleSystem, BuildSystemPrompt(sess.Settings, conv.Turn+1, t.cfg.TipPolicy))
	}
	conv.append(RoleUser, tr.Text)

	reply, err := t.chat(ctx, sess, tr, in.Stream || sess.Settings.Stream, onPartial)
	if err != nil {
		// Drop the unanswered utterance so history stays paired. The turn
		// only counts once the tutor has replied.
		conv.Messages = conv.Messages[:len(conv.Messages)-1]
		return TurnResult{}, fmt.Errorf("chat: %w", err)
	}
	conv.append(RoleAssistant, reply)
	conv.Turn++
	t.progress.IncrementTurn(ctx)

	sections := ParseSections(reply)
	t.progress.AddCorrections(ctx, CountCorrections(sections.Corrections))
	if words := ExtractVocabulary(sections.Target); len(words) > 0 {
		t.progress.AddVocabulary(ctx, words)
	}

	var audioPath string
	if sections.Target != "" {
		audioPath, err = t.synthesizer.Synthesize(ctx, sess.Settings.TargetLanguage, sections.Target)
		if err != nil {
			if !errors.Is(err, speech.ErrDisabled) {
				logger.Warn("speech synthesis failed", "error", err)
			}
			audioPath = ""
		}
	}

	return TurnResult{
		Chat:          HistoryToChat(conv.Messages),
		UserText:      tr.Text,
		Translation:   sections.Translation,
		Extras:        sections.Extras(),
		AudioPath:     audioPath,
		Stats:         t.Stats(),
		Sections:      sections,
		Transcription: tr,
		Turn:          conv.Turn,
	}, nil
}

// chat asks the model for the reply to the conversation so far. The caller
// holds sess.mu.
func (t *Tutor) chat(ctx context.Context, sess *Session, tr speech.Transcription, stream bool, onPartial func(TurnResult)) (string, error) {
	conv := &sess.conv

	system := conv.System()
	if t.cfg.TipPolicy == TipPolicyEnforce {
		system = BuildSystemPrompt(sess.Settings, conv.Turn+1, t.cfg.TipPolicy)
	}
	req := llm.Request{
		System:      system,
		Messages:    conv.chatMessages(),
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
	}

	ctx = llm.WithSession(llm.WithPurpose(ctx, llm.PurposeTutorReply), sess.ID)
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	if !stream {
		resp, err := t.provider.Generate(ctx, req)
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}

	var b strings.Builder
	for chunk, err := range t.provider.Stream(ctx, req) {
		if err != nil {
			return "", err
		}
		if chunk.Text == "" {
			continue
		}
		b.WriteString(chunk.Text)
		if onPartial != nil {
			partial := append(slices.Clip(conv.Messages), Message{Role: RoleAssistant, Content: b.String()})
			onPartial(TurnResult{
				Chat:          HistoryToChat(partial),
				UserText:      tr.Text,
				Translation:   StreamingPlaceholder,
				Stats:         t.Stats(),
				Transcription: tr,
				Turn:          conv.Turn + 1,
				Partial:       true,
			})
		}
	}
	return b.String(), nil
}

// FormatStats renders counters and the top words as
// "Turns: n | Corrections: m\nTop vocab: w1(c1), w2(c2)".
func FormatStats(d progress.Data, top []progress.WordCount) string {
	vocab := "(none yet)"
	if len(top) > 0 {
		parts := make([]string, len(top))
		for i, wc := range top {
			parts[i] = fmt.Sprintf("%s(%d)", wc.Word, wc.Count)
		}
		vocab = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Turns: %d | Corrections: %d\nTop vocab: %s", d.Turns, d.Corrections, vocab)
}
