package llm

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/abhisek/parla/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as a usage
// event. Only metadata is recorded: token counts, latency and outcome.
type LoggingProvider struct {
	inner     Provider
	name      string
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps a Provider with event logging. name identifies the
// provider backend ("openai", "ollama", ...) in recorded events.
func WithLogging(p Provider, name string, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, name: name, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := l.baseEvent(ctx, start, err, false)
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}
	l.record(ctx, data)

	return resp, err
}

func (l *LoggingProvider) Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		start := time.Now()
		var usage Usage
		var streamErr error

		for c, err := range l.inner.Stream(ctx, req) {
			if err != nil {
				streamErr = err
				yield(c, err)
				break
			}
			if c.Usage != nil {
				usage = *c.Usage
			}
			if !yield(c, nil) {
				break
			}
		}

		data := l.baseEvent(ctx, start, streamErr, true)
		data.InputTokens = usage.InputTokens
		data.OutputTokens = usage.OutputTokens
		l.record(ctx, data)
	}
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) baseEvent(ctx context.Context, start time.Time, err error, streamed bool) store.LLMRequestEventData {
	data := store.LLMRequestEventData{
		Provider:  l.name,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		Streamed:  streamed,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	return data
}

// record stores the event but never fails the request if storing fails.
func (l *LoggingProvider) record(ctx context.Context, data store.LLMRequestEventData) {
	l.logger.Debug("llm request",
		"session", SessionFrom(ctx),
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
		"success", data.Success,
	)
	if err := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); err != nil {
		l.logger.Warn("failed to log LLM request event", "err", err)
	}
}
