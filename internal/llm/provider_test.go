package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestMockProvider_ReturnsCanedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "TARGET: Hola", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "TARGET: Adiós"},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != "TARGET: Hola" {
		t.Fatalf("expected first canned text, got %q", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != "TARGET: Adiós" {
		t.Fatalf("expected second canned text, got %q", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "ok"},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeTutorReply {
		t.Fatalf("expected default %q, got %q", PurposeTutorReply, p)
	}

	ctx = WithPurpose(ctx, "warmup")
	if p := PurposeFrom(ctx); p != "warmup" {
		t.Fatalf("expected 'warmup', got %q", p)
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	if id := SessionFrom(ctx); id != "" {
		t.Fatalf("expected no session, got %q", id)
	}

	ctx = WithSession(WithPurpose(ctx, PurposeTutorReply), "0b7c")
	if id := SessionFrom(ctx); id != "0b7c" {
		t.Fatalf("expected '0b7c', got %q", id)
	}
	if p := PurposeFrom(ctx); p != PurposeTutorReply {
		t.Fatalf("purpose lost: %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "ollama needs no key",
			cfg:     Config{Provider: "ollama"},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMockProvider_StreamYieldsChunksInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Chunks: []string{"TARGET: ", "Ho", "la"}, Usage: Usage{OutputTokens: 3}},
	)

	var got []string
	var usage *Usage
	for c, err := range mock.Stream(context.Background(), Request{}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Text != "" {
			got = append(got, c.Text)
		}
		if c.Usage != nil {
			usage = c.Usage
		}
	}
	if strings.Join(got, "|") != "TARGET: |Ho|la" {
		t.Fatalf("unexpected chunk order: %v", got)
	}
	if usage == nil || usage.OutputTokens != 3 {
		t.Fatalf("expected usage on terminal chunk, got %+v", usage)
	}
}

func TestMockProvider_StreamStopsWhenConsumerBreaks(t *testing.T) {
	mock := NewMockProvider(MockResponse{Chunks: []string{"a", "b", "c"}})

	n := 0
	for _, err := range mock.Stream(context.Background(), Request{}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected 1 chunk consumed, got %d", n)
	}
}

func TestCollect(t *testing.T) {
	t.Run("empty reply", func(t *testing.T) {
		mock := NewMockProvider(MockResponse{})
		text, _, err := Collect(mock.Stream(context.Background(), Request{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "" {
			t.Fatalf("expected empty text, got %q", text)
		}
	})

	t.Run("single large chunk", func(t *testing.T) {
		big := strings.Repeat("palabra ", 20000)
		mock := NewMockProvider(MockResponse{Text: big})
		text, _, err := Collect(mock.Stream(context.Background(), Request{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != big {
			t.Fatalf("expected %d bytes, got %d", len(big), len(text))
		}
	})

	t.Run("error keeps partial text", func(t *testing.T) {
		mock := NewMockProvider(MockResponse{Chunks: []string{"Ho"}, Err: errors.New("boom")})
		text, _, err := Collect(mock.Stream(context.Background(), Request{}))
		if err == nil {
			t.Fatal("expected error")
		}
		if text != "Ho" {
			t.Fatalf("expected partial text, got %q", text)
		}
	})
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limit", fmt.Errorf("chat: %w", &ErrRateLimit{Err: errors.New("429")}), "The tutor is rate limited. Try again in a moment."},
		{"cut off stream", &ErrInvalidResponse{Err: io.ErrUnexpectedEOF}, "The tutor's reply was cut off or unreadable. Try again."},
		{"unreachable", &ErrProviderUnavailable{Err: errors.New("dial tcp")}, "The tutor model is unreachable. Check the provider settings."},
		{"other", errors.New("transcribe: bad file"), "transcribe: bad file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
