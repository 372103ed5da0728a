package llm

import (
	"context"
	"iter"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate for a complete reply, or Stream to receive the
// reply incrementally.
type Provider interface {
	// Generate sends the conversation to the LLM and returns the full reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Stream sends the conversation to the LLM and yields the reply as a
	// sequence of text chunks in arrival order. The sequence ends when the
	// reply is complete; a non-nil error is always the last element.
	// Cancelling ctx terminates the sequence.
	Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error]

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history, oldest first. It holds only
	// user and assistant turns; the system prompt travels in System.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Zero leaves the provider default in place.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the LLM's output.
type Response struct {
	// Text is the generated reply.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Chunk is one increment of a streamed reply.
type Chunk struct {
	// Text is the newly generated text. May be empty for chunks that only
	// carry usage.
	Text string

	// Usage is set on the chunk that reports token consumption, usually
	// the last one. Nil otherwise.
	Usage *Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Collect drains a stream and returns the concatenated text together with
// the last reported usage.
func Collect(seq iter.Seq2[Chunk, error]) (string, Usage, error) {
	var text []byte
	var usage Usage
	for c, err := range seq {
		if err != nil {
			return string(text), usage, err
		}
		text = append(text, c.Text...)
		if c.Usage != nil {
			usage = *c.Usage
		}
	}
	return string(text), usage, nil
}
