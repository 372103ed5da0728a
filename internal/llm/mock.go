package llm

import (
	"context"
	"iter"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
// When Chunks is set, Stream yields them one by one; otherwise Stream
// yields Text as a single chunk. Generate always returns the joined text.
type MockResponse struct {
	Text   string
	Chunks []string
	Usage  Usage
	Err    error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// next pops the next canned response, recording the request.
func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return MockResponse{}, false
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, true
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	resp, ok := m.next(req)
	if !ok {
		return nil, &ErrProviderUnavailable{Err: nil}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	text := resp.Text
	if len(resp.Chunks) > 0 {
		text = ""
		for _, c := range resp.Chunks {
			text += c
		}
	}

	return &Response{
		Text:       text,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// Stream yields the next canned response chunk by chunk. A canned error is
// yielded after the chunks, so partial-then-fail streams can be modelled.
func (m *MockProvider) Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		resp, ok := m.next(req)
		if !ok {
			yield(Chunk{}, &ErrProviderUnavailable{Err: nil})
			return
		}

		chunks := resp.Chunks
		if len(chunks) == 0 && resp.Text != "" {
			chunks = []string{resp.Text}
		}
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				yield(Chunk{}, err)
				return
			}
			if !yield(Chunk{Text: c}, nil) {
				return
			}
		}
		if resp.Err != nil {
			yield(Chunk{}, resp.Err)
			return
		}
		usage := resp.Usage
		yield(Chunk{Usage: &usage}, nil)
	}
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate and Stream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
