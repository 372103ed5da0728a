package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3"
)

// OllamaProvider implements Provider against a local Ollama server's
// /api/chat endpoint. Streaming replies arrive as newline-delimited JSON.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates a new Ollama provider. No API key is needed.
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	url := strings.TrimRight(cfg.BaseURL, "/")
	if url == "" {
		url = defaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}
	return &OllamaProvider{
		baseURL:    url,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error,omitempty"`
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := p.post(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var out ollamaChatResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.Error != "" {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("ollama: %s", out.Error)}
	}

	model := out.Model
	if model == "" {
		model = p.model
	}
	return &Response{
		Text:       out.Message.Content,
		Usage:      ollamaUsage(out),
		Model:      model,
		StopReason: mapOllamaStopReason(out.DoneReason),
	}, nil
}

func (p *OllamaProvider) Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		body, err := p.post(ctx, req, true)
		if err != nil {
			yield(Chunk{}, err)
			return
		}
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var part ollamaChatResponse
			if err := json.Unmarshal(line, &part); err != nil {
				yield(Chunk{}, &ErrInvalidResponse{Err: fmt.Errorf("decode stream line: %w", err)})
				return
			}
			if part.Error != "" {
				yield(Chunk{}, &ErrProviderUnavailable{Err: fmt.Errorf("ollama: %s", part.Error)})
				return
			}
			c := Chunk{Text: part.Message.Content}
			if part.Done {
				u := ollamaUsage(part)
				c.Usage = &u
			}
			if c.Text != "" || c.Usage != nil {
				if !yield(c, nil) {
					return
				}
			}
			if part.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			yield(Chunk{}, &ErrProviderUnavailable{Err: err})
			return
		}
		// The reply is only complete once Ollama sends done.
		yield(Chunk{}, &ErrInvalidResponse{Err: io.ErrUnexpectedEOF})
	}
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

// post sends a chat request and returns the response body on HTTP 200.
func (p *OllamaProvider) post(ctx context.Context, req Request, stream bool) (io.ReadCloser, error) {
	payload := ollamaChatRequest{
		Model:    p.model,
		Messages: buildOllamaMessages(req),
		Stream:   stream,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("ollama error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &ErrRateLimit{Err: statusErr}
		}
		return nil, &ErrProviderUnavailable{Err: statusErr}
	}
	return resp.Body, nil
}

func buildOllamaMessages(req Request) []ollamaMessage {
	msgs := make([]ollamaMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}
	return msgs
}

func ollamaUsage(r ollamaChatResponse) Usage {
	return Usage{
		InputTokens:  r.PromptEvalCount,
		OutputTokens: r.EvalCount,
		TotalTokens:  r.PromptEvalCount + r.EvalCount,
	}
}

func mapOllamaStopReason(reason string) string {
	if reason == "length" {
		return "max_tokens"
	}
	return "end"
}
