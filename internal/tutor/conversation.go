package tutor

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/parla/internal/llm"
)

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered history of a session plus its turn counter.
type Conversation struct {
	Messages []Message
	Turn     int
}

func (c *Conversation) append(role Role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

// Reset clears the history and the turn counter.
func (c *Conversation) Reset() {
	c.Messages = nil
	c.Turn = 0
}

// System returns the system prompt, or "" if none has been set yet.
func (c *Conversation) System() string {
	for _, m := range c.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// chatMessages converts the history to provider messages, leaving out
// system entries.
func (c *Conversation) chatMessages() []llm.Message {
	out := make([]llm.Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		switch m.Role {
		case RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: m.Content})
		case RoleAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: m.Content})
		}
	}
	return out
}

// ChatPair is one user utterance and the reply it got.
type ChatPair struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// HistoryToChat pairs each user message with the assistant reply that
// follows it. System messages and unanswered user messages are skipped.
func HistoryToChat(history []Message) []ChatPair {
	pairs := []ChatPair{}
	var pending *string
	for _, m := range history {
		switch m.Role {
		case RoleUser:
			content := m.Content
			pending = &content
		case RoleAssistant:
			if pending != nil {
				pairs = append(pairs, ChatPair{User: *pending, Assistant: m.Content})
				pending = nil
			}
		}
	}
	return pairs
}

// Session is one learner's conversation. Sessions are independent of each
// other; each one runs a single turn at a time.
type Session struct {
	ID       string
	Settings Settings

	mu   sync.Mutex
	conv Conversation
}

// NewSession creates a session with a fresh ID.
func NewSession(settings Settings) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Settings: settings.withDefaults(),
	}
}

// History returns a copy of the conversation messages.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.conv.Messages)
}

// Turn returns the number of turns taken since the last reset.
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Turn
}

// Reset clears the conversation. Progress is not affected.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Reset()
}
