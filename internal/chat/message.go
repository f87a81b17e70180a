// Package chat implements the bilingual eye-health assistant: a responder
// that prefers generative replies and falls back to the knowledge base, and
// the per-session message history that gives it conversational context.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/iris/internal/knowledge"
)

// Source identifies how a reply was produced.
type Source string

const (
	SourceGenerative Source = "generative"
	SourceKnowledge  Source = "knowledge"
	SourceFallback   Source = "fallback"
)

// Message is one persisted request/response turn.
type Message struct {
	ID        uuid.UUID      `json:"id"`
	SessionID string         `json:"session_id"`
	Message   string         `json:"message"`
	Response  string         `json:"response"`
	Language  knowledge.Lang `json:"language"`
	Source    Source         `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
}

// Turn is the conversational content of a prior Message.
type Turn struct {
	Message  string
	Response string
}

// Request is one inbound chat call. An empty SessionID starts a new session.
type Request struct {
	Message   string `json:"message"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

// Reply is the response to a Request.
type Reply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func turns(messages []Message) []Turn {
	out := make([]Turn, len(messages))
	for i, m := range messages {
		out[i] = Turn{Message: m.Message, Response: m.Response}
	}
	return out
}
