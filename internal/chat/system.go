package chat

import "context"

// System defines the public contract for chat domain operations.
type System interface {
	Handler() *Handler

	// Respond answers req, starting a new session when req.SessionID is
	// empty. The turn is persisted before the reply is returned.
	Respond(ctx context.Context, req Request) (*Reply, error)

	// History returns a session's messages in chronological order.
	History(ctx context.Context, sessionID string) ([]Message, error)
}
