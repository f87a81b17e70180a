package chat

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/iris/internal/knowledge"
	"github.com/JaimeStill/iris/pkg/query"
	"github.com/JaimeStill/iris/pkg/repository"
)

type repo struct {
	db           *sql.DB
	engine       *Engine
	contextLimit int
	logger       *slog.Logger
}

// New creates a chat repository implementing the System interface.
// contextLimit bounds how many turns of a session are loaded as context.
func New(db *sql.DB, engine *Engine, contextLimit int, logger *slog.Logger) System {
	return &repo{
		db:           db,
		engine:       engine,
		contextLimit: contextLimit,
		logger:       logger.With("system", "chat"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Respond(ctx context.Context, req Request) (*Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	lang := knowledge.ParseLang(req.Language)

	history, err := r.context(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	response, source := r.engine.Respond(ctx, message, lang, turns(history))

	q := `
		INSERT INTO chat_messages(id, session_id, message, response, language, source)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if err := repository.ExecExpectOne(
		ctx, r.db, q,
		uuid.New(), sessionID, message, response, string(lang), string(source),
	); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"chat turn",
		"session", sessionID,
		"language", lang,
		"source", source,
		"context_turns", len(history),
	)

	return &Reply{Response: response, SessionID: sessionID}, nil
}

func (r *repo) History(ctx context.Context, sessionID string) ([]Message, error) {
	qb := query.
		NewBuilder(projection, chronological).
		WhereEquals("SessionID", sessionID)

	q, args := qb.Build()
	messages, err := repository.QueryMany(ctx, r.db, q, args, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	return messages, nil
}

// context loads the first contextLimit turns of a session, oldest first.
func (r *repo) context(ctx context.Context, sessionID string) ([]Message, error) {
	if r.contextLimit <= 0 {
		return nil, nil
	}

	qb := query.
		NewBuilder(projection, chronological).
		WhereEquals("SessionID", sessionID)

	q, args := qb.BuildPage(1, r.contextLimit)
	messages, err := repository.QueryMany(ctx, r.db, q, args, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query chat context: %w", err)
	}
	return messages, nil
}
