package chat

import (
	"github.com/JaimeStill/iris/pkg/query"
	"github.com/JaimeStill/iris/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "chat_messages", "c").
	Project("id", "ID").
	Project("session_id", "SessionID").
	Project("message", "Message").
	Project("response", "Response").
	Project("language", "Language").
	Project("source", "Source").
	Project("created_at", "CreatedAt")

var chronological = query.SortField{Field: "CreatedAt"}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(
		&m.ID,
		&m.SessionID,
		&m.Message,
		&m.Response,
		&m.Language,
		&m.Source,
		&m.CreatedAt,
	)
	return m, err
}
