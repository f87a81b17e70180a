package chat

import "github.com/JaimeStill/iris/pkg/openapi"

type spec struct {
	Chat    *openapi.Operation
	History *openapi.Operation
}

// Spec documents the chat endpoints.
var Spec = spec{
	Chat: &openapi.Operation{
		Summary:     "Ask Dr. EyeBot",
		Description: "An empty session_id starts a new session. Other methods return 405.",
		RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Reply", "ChatReply"),
			400: openapi.ResponseRef("BadRequest"),
			405: openapi.ResponseRef("MethodNotAllowed"),
		},
	},
	History: &openapi.Operation{
		Summary:    "Session history",
		Parameters: []*openapi.Parameter{openapi.PathParam("session_id", "Chat session ID")},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Messages in chronological order",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("ChatMessage")}},
				},
			},
		},
	},
}

// Schemas returns the component schemas the chat operations reference.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ChatRequest": {
			Type:     "object",
			Required: []string{"message"},
			Properties: map[string]*openapi.Schema{
				"message":    {Type: "string"},
				"language":   {Type: "string", Enum: []any{"en", "ta"}, Default: "en"},
				"session_id": {Type: "string"},
			},
		},
		"ChatReply": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"response":   {Type: "string"},
				"session_id": {Type: "string"},
			},
		},
		"ChatMessage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"session_id": {Type: "string"},
				"message":    {Type: "string"},
				"response":   {Type: "string"},
				"language":   {Type: "string"},
				"source":     {Type: "string", Enum: []any{"generative", "knowledge", "fallback"}},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
	}
}
