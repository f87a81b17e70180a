package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvChatHistoryWindow = "IRIS_CHAT_HISTORY_WINDOW"
	EnvChatContextLimit  = "IRIS_CHAT_CONTEXT_LIMIT"
)

// ChatConfig bounds the conversational context used for chat replies.
// ContextLimit turns are loaded per session; the last HistoryWindow of
// those are sent to the generator.
type ChatConfig struct {
	HistoryWindow int `toml:"history_window"`
	ContextLimit  int `toml:"context_limit"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ChatConfig) Finalize() error {
	if c.HistoryWindow == 0 {
		c.HistoryWindow = 4
	}
	if c.ContextLimit == 0 {
		c.ContextLimit = 10
	}

	envInt(&c.HistoryWindow, EnvChatHistoryWindow)
	envInt(&c.ContextLimit, EnvChatContextLimit)

	if c.HistoryWindow < 0 {
		return fmt.Errorf("history_window must be non-negative")
	}
	if c.ContextLimit < c.HistoryWindow {
		return fmt.Errorf("context_limit (%d) must be at least history_window (%d)", c.ContextLimit, c.HistoryWindow)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ChatConfig) Merge(overlay *ChatConfig) {
	if overlay.HistoryWindow != 0 {
		c.HistoryWindow = overlay.HistoryWindow
	}
	if overlay.ContextLimit != 0 {
		c.ContextLimit = overlay.ContextLimit
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
