package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/JaimeStill/iris/internal/generative"
	"github.com/JaimeStill/iris/internal/knowledge"
)

const persona = `You are Dr. EyeBot, a warm, empathetic, and highly knowledgeable eye health assistant.

Your personality:
- Friendly and conversational (not robotic)
- Empathetic to patient concerns
- Clear and easy to understand
- Professional but approachable
- Always recommend professional consultation

Guidelines:
- Provide accurate medical information
- Be concise but comprehensive
- Use simple language
- Suggest next steps
- Always emphasize consulting an ophthalmologist
- Respond entirely in %s

Format:
1. Acknowledge the question warmly
2. Provide key information
3. Explain what they should do
4. Recommend professional follow-up`

// Chooser selects an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

type globalChooser struct{}

func (globalChooser) IntN(n int) int { return rand.IntN(n) }

// Engine produces a reply for one message. It holds no per-session state.
type Engine struct {
	gen    generative.Generator
	kb     *knowledge.Base
	choose Chooser
	window int
	logger *slog.Logger
}

// NewEngine creates an Engine sending at most window prior turns to gen.
// A nil chooser uses the global pseudo-random source.
func NewEngine(gen generative.Generator, kb *knowledge.Base, choose Chooser, window int, logger *slog.Logger) *Engine {
	if choose == nil {
		choose = globalChooser{}
	}
	return &Engine{
		gen:    gen,
		kb:     kb,
		choose: choose,
		window: window,
		logger: logger.With("system", "chat"),
	}
}

// Respond answers message in lang given prior turns, oldest first.
// A blank message returns the language's prompt for input without any
// generative call.
func (e *Engine) Respond(ctx context.Context, message string, lang knowledge.Lang, history []Turn) (string, Source) {
	message = strings.TrimSpace(message)
	phrases := e.kb.Language(lang)

	if message == "" {
		return phrases.EmptyPrompt, SourceFallback
	}

	reply, err := e.gen.Generate(ctx, Prompt(message, lang, Window(history, e.window)))
	if err == nil {
		return reply, SourceGenerative
	}
	e.logger.DebugContext(ctx, "generative reply unavailable, using knowledge base", "error", err)

	if reply := e.compose(message, lang, phrases); reply != "" {
		return reply, SourceKnowledge
	}
	return phrases.Fallback, SourceFallback
}

// compose builds a knowledge base reply. A message naming a disease gets a
// structured fact sheet; any other message gets a canned category reply.
func (e *Engine) compose(message string, lang knowledge.Lang, phrases knowledge.Language) string {
	if d, ok := e.kb.DetectDisease(message); ok {
		if facts, ok := e.kb.Medical(d, lang); ok {
			return e.structured(facts, phrases)
		}
	}

	category := phrases.Match(message)
	return e.pick(category.Responses)
}

func (e *Engine) structured(facts knowledge.Medical, phrases knowledge.Language) string {
	var sb strings.Builder
	h := phrases.Headings

	if starter := e.pick(phrases.Starters); starter != "" {
		sb.WriteString(starter + "\n\n")
	}

	fmt.Fprintf(&sb, "**"+h.About+"**\n%s\n\n", facts.Name, facts.Definition)

	sb.WriteString("**" + h.Symptoms + "**\n")
	for _, s := range facts.Symptoms[:min(3, len(facts.Symptoms))] {
		sb.WriteString("• " + s + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("**" + h.WhatToDo + "**\n")
	if advice := phrases.Urgency[facts.Urgency]; advice != "" {
		sb.WriteString("• " + advice + "\n")
	}
	for _, s := range phrases.WhatToDo {
		sb.WriteString("• " + s + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("**" + h.NextSteps + "**\n")
	sb.WriteString(e.pick(phrases.Closings))

	return sb.String()
}

func (e *Engine) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[e.choose.IntN(len(options))]
}

// Window returns the last n turns of history.
func Window(history []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// Prompt builds the generative prompt: the persona fixed to lang, the prior
// turns as a transcript, and the new message.
func Prompt(message string, lang knowledge.Lang, history []Turn) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, persona, lang.Name())

	if len(history) > 0 {
		sb.WriteString("\n\nConversation so far:\n")
		for _, t := range history {
			fmt.Fprintf(&sb, "User: %s\nDr. EyeBot: %s\n", t.Message, t.Response)
		}
	}

	fmt.Fprintf(&sb, "\n\nUser: %s\nDr. EyeBot:", message)
	return sb.String()
}
