// Package generative exposes an optional text-generation capability backed by
// a go-agents provider. Availability is decided once at construction; an
// unavailable generator fails every call immediately with ErrUnavailable.
package generative

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/iris/pkg/capability"
)

var (
	// ErrUnavailable indicates no usable generative provider is configured.
	ErrUnavailable = errors.New("generative capability unavailable")
	// ErrEmptyResponse indicates the provider returned no content.
	ErrEmptyResponse = errors.New("generative response empty")
	// ErrNotConfigured indicates no agent configuration was supplied.
	ErrNotConfigured = errors.New("no agent configured")
	// ErrMissingCredential indicates a hosted provider has no token.
	ErrMissingCredential = errors.New("provider token not configured")
)

// Providers that run without a token.
var tokenless = map[string]bool{
	"ollama": true,
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	State() capability.State
}

type generator struct {
	cfg    *gaconfig.AgentConfig
	state  capability.State
	logger *slog.Logger
}

// New probes cfg and returns a Generator. The probe never fails construction;
// a nil, incomplete, or unconstructable config yields an unavailable generator.
func New(cfg *gaconfig.AgentConfig, logger *slog.Logger) Generator {
	logger = logger.With("system", "generative")
	g := &generator{cfg: cfg, logger: logger}

	g.state, _ = capability.Probe(logger, "generative", func() error {
		if cfg == nil {
			return ErrNotConfigured
		}
		if cfg.Provider == nil {
			return ErrNotConfigured
		}
		if !tokenless[cfg.Provider.Name] {
			if token, _ := cfg.Provider.Options["token"].(string); token == "" {
				return ErrMissingCredential
			}
		}
		if _, err := agent.New(cfg); err != nil {
			return fmt.Errorf("create agent: %w", err)
		}
		return nil
	})

	return g
}

func (g *generator) State() capability.State {
	return g.state
}

// Generate sends prompt as a single chat turn. Each call builds its own agent.
func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.state != capability.Available {
		return "", ErrUnavailable
	}

	a, err := agent.New(g.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	content := strings.TrimSpace(resp.Content())
	if content == "" {
		return "", ErrEmptyResponse
	}

	g.logger.DebugContext(ctx, "generation complete", "chars", len(content))
	return content, nil
}

// Func adapts a function to Generator with a fixed state. Tests and
// stand-alone tools use it in place of a provider.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func (f Func) State() capability.State {
	return capability.Available
}

type unavailable struct{}

// Unavailable returns a Generator that always fails with ErrUnavailable.
func Unavailable() Generator { return unavailable{} }

func (unavailable) Generate(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

func (unavailable) State() capability.State { return capability.Unavailable }
