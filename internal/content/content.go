// Package content assembles the bilingual explanatory bundle attached to a
// detection. A generative model is preferred; any failure falls back to the
// static knowledge tables.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/internal/generative"
	"github.com/JaimeStill/iris/internal/knowledge"
	"github.com/JaimeStill/iris/pkg/formatting"
)

// Source records where a bundle came from.
type Source string

const (
	SourceGenerative Source = "generative"
	SourceStatic     Source = "static"
)

// Bundle is the seven-field explanatory content for one detection.
// List fields are newline-delimited.
type Bundle struct {
	English    string `json:"english"`
	Tamil      string `json:"tamil"`
	Symptoms   string `json:"symptoms"`
	Causes     string `json:"causes"`
	Treatment  string `json:"treatment"`
	Prevention string `json:"prevention"`
	Disclaimer string `json:"disclaimer"`
}

// Required lists the keys a generated bundle must define.
var Required = []string{"english", "tamil", "symptoms", "causes", "treatment", "prevention"}

// Assembler produces content bundles.
type Assembler interface {
	Assemble(ctx context.Context, d disease.Disease, confidence float64, severity disease.Severity) (Bundle, Source)
}

type assembler struct {
	gen    generative.Generator
	kb     *knowledge.Base
	logger *slog.Logger
}

// New returns an Assembler that tries gen before the static tables in kb.
func New(gen generative.Generator, kb *knowledge.Base, logger *slog.Logger) Assembler {
	return &assembler{
		gen:    gen,
		kb:     kb,
		logger: logger.With("system", "content"),
	}
}

func (a *assembler) Assemble(ctx context.Context, d disease.Disease, confidence float64, severity disease.Severity) (Bundle, Source) {
	bundle, err := a.generate(ctx, d, confidence, severity)
	if err == nil {
		return a.complete(bundle), SourceGenerative
	}

	a.logger.Warn("generative content unavailable, using static content",
		"disease", d,
		"error", err,
	)
	return a.static(d), SourceStatic
}

func (a *assembler) generate(ctx context.Context, d disease.Disease, confidence float64, severity disease.Severity) (Bundle, error) {
	raw, err := a.gen.Generate(ctx, Prompt(d, confidence, severity))
	if err != nil {
		return Bundle{}, err
	}

	bundle, err := formatting.ParseRequired[Bundle](raw, Required...)
	if err != nil {
		return Bundle{}, fmt.Errorf("parse content: %w", err)
	}
	return bundle, nil
}

func (a *assembler) static(d disease.Disease) Bundle {
	b := a.kb.Content(d)
	return Bundle{
		English:    b.English,
		Tamil:      b.Tamil,
		Symptoms:   b.Symptoms,
		Causes:     b.Causes,
		Treatment:  b.Treatment,
		Prevention: b.Prevention,
		Disclaimer: a.kb.Disclaimer,
	}
}

func (a *assembler) complete(b Bundle) Bundle {
	if strings.TrimSpace(b.Disclaimer) == "" {
		b.Disclaimer = a.kb.Disclaimer
	}
	return b
}

// Prompt builds the generative request for one classification.
func Prompt(d disease.Disease, confidence float64, severity disease.Severity) string {
	return fmt.Sprintf(promptTemplate, d.DisplayName(), confidence, severity)
}

const promptTemplate = `You are an expert ophthalmologist creating a patient-friendly medical report.

Disease detected: %s
AI Confidence: %.1f%%
Severity: %s

Respond ONLY with a valid JSON object using these EXACT keys:
{
  "english": "2-3 sentence clear patient-friendly explanation in English",
  "tamil": "Same explanation fully translated in Tamil script",
  "symptoms": "5 symptoms, one per line (no bullets/numbers)",
  "causes": "5 causes, one per line (no bullets/numbers)",
  "treatment": "4 treatment options, one per line",
  "prevention": "5 prevention tips, one per line",
  "disclaimer": "Standard medical disclaimer"
}

Keep language simple for a general patient audience. Be accurate and compassionate.`
