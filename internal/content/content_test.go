package content_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/internal/generative"
	"github.com/JaimeStill/iris/internal/knowledge"
)

func setup(t *testing.T, gen generative.Generator) (content.Assembler, *knowledge.Base) {
	t.Helper()
	kb, err := knowledge.Load()
	if err != nil {
		t.Fatalf("knowledge.Load() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return content.New(gen, kb, logger), kb
}

func fields(b content.Bundle) map[string]string {
	return map[string]string{
		"english":    b.English,
		"tamil":      b.Tamil,
		"symptoms":   b.Symptoms,
		"causes":     b.Causes,
		"treatment":  b.Treatment,
		"prevention": b.Prevention,
		"disclaimer": b.Disclaimer,
	}
}

func TestAssembleFallback(t *testing.T) {
	a, kb := setup(t, generative.Unavailable())

	labels := append([]disease.Disease{}, disease.Classes...)
	labels = append(labels, disease.Disease("keratoconus"))

	for _, d := range labels {
		t.Run(string(d), func(t *testing.T) {
			bundle, source := a.Assemble(context.Background(), d, 80, disease.Derive(d, 80))

			if source != content.SourceStatic {
				t.Errorf("source = %s, want static", source)
			}
			for key, v := range fields(bundle) {
				if v == "" {
					t.Errorf("%s is empty", key)
				}
			}
			if bundle.Disclaimer != kb.Disclaimer {
				t.Errorf("disclaimer = %q", bundle.Disclaimer)
			}

			want := d
			if !d.Known() {
				want = disease.Normal
			}
			if bundle.English != kb.Content(want).English {
				t.Errorf("english text does not match %s bundle", want)
			}
		})
	}
}

func TestAssembleGenerative(t *testing.T) {
	var prompt string
	gen := generative.Func(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "```json\n" + `{
  "english": "Glaucoma damages the optic nerve.",
  "tamil": "கிளௌகோமா",
  "symptoms": "Blurred vision\nHalos",
  "causes": "High pressure",
  "treatment": "Drops",
  "prevention": "Checkups"
}` + "\n```", nil
	})

	a, kb := setup(t, gen)
	bundle, source := a.Assemble(context.Background(), disease.Glaucoma, 91.234, disease.Severe)

	if source != content.SourceGenerative {
		t.Fatalf("source = %s, want generative", source)
	}
	if bundle.English != "Glaucoma damages the optic nerve." {
		t.Errorf("english = %q", bundle.English)
	}
	if bundle.Symptoms != "Blurred vision\nHalos" {
		t.Errorf("symptoms = %q", bundle.Symptoms)
	}
	if bundle.Disclaimer != kb.Disclaimer {
		t.Errorf("missing disclaimer not defaulted: %q", bundle.Disclaimer)
	}

	for _, want := range []string{"Disease detected: Glaucoma", "AI Confidence: 91.2%", "Severity: SEVERE", `"prevention"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAssembleGenerativeFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "call error", err: errors.New("timeout")},
		{name: "not json", reply: "I cannot help with that."},
		{name: "missing keys", reply: `{"english": "x", "tamil": "y"}`},
		{name: "null key", reply: `{"english": "x", "tamil": "y", "symptoms": null, "causes": "", "treatment": "", "prevention": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := generative.Func(func(context.Context, string) (string, error) {
				return tt.reply, tt.err
			})
			a, kb := setup(t, gen)

			bundle, source := a.Assemble(context.Background(), disease.Cataract, 72, disease.Moderate)
			if source != content.SourceStatic {
				t.Errorf("source = %s, want static", source)
			}
			if bundle.Symptoms != kb.Content(disease.Cataract).Symptoms {
				t.Errorf("symptoms not from static bundle")
			}
		})
	}
}

func TestAssembleKeepsGeneratedDisclaimer(t *testing.T) {
	gen := generative.Func(func(context.Context, string) (string, error) {
		return `{"english":"a","tamil":"b","symptoms":"","causes":"","treatment":"","prevention":"","disclaimer":"Consult a doctor."}`, nil
	})
	a, _ := setup(t, gen)

	bundle, _ := a.Assemble(context.Background(), disease.Normal, 95, disease.Mild)
	if bundle.Disclaimer != "Consult a doctor." {
		t.Errorf("disclaimer = %q", bundle.Disclaimer)
	}
}
