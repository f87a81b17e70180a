// Package disease defines the fixed classification label set, severity bands,
// and the rule that derives one from the other.
package disease

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Disease is a classification label.
type Disease string

const (
	Cataract            Disease = "cataract"
	DiabeticRetinopathy Disease = "diabetic_retinopathy"
	Glaucoma            Disease = "glaucoma"
	Normal              Disease = "normal"
)

// Classes lists every label in model output order.
var Classes = []Disease{Cataract, DiabeticRetinopathy, Glaucoma, Normal}

var colors = map[Disease]string{
	Cataract:            "#ef4444",
	DiabeticRetinopathy: "#f97316",
	Glaucoma:            "#3b82f6",
	Normal:              "#22c55e",
}

// Parse returns the Disease named by s and whether it is a known label.
func Parse(s string) (Disease, bool) {
	d := Disease(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Known()
}

// Known reports whether d is one of Classes.
func (d Disease) Known() bool {
	_, ok := colors[d]
	return ok
}

// DisplayName returns the title-cased label, e.g. "Diabetic Retinopathy".
func (d Disease) DisplayName() string {
	words := strings.Split(string(d), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Color returns the hex colour used for d in pages and reports.
// Unknown labels use the normal colour.
func (d Disease) Color() string {
	if c, ok := colors[d]; ok {
		return c
	}
	return colors[Normal]
}

// Probabilities maps each label to its percentage probability.
type Probabilities map[Disease]float64

// Complete returns a copy containing every label in Classes, with missing
// labels at zero and unknown labels dropped.
func (p Probabilities) Complete() Probabilities {
	out := make(Probabilities, len(Classes))
	for _, d := range Classes {
		out[d] = p[d]
	}
	return out
}

// ParseProbabilities decodes a stored JSON probability object. The result is
// never nil: empty or malformed input yields an empty map, alongside the
// decode error for malformed input.
func ParseProbabilities(raw string) (Probabilities, error) {
	probs := make(Probabilities)
	if strings.TrimSpace(raw) == "" {
		return probs, nil
	}
	if err := json.Unmarshal([]byte(raw), &probs); err != nil {
		return Probabilities{}, fmt.Errorf("decode probabilities: %w", err)
	}
	return probs, nil
}

// Sum totals the probabilities.
func (p Probabilities) Sum() float64 {
	var total float64
	for _, v := range p {
		total += v
	}
	return total
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
