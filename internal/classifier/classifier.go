// Package classifier maps normalized eye images to a probability
// distribution over the disease label set. When no model can be loaded the
// classifier runs in demo mode and samples plausible distributions instead.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/pkg/imaging"
)

// Mode is the operating mode, fixed when the classifier is constructed.
type Mode string

const (
	ModeLoaded Mode = "loaded"
	ModeDemo   Mode = "demo"
)

// ErrOutputShape indicates the model produced a vector of the wrong length.
var ErrOutputShape = errors.New("model output does not match class count")

// Prediction is the outcome of one classification.
type Prediction struct {
	Disease       disease.Disease       `json:"disease"`
	Confidence    float64               `json:"confidence"`
	Severity      disease.Severity      `json:"severity"`
	Probabilities disease.Probabilities `json:"all_probs"`
}

// Model runs a forward pass over a tensor and returns one score per class,
// in disease.Classes order.
type Model interface {
	Infer(t imaging.Tensor) ([]float32, error)
	Close() error
}

// Sampler draws a probability vector over disease.Classes.
type Sampler interface {
	Sample() []float64
}

// Classifier predicts a disease from a normalized image. Predict never fails:
// inference errors yield the fixed safe prediction.
type Classifier interface {
	Predict(ctx context.Context, t imaging.Tensor) Prediction
	Mode() Mode
	Close() error
}

type classifier struct {
	model   Model
	sampler Sampler
	logger  *slog.Logger
}

// New returns a classifier over model. A nil model selects demo mode, which
// draws from sampler.
func New(model Model, sampler Sampler, logger *slog.Logger) Classifier {
	c := &classifier{
		model:   model,
		sampler: sampler,
		logger:  logger.With("system", "classifier"),
	}
	c.logger.Info("classifier initialized", "mode", c.Mode())
	return c
}

func (c *classifier) Mode() Mode {
	if c.model != nil {
		return ModeLoaded
	}
	return ModeDemo
}

func (c *classifier) Close() error {
	if c.model == nil {
		return nil
	}
	return c.model.Close()
}

func (c *classifier) Predict(ctx context.Context, t imaging.Tensor) Prediction {
	probs, err := c.scores(t)
	if err != nil {
		c.logger.Warn("prediction failed, using safe fallback", "error", err)
		return Fallback()
	}
	return fromScores(probs)
}

func (c *classifier) scores(t imaging.Tensor) ([]float64, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("malformed tensor: shape %v with %d values", t.Shape, len(t.Data))
	}

	if c.model == nil {
		return checkScores(c.sampler.Sample())
	}

	out, err := c.model.Infer(t)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	scores := make([]float64, len(out))
	for i, v := range out {
		scores[i] = float64(v)
	}
	return checkScores(scores)
}

// checkScores validates a score vector and normalizes it to a distribution.
// Vectors with any score outside [0,1] are treated as logits and passed
// through softmax. Other vectors that do not already sum to 1 are rescaled.
func checkScores(scores []float64) ([]float64, error) {
	if len(scores) != len(disease.Classes) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrOutputShape, len(scores), len(disease.Classes))
	}

	logits := false
	for _, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("invalid score %v", s)
		}
		if s < 0 || s > 1 {
			logits = true
		}
	}

	out := make([]float64, len(scores))
	copy(out, scores)

	if logits {
		lse := floats.LogSumExp(out)
		for i, s := range out {
			out[i] = math.Exp(s - lse)
		}
		return out, nil
	}

	sum := floats.Sum(out)
	if sum <= 0 {
		return nil, fmt.Errorf("scores sum to %v", sum)
	}
	if math.Abs(sum-1) > sumTolerance {
		floats.Scale(1/sum, out)
	}
	return out, nil
}

const sumTolerance = 1e-3

// Fallback is the fixed prediction returned when inference fails.
func Fallback() Prediction {
	return fromScores([]float64{0.785, 0.1, 0.08, 0.035})
}

func fromScores(scores []float64) Prediction {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}

	probs := make(disease.Probabilities, len(disease.Classes))
	for i, d := range disease.Classes {
		probs[d] = disease.Round2(clamp(scores[i]) * 100)
	}

	d := disease.Classes[best]
	conf := disease.Round2(clamp(scores[best]) * 100)

	return Prediction{
		Disease:       d,
		Confidence:    conf,
		Severity:      disease.Derive(d, conf),
		Probabilities: probs,
	}
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
