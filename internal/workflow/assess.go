package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// AssessNode returns a state node that assembles the bilingual content
// bundle for the prediction.
func AssessNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(assess(rt))
}

func assess(rt *Runtime) func(context.Context, state.State) (state.State, error) {
	return func(ctx context.Context, s state.State) (state.State, error) {
		pred, err := extractPrediction(s, ErrAssessFailed)
		if err != nil {
			return s, fmt.Errorf("assess: %w", err)
		}

		bundle, source := rt.Content.Assemble(ctx, pred.Disease, pred.Confidence, pred.Severity)

		rt.Logger.InfoContext(
			ctx, "assess node complete",
			"disease", pred.Disease,
			"source", source,
		)

		s = s.Set(KeyContent, bundle)
		s = s.Set(KeySource, source)
		return s, nil
	}
}
