package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/iris/internal/classifier"
	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/pkg/imaging"
)

// ClassifyNode returns a state node that runs the classifier over the
// normalized tensor and re-derives severity from the predicted disease and
// confidence.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(classify(rt))
}

func classify(rt *Runtime) func(context.Context, state.State) (state.State, error) {
	return func(ctx context.Context, s state.State) (state.State, error) {
		val, ok := s.Get(KeyTensor)
		if !ok {
			return s, fmt.Errorf("classify: %w: missing %s in state", ErrClassifyFailed, KeyTensor)
		}

		tensor, ok := val.(imaging.Tensor)
		if !ok {
			return s, fmt.Errorf("classify: %w: %s is not Tensor", ErrClassifyFailed, KeyTensor)
		}

		pred := rt.Classifier.Predict(ctx, tensor)

		if derived := disease.Derive(pred.Disease, pred.Confidence); derived != pred.Severity {
			rt.Logger.WarnContext(
				ctx, "classifier severity disagrees with derivation",
				"classifier", pred.Severity,
				"derived", derived,
			)
			pred.Severity = derived
		}

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"mode", rt.Classifier.Mode(),
			"disease", pred.Disease,
			"confidence", pred.Confidence,
			"severity", pred.Severity,
		)

		return s.Set(KeyPrediction, pred), nil
	}
}

func extractPrediction(s state.State, sentinel error) (classifier.Prediction, error) {
	val, ok := s.Get(KeyPrediction)
	if !ok {
		return classifier.Prediction{}, fmt.Errorf("%w: missing %s in state", sentinel, KeyPrediction)
	}

	pred, ok := val.(classifier.Prediction)
	if !ok {
		return classifier.Prediction{}, fmt.Errorf("%w: %s is not Prediction", sentinel, KeyPrediction)
	}

	return pred, nil
}
