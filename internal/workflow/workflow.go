package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/iris/internal/content"
)

// Execute runs the detection pipeline for a single upload. StageAssess runs
// intake → classify → assess; StageClassify stops after classification.
func Execute(ctx context.Context, rt *Runtime, upload Upload, stage Stage) (*Result, error) {
	var failure error
	graph, err := buildGraph(rt, stage, &failure)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyUpload, upload)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		if failure != nil {
			return nil, fmt.Errorf("execute graph: %w", failure)
		}
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState, stage)
}

func buildGraph(rt *Runtime, stage Stage, failure *error) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("iris-detect")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("intake", capture(IntakeNode(rt), failure)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", capture(ClassifyNode(rt), failure)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("intake", "classify", nil); err != nil {
		return nil, err
	}

	exit := "classify"
	if stage == StageAssess {
		if err := graph.AddNode("assess", capture(AssessNode(rt), failure)); err != nil {
			return nil, err
		}

		if err := graph.AddEdge("classify", "assess", nil); err != nil {
			return nil, err
		}
		exit = "assess"
	}

	if err := graph.SetEntryPoint("intake"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(exit); err != nil {
		return nil, err
	}

	return graph, nil
}

// capture records the first node error so callers can match workflow sentinels.
func capture(node state.StateNode, failure *error) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		out, err := node.Execute(ctx, s)
		if err != nil && *failure == nil {
			*failure = err
		}
		return out, err
	})
}

func extractResult(s state.State, stage Stage) (*Result, error) {
	keyVal, ok := s.Get(KeyImageKey)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyImageKey)
	}

	key, ok := keyVal.(string)
	if !ok {
		return nil, fmt.Errorf("%s is not string", KeyImageKey)
	}

	pred, err := extractPrediction(s, ErrClassifyFailed)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ImageKey:    key,
		Prediction:  pred,
		CompletedAt: time.Now(),
	}

	if stage == StageClassify {
		return result, nil
	}

	bundleVal, ok := s.Get(KeyContent)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in final state", ErrAssessFailed, KeyContent)
	}

	bundle, ok := bundleVal.(content.Bundle)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not Bundle", ErrAssessFailed, KeyContent)
	}

	source, _ := s.Get(KeySource)
	result.Content = bundle
	result.ContentSource, _ = source.(content.Source)

	return result, nil
}
