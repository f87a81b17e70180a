package workflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/iris/pkg/imaging"
)

// IntakeNode returns a state node that validates the upload's content type,
// persists the original bytes, and normalizes the image into a tensor.
// The bytes are stored before decoding so the source survives a corrupt image.
func IntakeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(intake(rt))
}

func intake(rt *Runtime) func(context.Context, state.State) (state.State, error) {
	return func(ctx context.Context, s state.State) (state.State, error) {
		upload, err := extractUpload(s)
		if err != nil {
			return s, fmt.Errorf("intake: %w", err)
		}

		if err := upload.validate(); err != nil {
			return s, fmt.Errorf("intake: %w: %w", ErrIntakeFailed, err)
		}

		if err := rt.Storage.Upload(ctx, upload.Key, bytes.NewReader(upload.Data), imaging.MediaType(upload.ContentType)); err != nil {
			return s, fmt.Errorf("intake: %w: store image: %w", ErrIntakeFailed, err)
		}

		tensor, err := imaging.Normalize(upload.Data, upload.ContentType)
		if err != nil {
			return s, fmt.Errorf("intake: %w: %w", ErrIntakeFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "intake node complete",
			"image_key", upload.Key,
			"bytes", len(upload.Data),
		)

		s = s.Set(KeyImageKey, upload.Key)
		s = s.Set(KeyTensor, tensor)
		return s, nil
	}
}

func extractUpload(s state.State) (Upload, error) {
	val, ok := s.Get(KeyUpload)
	if !ok {
		return Upload{}, fmt.Errorf("%w: missing %s in state", ErrIntakeFailed, KeyUpload)
	}

	upload, ok := val.(Upload)
	if !ok {
		return Upload{}, fmt.Errorf("%w: %s is not Upload", ErrIntakeFailed, KeyUpload)
	}

	if upload.Key == "" {
		return Upload{}, fmt.Errorf("%w: upload has no storage key", ErrIntakeFailed)
	}

	return upload, nil
}
