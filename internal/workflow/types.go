package workflow

import (
	"time"

	"github.com/JaimeStill/iris/internal/classifier"
	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/pkg/imaging"
)

const (
	KeyUpload     = "upload"
	KeyImageKey   = "image_key"
	KeyTensor     = "tensor"
	KeyPrediction = "prediction"
	KeyContent    = "content"
	KeySource     = "content_source"
)

// Upload is one image submitted for classification.
// Key is the storage key the original bytes are written to.
type Upload struct {
	Key         string
	ContentType string
	Data        []byte
}

// Result is the output of one pipeline run.
type Result struct {
	ImageKey      string                `json:"image_key"`
	Prediction    classifier.Prediction `json:"prediction"`
	Content       content.Bundle        `json:"content"`
	ContentSource content.Source        `json:"content_source"`
	CompletedAt   time.Time             `json:"completed_at"`
}

// Stage selects how far the pipeline runs.
type Stage int

const (
	// StageClassify stops after classification; Result.Content is empty.
	StageClassify Stage = iota
	// StageAssess runs the full pipeline.
	StageAssess
)

func (u Upload) validate() error {
	return imaging.ValidateContentType(u.ContentType)
}
