package classifier

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/pkg/capability"
	"github.com/JaimeStill/iris/pkg/imaging"
)

// ErrModelNotFound indicates the configured model file does not exist.
var ErrModelNotFound = errors.New("model file not found")

var envOnce sync.Once

// OnnxConfig locates an ONNX model and the onnxruntime shared library.
type OnnxConfig struct {
	ModelPath   string
	RuntimePath string
	InputName   string
	OutputName  string
}

type onnxModel struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
}

// OpenOnnx loads the model at cfg.ModelPath. It fails if the file is missing,
// the runtime library cannot be initialized, or the session cannot be built.
func OpenOnnx(cfg OnnxConfig) (Model, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	var initErr error
	envOnce.Do(func() {
		if cfg.RuntimePath != "" {
			ort.SetSharedLibraryPath(cfg.RuntimePath)
		}
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", initErr)
	}
	if !ort.IsInitialized() {
		return nil, errors.New("onnxruntime not initialized")
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &onnxModel{session: session}, nil
}

func (m *onnxModel) Infer(t imaging.Tensor) ([]float32, error) {
	input, err := ort.NewTensor(ort.NewShape(t.Shape...), t.Data)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(disease.Classes))))
	if err != nil {
		return nil, fmt.Errorf("output tensor: %w", err)
	}
	defer output.Destroy()

	m.mu.Lock()
	err = m.session.Run([]ort.Value{input}, []ort.Value{output})
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	return append([]float32(nil), output.GetData()...), nil
}

func (m *onnxModel) Close() error {
	return m.session.Destroy()
}

// Load opens the ONNX model described by cfg and returns a classifier over it.
// Any load failure is logged and the classifier falls back to demo mode.
func Load(cfg OnnxConfig, sampler Sampler, logger *slog.Logger) Classifier {
	var model Model
	capability.Probe(logger, "classifier", func() error {
		m, err := OpenOnnx(cfg)
		if err != nil {
			return err
		}
		model = m
		return nil
	})
	return New(model, sampler, logger)
}
