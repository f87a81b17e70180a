package config

import "fmt"

const (
	EnvClassifierModelPath   = "IRIS_CLASSIFIER_MODEL_PATH"
	EnvClassifierRuntimePath = "IRIS_CLASSIFIER_RUNTIME_PATH"
	EnvClassifierInputName   = "IRIS_CLASSIFIER_INPUT_NAME"
	EnvClassifierOutputName  = "IRIS_CLASSIFIER_OUTPUT_NAME"
)

// ClassifierConfig locates the ONNX model and the onnxruntime shared library.
// An absent model or runtime puts the classifier in demo mode.
type ClassifierConfig struct {
	ModelPath   string `toml:"model_path"`
	RuntimePath string `toml:"runtime_path"`
	InputName   string `toml:"input_name"`
	OutputName  string `toml:"output_name"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	if c.ModelPath == "" {
		c.ModelPath = "models/eye_disease_model.onnx"
	}
	if c.InputName == "" {
		c.InputName = "input"
	}
	if c.OutputName == "" {
		c.OutputName = "output"
	}

	envOverride(&c.ModelPath, EnvClassifierModelPath)
	envOverride(&c.RuntimePath, EnvClassifierRuntimePath)
	envOverride(&c.InputName, EnvClassifierInputName)
	envOverride(&c.OutputName, EnvClassifierOutputName)

	if c.InputName == c.OutputName {
		return fmt.Errorf("input_name and output_name must differ")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.ModelPath != "" {
		c.ModelPath = overlay.ModelPath
	}
	if overlay.RuntimePath != "" {
		c.RuntimePath = overlay.RuntimePath
	}
	if overlay.InputName != "" {
		c.InputName = overlay.InputName
	}
	if overlay.OutputName != "" {
		c.OutputName = overlay.OutputName
	}
}
