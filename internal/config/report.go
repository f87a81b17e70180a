package config

import (
	"fmt"
	"time"
)

const (
	EnvReportFontPath   = "IRIS_REPORT_FONT_PATH"
	EnvReportModelLabel = "IRIS_REPORT_MODEL_LABEL"
	EnvReportTimezone   = "IRIS_REPORT_TIMEZONE"
)

// ReportConfig controls PDF report rendering.
// FontPath optionally names a UTF-8 TrueType font with Tamil glyphs that
// replaces the embedded one.
type ReportConfig struct {
	FontPath   string `toml:"font_path"`
	ModelLabel string `toml:"model_label"`
	Timezone   string `toml:"timezone"`
}

// Location returns the timezone report timestamps are rendered in.
func (c *ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReportConfig) Finalize() error {
	if c.ModelLabel == "" {
		c.ModelLabel = "ResNet50 + GPT-4"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}

	envOverride(&c.FontPath, EnvReportFontPath)
	envOverride(&c.ModelLabel, EnvReportModelLabel)
	envOverride(&c.Timezone, EnvReportTimezone)

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ReportConfig) Merge(overlay *ReportConfig) {
	if overlay.FontPath != "" {
		c.FontPath = overlay.FontPath
	}
	if overlay.ModelLabel != "" {
		c.ModelLabel = overlay.ModelLabel
	}
	if overlay.Timezone != "" {
		c.Timezone = overlay.Timezone
	}
}
