package config

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/iris/pkg/formatting"
	"github.com/JaimeStill/iris/pkg/middleware"
	"github.com/JaimeStill/iris/pkg/openapi"
	"github.com/JaimeStill/iris/pkg/pagination"
)

const (
	EnvAPIBasePath      = "IRIS_API_BASE_PATH"
	EnvAPIMaxUploadSize = "IRIS_API_MAX_UPLOAD_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "IRIS_CORS_ENABLED",
	Origins:          "IRIS_CORS_ORIGINS",
	AllowedMethods:   "IRIS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "IRIS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "IRIS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "IRIS_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "IRIS_OPENAPI_TITLE",
	Description: "IRIS_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "IRIS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "IRIS_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload limits, CORS, OpenAPI metadata, and
// pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 << 20
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	envOverride(&c.BasePath, EnvAPIBasePath)
	envOverride(&c.MaxUploadSize, EnvAPIMaxUploadSize)

	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("invalid base_path %q: must be a single segment like /api", c.BasePath)
	}
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.Pagination.Merge(&overlay.Pagination)
}

