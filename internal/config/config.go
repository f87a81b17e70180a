// Package config loads and finalizes the iris service configuration from
// TOML files and IRIS_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/iris/pkg/database"
	"github.com/JaimeStill/iris/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvIrisEnv             = "IRIS_ENV"
	EnvIrisShutdownTimeout = "IRIS_SHUTDOWN_TIMEOUT"
	EnvIrisVersion         = "IRIS_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "IRIS_DB_DSN",
	Host:            "IRIS_DB_HOST",
	Port:            "IRIS_DB_PORT",
	Name:            "IRIS_DB_NAME",
	User:            "IRIS_DB_USER",
	Password:        "IRIS_DB_PASSWORD",
	SSLMode:         "IRIS_DB_SSL_MODE",
	MaxOpenConns:    "IRIS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "IRIS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "IRIS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "IRIS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "IRIS_STORAGE_PROVIDER",
	Root:             "IRIS_STORAGE_ROOT",
	ContainerName:    "IRIS_STORAGE_CONTAINER",
	ConnectionString: "IRIS_STORAGE_CONNECTION_STRING",
	S3Endpoint:       "IRIS_STORAGE_S3_ENDPOINT",
	S3Region:         "IRIS_STORAGE_S3_REGION",
	S3AccessKey:      "IRIS_STORAGE_S3_ACCESS_KEY",
	S3SecretKey:      "IRIS_STORAGE_S3_SECRET_KEY",
	S3UsePathStyle:   "IRIS_STORAGE_S3_USE_PATH_STYLE",
}

// Config is the root configuration for the iris service.
// Agent is nil when no generative provider is configured.
type Config struct {
	Agent           *gaconfig.AgentConfig `toml:"agent"`
	Server          ServerConfig          `toml:"server"`
	Database        database.Config       `toml:"database"`
	Storage         storage.Config        `toml:"storage"`
	API             APIConfig             `toml:"api"`
	Classifier      ClassifierConfig      `toml:"classifier"`
	Report          ReportConfig          `toml:"report"`
	Chat            ChatConfig            `toml:"chat"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the IRIS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvIrisEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Agent != nil {
		if c.Agent == nil {
			c.Agent = overlay.Agent
		} else {
			c.Agent.Merge(overlay.Agent)
		}
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Classifier.Merge(&overlay.Classifier)
	c.Report.Merge(&overlay.Report)
	c.Chat.Merge(&overlay.Chat)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if c.Agent != nil {
		if err := FinalizeAgent(c.Agent); err != nil {
			return fmt.Errorf("agent: %w", err)
		}
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Classifier.Finalize(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Report.Finalize(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := c.Chat.Finalize(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvIrisShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvIrisVersion); v != "" {
		c.Version = v
	}
	if c.Agent == nil && os.Getenv(EnvAgentProviderName) != "" {
		c.Agent = &gaconfig.AgentConfig{}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvIrisEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
