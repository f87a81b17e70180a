package storage

import (
	"fmt"
	"os"
	"strconv"
)

// Providers supported by New.
const (
	ProviderLocal = "local"
	ProviderAzure = "azure"
	ProviderS3    = "s3"
)

// Config selects a storage provider and holds its connection parameters.
type Config struct {
	Provider         string   `toml:"provider"`
	Root             string   `toml:"root"`
	ContainerName    string   `toml:"container_name"`
	ConnectionString string   `toml:"connection_string"`
	S3               S3Config `toml:"s3"`
}

// S3Config holds S3-compatible object storage parameters.
// Endpoint is optional and targets MinIO or another S3-compatible service.
type S3Config struct {
	Endpoint     string `toml:"endpoint"`
	Region       string `toml:"region"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	Root             string
	ContainerName    string
	ConnectionString string
	S3Endpoint       string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	S3UsePathStyle   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	set(&c.Provider, overlay.Provider)
	set(&c.Root, overlay.Root)
	set(&c.ContainerName, overlay.ContainerName)
	set(&c.ConnectionString, overlay.ConnectionString)
	set(&c.S3.Endpoint, overlay.S3.Endpoint)
	set(&c.S3.Region, overlay.S3.Region)
	set(&c.S3.AccessKey, overlay.S3.AccessKey)
	set(&c.S3.SecretKey, overlay.S3.SecretKey)
	if overlay.S3.UsePathStyle {
		c.S3.UsePathStyle = true
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Root == "" {
		c.Root = "media"
	}
	if c.ContainerName == "" {
		c.ContainerName = "iris"
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	setEnv(&c.Provider, env.Provider)
	setEnv(&c.Root, env.Root)
	setEnv(&c.ContainerName, env.ContainerName)
	setEnv(&c.ConnectionString, env.ConnectionString)
	setEnv(&c.S3.Endpoint, env.S3Endpoint)
	setEnv(&c.S3.Region, env.S3Region)
	setEnv(&c.S3.AccessKey, env.S3AccessKey)
	setEnv(&c.S3.SecretKey, env.S3SecretKey)
	if env.S3UsePathStyle != "" {
		if v, err := strconv.ParseBool(os.Getenv(env.S3UsePathStyle)); err == nil {
			c.S3.UsePathStyle = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.Root == "" {
			return fmt.Errorf("root required for local provider")
		}
	case ProviderAzure:
		if c.ConnectionString == "" {
			return fmt.Errorf("connection_string required for azure provider")
		}
	case ProviderS3:
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("s3 access_key and secret_key required for s3 provider")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Provider != ProviderLocal && c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	return nil
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setEnv(dst *string, key string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
