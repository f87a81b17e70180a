package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentName         = "IRIS_AGENT_NAME"
	EnvAgentProviderName = "IRIS_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "IRIS_AGENT_BASE_URL"
	EnvAgentToken        = "IRIS_AGENT_TOKEN"
	EnvAgentDeployment   = "IRIS_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "IRIS_AGENT_API_VERSION"
	EnvAgentAuthType     = "IRIS_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "IRIS_AGENT_MODEL_NAME"
)

// Provider options populated from the environment, keyed by go-agents option name.
var agentOptionEnv = map[string]string{
	"token":       EnvAgentToken,
	"deployment":  EnvAgentDeployment,
	"api_version": EnvAgentAPIVersion,
	"auth_type":   EnvAgentAuthType,
}

// FinalizeAgent layers go-agents defaults, IRIS_AGENT_* overrides and validation
// onto an agent config.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Name == "" {
		c.Name = "iris-assistant"
	}
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	envOverride(&c.Name, EnvAgentName)
	envOverride(&c.Provider.Name, EnvAgentProviderName)
	envOverride(&c.Provider.BaseURL, EnvAgentBaseURL)
	envOverride(&c.Model.Name, EnvAgentModelName)

	for key, envVar := range agentOptionEnv {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	switch {
	case c.Provider.Name == "":
		return fmt.Errorf("provider name required")
	case c.Model.Name == "":
		return fmt.Errorf("model name required")
	}
	return nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
