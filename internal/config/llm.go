package config

import (
	"fmt"
	"os"
	"time"
)

// LLMConfig defines configuration for a single text-generation provider.
// This is the unified configuration structure used across the application.
type LLMConfig struct {
	Provider       string  `mapstructure:"provider"`        // Provider type: "openai", "huggingface"
	Model          string  `mapstructure:"model"`           // Model name/ID
	APIKey         string  `mapstructure:"api_key"`         // API key (can be set directly or via env var)
	APIKeyEnv      string  `mapstructure:"api_key_env"`     // Environment variable name for API key
	BaseURL        string  `mapstructure:"base_url"`        // API base URL
	BaseURLEnv     string  `mapstructure:"base_url_env"`    // Environment variable name for base URL
	MaxTokens      int     `mapstructure:"max_tokens"`      // Completion token cap
	Temperature    float32 `mapstructure:"temperature"`     // Sampling temperature
	TimeoutSeconds int     `mapstructure:"timeout_seconds"` // Request timeout
}

// ResolveEnvVars resolves environment variable references in the configuration.
// If APIKeyEnv or BaseURLEnv are set, their values are loaded from environment.
// Direct values (APIKey, BaseURL) take precedence if already set.
func (c *LLMConfig) ResolveEnvVars() {
	if c.APIKeyEnv != "" && c.APIKey == "" {
		if val := os.Getenv(c.APIKeyEnv); val != "" {
			c.APIKey = val
		}
	}

	if c.BaseURLEnv != "" && c.BaseURL == "" {
		if val := os.Getenv(c.BaseURLEnv); val != "" {
			c.BaseURL = val
		}
	}
}

// Enabled reports whether this provider has credentials and can be called.
func (c *LLMConfig) Enabled() bool {
	return c != nil && c.APIKey != ""
}

// Timeout returns the request timeout as a duration, defaulting to 15s.
func (c *LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks that the provider configuration has all required fields.
// Returns an error describing the first validation failure, or nil if valid.
func (c *LLMConfig) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("llm config: provider is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm %q: model is required", c.Provider)
	}

	switch c.Provider {
	case "openai", "huggingface":
		// Valid providers
	default:
		return fmt.Errorf("llm config: unknown provider %q", c.Provider)
	}

	return nil
}

// ValidateWithAPIKey validates the configuration including API key requirement.
// Use this when the provider will actually be called (not just configured).
func (c *LLMConfig) ValidateWithAPIKey() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("llm %q: api_key is required (set directly or via %s)", c.Provider, c.APIKeyEnv)
	}
	return nil
}

// Clone creates a copy of the provider configuration.
func (c *LLMConfig) Clone() *LLMConfig {
	out := *c
	return &out
}
