package config

import (
	"strings"
	"testing"
	"time"
)

func TestLLMConfigEnabled(t *testing.T) {
	var nilCfg *LLMConfig
	if nilCfg.Enabled() {
		t.Error("a nil config is never enabled")
	}
	if (&LLMConfig{Provider: "openai"}).Enabled() {
		t.Error("a config without credentials is not enabled")
	}
	if !(&LLMConfig{APIKey: "sk-test"}).Enabled() {
		t.Error("a config with an API key is enabled")
	}
}

func TestLLMConfigTimeout(t *testing.T) {
	if got := (&LLMConfig{}).Timeout(); got != 15*time.Second {
		t.Errorf("expected the 15s default, got %v", got)
	}
	if got := (&LLMConfig{TimeoutSeconds: 30}).Timeout(); got != 30*time.Second {
		t.Errorf("expected the configured timeout, got %v", got)
	}
}

func TestLLMConfigResolveEnvVars(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "from-env")
	t.Setenv("TEST_LLM_URL", "https://env.example.org")

	cfg := &LLMConfig{APIKeyEnv: "TEST_LLM_KEY", BaseURLEnv: "TEST_LLM_URL"}
	cfg.ResolveEnvVars()
	if cfg.APIKey != "from-env" || cfg.BaseURL != "https://env.example.org" {
		t.Errorf("env references were not resolved: %+v", cfg)
	}

	// Direct values win over indirection.
	direct := &LLMConfig{APIKey: "direct", APIKeyEnv: "TEST_LLM_KEY"}
	direct.ResolveEnvVars()
	if direct.APIKey != "direct" {
		t.Errorf("direct value must take precedence, got %q", direct.APIKey)
	}
}

func TestLLMConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LLMConfig
		wantErr string
	}{
		{name: "valid openai", cfg: LLMConfig{Provider: "openai", Model: "gpt-4o-mini"}},
		{name: "valid huggingface", cfg: LLMConfig{Provider: "huggingface", Model: "bart"}},
		{name: "missing provider", cfg: LLMConfig{Model: "gpt-4o-mini"}, wantErr: "provider is required"},
		{name: "missing model", cfg: LLMConfig{Provider: "openai"}, wantErr: "model is required"},
		{name: "unknown provider", cfg: LLMConfig{Provider: "ollama", Model: "x"}, wantErr: "unknown provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	withoutKey := LLMConfig{Provider: "openai", Model: "gpt-4o-mini"}
	if err := withoutKey.ValidateWithAPIKey(); err == nil {
		t.Error("expected an error when the API key is missing")
	}
	withKey := LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test"}
	if err := withKey.ValidateWithAPIKey(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLLMConfigClone(t *testing.T) {
	original := &LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test"}
	clone := original.Clone()
	clone.APIKey = "changed"

	if original.APIKey != "sk-test" {
		t.Error("mutating the clone must not touch the original")
	}
}
