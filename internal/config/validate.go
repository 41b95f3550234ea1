package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Every failure is a *ConfigError.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return &ConfigError{
			Field: "tmdb.api_key",
			Hint:  fmt.Sprintf("is required. Set TMDB_API_KEY or edit %s (create with 'marquee config init')", defaultConfigHint()),
		}
	}
	if c.TMDB.Pages > 20 {
		return &ConfigError{Field: "tmdb.pages", Hint: "must be between 1 and 20"}
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderBedrock:
		if c.LLM.AccessKeyID == "" {
			return &ConfigError{Field: "llm.access_key_id", Hint: "is required for the bedrock provider (or set AWS_ACCESS_KEY_ID)"}
		}
		if c.LLM.SecretAccessKey == "" {
			return &ConfigError{Field: "llm.secret_access_key", Hint: "is required for the bedrock provider (or set AWS_SECRET_ACCESS_KEY)"}
		}
		if c.LLM.Region == "" {
			return &ConfigError{Field: "llm.region", Hint: "is required for the bedrock provider (or set AWS_REGION)"}
		}
	case ProviderOpenRouter:
		if c.LLM.APIKey == "" {
			return &ConfigError{Field: "llm.api_key", Hint: "is required for the openrouter provider (or set OPENROUTER_API_KEY)"}
		}
	case ProviderGemini:
		if c.LLM.APIKey == "" {
			return &ConfigError{Field: "llm.api_key", Hint: "is required for the gemini provider (or set GEMINI_API_KEY)"}
		}
	default:
		return &ConfigError{
			Field: "llm.provider",
			Hint:  fmt.Sprintf("must be one of %s, %s, %s (got %q)", ProviderBedrock, ProviderOpenRouter, ProviderGemini, c.LLM.Provider),
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if !strings.Contains(c.Server.Bind, ":") {
		return &ConfigError{Field: "server.bind", Hint: fmt.Sprintf("must be host:port (got %q)", c.Server.Bind)}
	}
	return nil
}

func defaultConfigHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return "~/.config/marquee/config.toml"
	}
	return path
}
