package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeServer()
	c.normalizeTMDB()
	c.normalizeLLM()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if value, ok := lookupEnv("MARQUEE_BIND"); ok {
		c.Server.Bind = value
	}
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = defaultReadTimeoutSeconds
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = defaultWriteTimeoutSeconds
	}
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := lookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	c.TMDB.CertificationCountry = strings.ToUpper(strings.TrimSpace(c.TMDB.CertificationCountry))
	if c.TMDB.CertificationCountry == "" {
		c.TMDB.CertificationCountry = defaultTMDBCertCountry
	}
	if c.TMDB.Pages <= 0 {
		c.TMDB.Pages = defaultTMDBPages
	}
	if c.TMDB.MaxResults <= 0 {
		c.TMDB.MaxResults = defaultTMDBMaxResults
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		c.TMDB.TimeoutSeconds = defaultTMDBTimeoutSeconds
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModelFor(c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = defaultLLMMaxTokens
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}

	c.LLM.Region = strings.TrimSpace(c.LLM.Region)
	if c.LLM.Region == "" {
		if value, ok := lookupEnv("AWS_REGION"); ok {
			c.LLM.Region = value
		} else if value, ok := lookupEnv("AWS_DEFAULT_REGION"); ok {
			c.LLM.Region = value
		}
	}
	c.LLM.AccessKeyID = strings.TrimSpace(c.LLM.AccessKeyID)
	if c.LLM.AccessKeyID == "" {
		if value, ok := lookupEnv("AWS_ACCESS_KEY_ID"); ok {
			c.LLM.AccessKeyID = value
		}
	}
	c.LLM.SecretAccessKey = strings.TrimSpace(c.LLM.SecretAccessKey)
	if c.LLM.SecretAccessKey == "" {
		if value, ok := lookupEnv("AWS_SECRET_ACCESS_KEY"); ok {
			c.LLM.SecretAccessKey = value
		}
	}

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderOpenRouter:
			if value, ok := lookupEnv("OPENROUTER_API_KEY"); ok {
				c.LLM.APIKey = value
			}
		case ProviderGemini:
			if value, ok := lookupEnv("GEMINI_API_KEY"); ok {
				c.LLM.APIKey = value
			} else if value, ok := lookupEnv("GOOGLE_API_KEY"); ok {
				c.LLM.APIKey = value
			}
		}
	}

	if c.LLM.Provider == ProviderOpenRouter {
		c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultOpenRouterBaseURL
		}
		c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
		if c.LLM.Referer == "" {
			c.LLM.Referer = defaultOpenRouterReferer
		}
		c.LLM.Title = strings.TrimSpace(c.LLM.Title)
		if c.LLM.Title == "" {
			c.LLM.Title = defaultOpenRouterTitle
		}
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Logging.File))
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
