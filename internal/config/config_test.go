package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"marquee/internal/config"
	"marquee/internal/services"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TMDB_API_KEY",
		"AWS_REGION",
		"AWS_DEFAULT_REGION",
		"AWS_ACCESS_KEY_ID",
		"AWS_SECRET_ACCESS_KEY",
		"OPENROUTER_API_KEY",
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
		"MARQUEE_BIND",
	} {
		t.Setenv(key, "")
	}
}

func setBedrockEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
}

func TestLoadDefaultConfigUsesEnvCredentials(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("TMDB_API_KEY", "test-key")
	setBedrockEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.LLM.Provider != config.ProviderBedrock {
		t.Fatalf("expected bedrock provider by default, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Region != "us-east-1" || cfg.LLM.AccessKeyID != "AKIDEXAMPLE" || cfg.LLM.SecretAccessKey != "secret" {
		t.Fatalf("expected AWS credentials from env, got %+v", cfg.LLM)
	}
	if !strings.HasPrefix(cfg.LLM.Model, "anthropic.") {
		t.Fatalf("expected bedrock default model, got %q", cfg.LLM.Model)
	}
	if cfg.Server.Bind != "127.0.0.1:8501" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.TMDB.Pages != 5 {
		t.Fatalf("expected 5 discover pages by default, got %d", cfg.TMDB.Pages)
	}
	if !cfg.TMDB.FetchRuntime {
		t.Fatal("expected runtime lookup enabled by default")
	}
	if cfg.TMDB.CertificationCountry != "US" {
		t.Fatalf("expected US certification country by default, got %q", cfg.TMDB.CertificationCountry)
	}
}

func TestLoadMissingTMDBKeyIsConfigError(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	setBedrockEnv(t)

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when TMDB key missing")
	}
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Field != "tmdb.api_key" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestLoadMissingAWSCredentials(t *testing.T) {
	cases := []struct {
		name  string
		unset string
		field string
	}{
		{name: "access key", unset: "AWS_ACCESS_KEY_ID", field: "llm.access_key_id"},
		{name: "secret", unset: "AWS_SECRET_ACCESS_KEY", field: "llm.secret_access_key"},
		{name: "region", unset: "AWS_REGION", field: "llm.region"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearCredentialEnv(t)
			t.Setenv("HOME", t.TempDir())
			t.Chdir(t.TempDir())
			t.Setenv("TMDB_API_KEY", "key")
			setBedrockEnv(t)
			t.Setenv(tc.unset, "")

			_, _, _, err := config.Load("")
			var cfgErr *config.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, cfgErr.Field)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearCredentialEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "marquee.toml")

	type payload struct {
		TMDB struct {
			APIKey      string `toml:"api_key"`
			BaseURL     string `toml:"base_url"`
			MaxResults  int    `toml:"max_results"`
			CertCountry string `toml:"certification_country"`
		} `toml:"tmdb"`
		LLM struct {
			Provider string `toml:"provider"`
			APIKey   string `toml:"api_key"`
		} `toml:"llm"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.BaseURL = "https://example.com/tmdb/"
	custom.TMDB.MaxResults = 12
	custom.TMDB.CertCountry = " gb "
	custom.LLM.Provider = "OpenRouter"
	custom.LLM.APIKey = "or-key"
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "DEBUG"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("unexpected TMDB key: %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.MaxResults != 12 {
		t.Fatalf("unexpected max results: %d", cfg.TMDB.MaxResults)
	}
	if cfg.TMDB.CertificationCountry != "GB" {
		t.Fatalf("expected certification country normalized to GB, got %q", cfg.TMDB.CertificationCountry)
	}
	if cfg.LLM.Provider != config.ProviderOpenRouter {
		t.Fatalf("expected provider normalized to openrouter, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.BaseURL == "" || cfg.LLM.Model == "" {
		t.Fatalf("expected openrouter defaults, got %+v", cfg.LLM)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearCredentialEnv(t)
	configPath := filepath.Join(t.TempDir(), "marquee.toml")
	content := "[tmdb]\napi_key = \"k\"\n\n[llm]\nprovider = \"carrier-pigeon\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "llm.provider" {
		t.Fatalf("expected llm.provider ConfigError, got %v", err)
	}
}

func TestGeminiKeyFromEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("TMDB_API_KEY", "k")
	t.Setenv("GEMINI_API_KEY", "g-key")
	configPath := filepath.Join(t.TempDir(), "marquee.toml")
	if err := os.WriteFile(configPath, []byte("[llm]\nprovider = \"gemini\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "g-key" {
		t.Fatalf("expected gemini key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gemini-1.5-flash" {
		t.Fatalf("unexpected gemini model %q", cfg.LLM.Model)
	}
}

func TestLoadDotEnvDoesNotOverrideExisting(t *testing.T) {
	clearCredentialEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "TMDB_API_KEY=from-file\nAWS_REGION=eu-west-1\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("AWS_REGION", "us-west-2")
	// t.Setenv("X", "") leaves the variable set, so unset it for the file to apply.
	os.Unsetenv("TMDB_API_KEY")

	if err := config.LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("TMDB_API_KEY"); got != "from-file" {
		t.Fatalf("expected TMDB key from dotenv, got %q", got)
	}
	if got := os.Getenv("AWS_REGION"); got != "us-west-2" {
		t.Fatalf("expected existing region to win, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing dotenv to be ignored, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("TMDB_API_KEY", "k")
	setBedrockEnv(t)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.LLM.Provider != config.ProviderBedrock {
		t.Fatalf("unexpected sample provider %q", cfg.LLM.Provider)
	}
}
