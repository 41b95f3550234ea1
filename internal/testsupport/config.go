package testsupport

import (
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a valid config with fake credentials and a log file in a
// per-test temp directory. Options point it at fake servers.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.TMDB.APIKey = FakeTMDBKey
	cfgVal.LLM.Provider = config.ProviderOpenRouter
	cfgVal.LLM.APIKey = "llm-test-key"
	cfgVal.LLM.Model = "test/model"
	cfgVal.LLM.TimeoutSeconds = 5
	cfgVal.Logging.File = filepath.Join(base, "logs", "marquee.log")
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDBServer points the catalog at a fake TMDB server.
func WithTMDBServer(fake *FakeTMDB) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = fake.URL()
	}
}

// WithLLMServer points the interpreter at a fake OpenRouter-compatible server.
func WithLLMServer(fake *FakeLLM) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.Provider = config.ProviderOpenRouter
		b.cfg.LLM.BaseURL = fake.URL()
	}
}

// WithoutRuntimeLookup disables per-movie detail requests.
func WithoutRuntimeLookup() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.FetchRuntime = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Logging.File))
}
