package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/catalog/tmdb"
	"marquee/internal/config"
	"marquee/internal/interpreter"
	"marquee/internal/services"
	"marquee/internal/services/bedrock"
	"marquee/internal/services/gemini"
	"marquee/internal/services/llm"
)

// Build assembles a Service from configuration. The returned close function
// releases provider connections and is always non-nil.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, func() error, error) {
	noop := func() error { return nil }
	if cfg == nil {
		return nil, noop, services.Wrap(services.ErrConfiguration, "recommend", "build", "config is nil", nil)
	}

	searcher, err := NewCatalog(cfg, logger)
	if err != nil {
		return nil, noop, err
	}
	completer, closeFn, err := NewCompleter(ctx, cfg.LLM)
	if err != nil {
		return nil, noop, err
	}

	svc := NewService(
		interpreter.New(completer, logger),
		searcher,
		Options{IncludeAdult: cfg.TMDB.IncludeAdult},
		logger,
	)
	return svc, closeFn, nil
}

// NewCatalog builds the TMDB-backed catalog client.
func NewCatalog(cfg *config.Config, logger *slog.Logger) (*catalog.Client, error) {
	api, err := tmdb.New(
		cfg.TMDB.APIKey,
		cfg.TMDB.BaseURL,
		cfg.TMDB.Language,
		tmdb.WithTimeout(time.Duration(cfg.TMDB.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "recommend", "tmdb client", "", err)
	}
	return catalog.New(api, catalog.Options{
		ImageBaseURL:         cfg.TMDB.ImageBaseURL,
		Pages:                cfg.TMDB.Pages,
		MaxResults:           cfg.TMDB.MaxResults,
		FetchRuntime:         cfg.TMDB.FetchRuntime,
		CertificationCountry: cfg.TMDB.CertificationCountry,
	}, logger), nil
}

// NewCompleter builds the model client selected by llm.provider.
func NewCompleter(ctx context.Context, cfg config.LLM) (interpreter.Completer, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Provider {
	case config.ProviderBedrock:
		client, err := bedrock.NewClient(bedrock.Config{
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Model:           cfg.Model,
			MaxTokens:       cfg.MaxTokens,
			TimeoutSeconds:  cfg.TimeoutSeconds,
			Endpoint:        cfg.BaseURL,
		})
		if err != nil {
			return nil, noop, services.Wrap(services.ErrConfiguration, "recommend", "bedrock client", "", err)
		}
		return client, noop, nil
	case config.ProviderOpenRouter:
		return llm.NewClient(llm.Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			Referer:        cfg.Referer,
			Title:          cfg.Title,
			MaxTokens:      cfg.MaxTokens,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}), noop, nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Endpoint:  cfg.BaseURL,
		})
		if err != nil {
			return nil, noop, services.Wrap(services.ErrConfiguration, "recommend", "gemini client", "", err)
		}
		return client, client.Close, nil
	case "":
		return nil, noop, services.Wrap(services.ErrConfiguration, "recommend", "llm client", "", errors.New("llm.provider is empty"))
	default:
		return nil, noop, services.Wrap(services.ErrConfiguration, "recommend", "llm client", "", fmt.Errorf("unsupported provider %q", cfg.Provider))
	}
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CheckModel proves the configured model answers with usable JSON. Providers
// without their own health probe get a fixed-reply completion instead.
func CheckModel(ctx context.Context, completer interpreter.Completer) error {
	if completer == nil {
		return services.Wrap(services.ErrConfiguration, "recommend", "model check", "no model client configured", nil)
	}
	if hc, ok := completer.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	content, err := completer.CompleteJSON(ctx, "You must respond with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return fmt.Errorf("model check: %w", err)
	}
	var reply struct {
		OK bool `json:"ok"`
	}
	if err := llm.DecodeLLMJSON(content, &reply); err != nil {
		return services.Wrap(services.ErrParse, "recommend", "model check", "", err)
	}
	if !reply.OK {
		return services.Wrap(services.ErrParse, "recommend", "model check", "unexpected response", nil)
	}
	return nil
}
