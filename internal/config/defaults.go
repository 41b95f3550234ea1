package config

const (
	defaultBind                = "127.0.0.1:8501"
	defaultReadTimeoutSeconds  = 15
	defaultWriteTimeoutSeconds = 60
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL    = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage        = "en-US"
	defaultTMDBPages           = 5
	defaultTMDBMaxResults      = 24
	defaultTMDBTimeoutSeconds  = 10
	defaultTMDBCertCountry     = "US"
	defaultLLMProvider         = ProviderBedrock
	defaultLLMMaxTokens        = 300
	defaultLLMTimeoutSeconds   = 30
	defaultBedrockModel        = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	defaultOpenRouterModel     = "anthropic/claude-3.5-sonnet"
	defaultOpenRouterBaseURL   = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterReferer   = "https://github.com/marquee-movies/marquee"
	defaultOpenRouterTitle     = "Marquee Movie Recommender"
	defaultGeminiModel         = "gemini-1.5-flash"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Supported LLM providers.
const (
	ProviderBedrock    = "bedrock"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:                defaultBind,
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
		},
		TMDB: TMDB{
			BaseURL:              defaultTMDBBaseURL,
			ImageBaseURL:         defaultTMDBImageBaseURL,
			Language:             defaultTMDBLanguage,
			Pages:                defaultTMDBPages,
			MaxResults:           defaultTMDBMaxResults,
			FetchRuntime:         true,
			CertificationCountry: defaultTMDBCertCountry,
			TimeoutSeconds:       defaultTMDBTimeoutSeconds,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			MaxTokens:      defaultLLMMaxTokens,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultModelFor(provider string) string {
	switch provider {
	case ProviderOpenRouter:
		return defaultOpenRouterModel
	case ProviderGemini:
		return defaultGeminiModel
	default:
		return defaultBedrockModel
	}
}
