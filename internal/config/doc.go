// Package config loads, normalizes, and validates marquee configuration data.
//
// It supplies repository defaults, reads TOML files, and honours environment
// fallbacks such as TMDB_API_KEY and the AWS credential variables. A .env file
// can be loaded first with LoadDotEnv. The Config type is built once at
// startup and handed to the catalog and LLM clients; missing credentials
// surface as *ConfigError, which callers treat as fatal.
package config
