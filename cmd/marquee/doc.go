// Package main hosts the marquee CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the logger, and
// hands off to internal/recommend for the actual work: serve runs the web UI,
// search runs a single recommendation in the terminal, and genres lists the
// TMDB genre names the filters accept.
//
// Keep this package thin. New behavior belongs in the internal packages and
// is surfaced here through commands or flags.
package main
