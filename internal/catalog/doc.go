// Package catalog answers filters.FilterSpec searches against TMDB.
//
// A search resolves genre names through the genre list, queries
// /discover/movie sorted by popularity across a bounded number of pages,
// de-duplicates and truncates the results, and optionally fills in runtimes
// from movie details. When nothing matches, it retries with progressively
// fewer constraints in filters.BroadeningOrder. TMDB failures surface as
// *QueryError and are never retried.
package catalog
