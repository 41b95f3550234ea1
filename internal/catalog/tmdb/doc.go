// Package tmdb is the wire client for The Movie Database endpoints used by the
// catalog: /discover/movie, /genre/movie/list and /movie/{id}.
//
// Requests authenticate with the api_key query parameter. Non-200 answers
// surface as *StatusError carrying TMDB's status_message when present.
package tmdb
