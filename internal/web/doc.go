// Package web serves the recommender UI and JSON API with gin.
//
// Routes:
//
//	GET  /               search form
//	POST /recommend      form submission, renders results
//	POST /api/recommend  JSON request, JSON outcome
//	GET  /healthz        liveness
//
// Every request gets a correlation id (X-Request-ID) that flows into the
// structured logs of the interpreter and catalog.
package web
