// Package interpreter turns a free-text movie request into a filters.FilterSpec
// by asking a language model for a JSON object and reading it tolerantly.
//
// Model replies may arrive fenced, wrapped in prose, with numbers as strings
// or a single "genre" instead of "genres"; all of these are accepted. A reply
// that is not a JSON object yields a *ParseError, which callers recover from
// by searching without model filters.
package interpreter
