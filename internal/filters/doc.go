// Package filters defines FilterSpec, the structured search request that sits
// between prompt interpretation and catalog queries, along with its
// validation, merge and broadening rules.
//
// A FilterSpec is built once per request, sanitized, and never mutated
// afterwards: Without, Merge and Broaden all return fresh copies.
package filters
