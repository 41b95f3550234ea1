// Package recommend runs one recommendation request end to end: prompt
// interpretation, merge with manual filters, catalog search with broadening,
// and the user-facing notices that go with the result.
//
// Both the web UI and the CLI call Service.Recommend so the two surfaces
// behave the same. Build wires a Service from configuration, choosing the
// model provider named by llm.provider.
package recommend
