// Package statusapi serves the state of a modkit runtime over HTTP.
//
//	GET /healthz   overall health, per-module health and the bootstrap state
//	GET /modules   the bootstrap report: declarations, ties and outcomes
//	GET /version   build information
//
// The Server is a component.Component and can be registered with any
// component registry to share its lifecycle.
package statusapi
