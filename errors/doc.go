// Package errors provides the structured error type used across modkit.
// Every failure the bootstrap path can observe maps to an ErrorCode, so
// per-module failures can be logged, aggregated into reports and served as
// JSON without string matching.
package errors
