// Package readiness waits for the hosted service to become usable before the
// runtime is started.
package readiness
