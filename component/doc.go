// Package component defines the lifecycle interface every module implements
// and the Registry that owns registered modules.
//
// Components are registered in order, started in that order and stopped in
// reverse. The Registry carries its own locking; it may be read concurrently
// while the bootstrap registers into it.
//
// # Interfaces
//
//   - Component: Name/Start/Stop/Health
//   - Describable: self-description for the status API
//
// Funcs adapts plain functions into a Component.
package component
