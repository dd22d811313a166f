// Package builtin registers the factories every modkit binary ships with.
//
//	modkit.module.enabled=true
//	modkit.module.pulse.1=modkit.heartbeat
//	modkit.module.pulse.interval=5s
//	modkit.module.idle.2=modkit.noop
//
// Importing the package registers them with factory.Default.
package builtin
