// Package bootstrap discovers, builds and starts the modules a host declares
// in its configuration.
//
// A run reads the flat config.View once. If the enabled key is not truthy
// nothing happens. Otherwise every <namespace>.<id>.<order> declaration is
// resolved, built through the factory registry and registered with the
// target runtime in ascending order. A module that fails is logged and
// skipped. Run then returns, and a background goroutine waits for the host
// to become available before starting the runtime. If the host stays
// unavailable past the readiness timeout the runtime is abandoned; the
// registered modules stay in place.
//
// # Usage
//
//	rt := runtime.New("graph-host")
//	b, err := bootstrap.New(view, host, rt,
//	    bootstrap.WithSettings(cfg.Runtime),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := b.Run(ctx)
//	...
//	res, err := b.Wait(ctx) // Started or Abandoned
//
// Hosts with their own lifecycle can use Extension instead, which owns the
// runtime and maps Init, Start, Stop and Shutdown onto it.
package bootstrap
