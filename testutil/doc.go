// Package testutil provides test doubles for code built on modkit: a
// controllable Host, a Component that records its lifecycle, a Factory that
// records the scoped configuration it was built with, and a JSON log
// capture.
//
//	host := testutil.NewHost("graph-host")
//	rec := testutil.NewFactory()
//	reg := factory.NewRegistry()
//	reg.RegisterFactory("acme.M", rec)
//	...
//	rec.Scope("A") // map[string]string the module A was built with
//
// Components registered with THelper are stopped when the test ends.
package testutil
