// Package factory maps factory references to the constructors that build
// module components, and invokes them in isolation.
//
// Factories register themselves by reference, usually from init:
//
//	func init() {
//	    factory.MustRegister("acme.graph", func() (factory.Factory, error) {
//	        return factory.Func(newGraph), nil
//	    })
//	}
//
// Invoke turns an unknown reference, a failing constructor, a failing Build
// or a panic into a failed Outcome, so one broken module never stops its
// siblings from being built.
package factory
