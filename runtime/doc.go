// Package runtime is the registration sink and start control for bootstrapped
// modules. A Runtime accepts modules while the bootstrap registers them and
// starts them all at once when told to.
package runtime
