// Command modkit runs a standalone module runtime and inspects module
// declarations.
//
//	modkit run --modules ./modules.properties
//	modkit resolve --modules ./modules.properties
//	modkit scope heartbeat --modules ./modules.properties
//	modkit factories
package main

import (
	"os"

	_ "github.com/kbukum/modkit/builtin"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
