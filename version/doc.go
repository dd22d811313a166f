// Package version reports the build of the modkit binary.
//
// Values are injected with -ldflags and fall back to the build info the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/modkit/version.Version=1.2.0" ./cmd/modkit
package version
