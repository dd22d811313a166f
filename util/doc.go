// Package util provides small helpers shared by modkit packages: masking of
// sensitive configuration values and cleanup of raw values read from the
// environment.
package util
