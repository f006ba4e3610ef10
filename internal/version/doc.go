// Package version exposes build metadata of the packager binary itself.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags.
// This is unrelated to the application version read from the manifest.
package version
