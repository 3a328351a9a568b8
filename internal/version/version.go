// Package version holds the quill version string.
package version

// Version is the current quill version. Overridden at build time via
// -ldflags "-X github.com/quillhq/quill/internal/version.Version=...".
var Version = "0.3.0"
