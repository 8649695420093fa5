//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the module embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the semantic version without surrounding whitespace.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths and the
	// environment variable prefix.
	Name = "clearsys"
	// Description is a short summary of the project used in help output.
	Description = "Interpreter for the ClearSys language"
	// FileExt is the conventional extension of ClearSys source files.
	FileExt = ".cs"
)
