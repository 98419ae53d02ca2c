// Package cmdtypes provides shared types for the cmd package, kept
// separate from internal/cmd so future cmd sub-packages can depend on it
// without importing internal/cmd itself.
package cmdtypes

import (
	"github.com/opmodel/resengine/internal/rconfig"
)

// GlobalConfig holds CLI-wide configuration resolved during
// PersistentPreRunE. It is populated once at startup and passed explicitly
// into every sub-command constructor, rather than living behind
// package-level mutable globals.
type GlobalConfig struct {
	Config  *rconfig.Config
	Verbose bool
}

// Exit codes. 0 always means success; the rest partition failure kinds the
// engine's sentinel errors can produce into a small, stable set a calling
// shell script can branch on.
const (
	ExitSuccess             = 0
	ExitGeneralError        = 1
	ExitValidationError     = 2
	ExitNotFound            = 3
	ExitIntegrityError      = 4
	ExitNoMatchingCandidate = 5
)
