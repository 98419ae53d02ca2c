// Package cmd provides CLI command implementations.
package cmd

import (
	"errors"
	"os"

	"github.com/opmodel/resengine/internal/cmdtypes"
	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/output"
)

// ExitCodeFromError maps err to one of cmdtypes' exit codes by walking its
// chain for the sentinel errors in internal/errors. A nil err maps to
// ExitSuccess; an err wrapping none of the known sentinels falls back to
// ExitGeneralError.
func ExitCodeFromError(err error) int {
	if err == nil {
		return cmdtypes.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, rerrors.ErrIntegrityVerificationFailed):
		return cmdtypes.ExitIntegrityError
	case errors.Is(err, rerrors.ErrNoMatchingCandidate):
		return cmdtypes.ExitNoMatchingCandidate
	case errors.Is(err, rerrors.ErrNotFound),
		errors.Is(err, rerrors.ErrUnknownQualifier),
		errors.Is(err, rerrors.ErrUnknownType),
		errors.Is(err, rerrors.ErrUnknownImportableType):
		return cmdtypes.ExitNotFound
	case errors.Is(err, rerrors.ErrInvalidValue),
		errors.Is(err, rerrors.ErrInvalidContext),
		errors.Is(err, rerrors.ErrDuplicateName),
		errors.Is(err, rerrors.ErrDuplicateQualifier),
		errors.Is(err, rerrors.ErrPathConflict),
		errors.Is(err, rerrors.ErrAmbiguousTerseToken),
		errors.Is(err, rerrors.ErrMalformedImportable):
		return cmdtypes.ExitValidationError
	default:
		return cmdtypes.ExitGeneralError
	}
}

// Exit logs err (if non-nil) and terminates the process with the exit code
// ExitCodeFromError maps it to.
func Exit(err error) {
	if err == nil {
		os.Exit(cmdtypes.ExitSuccess)
	}
	output.Error(err.Error())
	os.Exit(ExitCodeFromError(err))
}
