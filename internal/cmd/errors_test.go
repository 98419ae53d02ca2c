package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opmodel/resengine/internal/cmdtypes"
)

func TestExitErrorPinsCode(t *testing.T) {
	originalErr := errors.New("original error")
	exitErr := NewExitError(originalErr, cmdtypes.ExitValidationError)

	assert.Equal(t, "original error", exitErr.Error())
	assert.Equal(t, originalErr, errors.Unwrap(exitErr))
	assert.True(t, errors.Is(exitErr, originalErr))
	assert.Equal(t, cmdtypes.ExitValidationError, ExitCodeFromError(exitErr))
}
