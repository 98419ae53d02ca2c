package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opmodel/resengine/internal/cmdtypes"
	rerrors "github.com/opmodel/resengine/internal/errors"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			wantCode: cmdtypes.ExitSuccess,
		},
		{
			name:     "invalid value",
			err:      rerrors.New(rerrors.ErrInvalidValue, "InvalidValue", "bad candidate"),
			wantCode: cmdtypes.ExitValidationError,
		},
		{
			name:     "wrapped invalid value",
			err:      rerrors.Wrap("app.welcome", rerrors.New(rerrors.ErrInvalidValue, "InvalidValue", "schema check failed")),
			wantCode: cmdtypes.ExitValidationError,
		},
		{
			name:     "ambiguous terse token",
			err:      rerrors.New(rerrors.ErrAmbiguousTerseToken, "AmbiguousTerseToken", "CA matches two qualifiers"),
			wantCode: cmdtypes.ExitValidationError,
		},
		{
			name:     "not found",
			err:      rerrors.New(rerrors.ErrNotFound, "NotFound", "bundle.json"),
			wantCode: cmdtypes.ExitNotFound,
		},
		{
			name:     "unknown qualifier",
			err:      rerrors.New(rerrors.ErrUnknownQualifier, "UnknownQualifier", "region"),
			wantCode: cmdtypes.ExitNotFound,
		},
		{
			name:     "integrity verification failed",
			err:      rerrors.New(rerrors.ErrIntegrityVerificationFailed, "IntegrityVerificationFailed", "checksum mismatch"),
			wantCode: cmdtypes.ExitIntegrityError,
		},
		{
			name:     "no matching candidate",
			err:      rerrors.New(rerrors.ErrNoMatchingCandidate, "NoMatchingCandidate", "app.welcome"),
			wantCode: cmdtypes.ExitNoMatchingCandidate,
		},
		{
			name:     "unknown error returns general error",
			err:      errors.New("unknown error"),
			wantCode: cmdtypes.ExitGeneralError,
		},
		{
			name:     "pinned exit error overrides sentinel mapping",
			err:      NewExitError(rerrors.New(rerrors.ErrNotFound, "NotFound", "x"), cmdtypes.ExitGeneralError),
			wantCode: cmdtypes.ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExitCodeFromError(tt.err)
			assert.Equal(t, tt.wantCode, got)
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	assert.Equal(t, 0, cmdtypes.ExitSuccess)
	assert.Equal(t, 1, cmdtypes.ExitGeneralError)
	assert.Equal(t, 2, cmdtypes.ExitValidationError)
	assert.Equal(t, 3, cmdtypes.ExitNotFound)
	assert.Equal(t, 4, cmdtypes.ExitIntegrityError)
	assert.Equal(t, 5, cmdtypes.ExitNoMatchingCandidate)
}
