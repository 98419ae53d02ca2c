//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrNotFound, ErrInvalidValue)
	assert.NotEqual(t, ErrInvalidContext, ErrDuplicateName)
	assert.NotEqual(t, ErrPathConflict, ErrNoMatchingCandidate)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Kind:     "InvalidValue",
		Message:  "territory code not recognised",
		Location: "app.welcome",
		Context:  map[string]string{"qualifier": "home"},
		Hint:     "use an ISO 3166 alpha-2 code",
		Cause:    ErrInvalidValue,
	}

	output := detail.Error()

	assert.Contains(t, output, "InvalidValue")
	assert.Contains(t, output, "app.welcome")
	assert.Contains(t, output, "territory code not recognised")
	assert.Contains(t, output, "qualifier=home")
	assert.Contains(t, output, "use an ISO 3166 alpha-2 code")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Kind:    "NotFound",
		Message: "test message",
		Cause:   ErrNotFound,
	}

	assert.True(t, errors.Is(detail, ErrNotFound))
	assert.Equal(t, ErrNotFound, detail.Unwrap())
}

func TestNewAt(t *testing.T) {
	err := NewAt(ErrPathConflict, "PathConflict", "app.messages", "leaf collides with branch")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrPathConflict))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "PathConflict", detail.Kind)
	assert.Equal(t, "app.messages", detail.Location)
}

func TestWrapPrefixesLocation(t *testing.T) {
	inner := New(ErrInvalidValue, "InvalidValue", "schema check failed")
	wrapped := Wrap("app.welcome", inner)

	assert.True(t, errors.Is(wrapped, ErrInvalidValue))
	assert.Contains(t, wrapped.Error(), "while importing app.welcome")
	assert.Contains(t, wrapped.Error(), "schema check failed")
}
