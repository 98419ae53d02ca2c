package rconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashNormaliserValid(t *testing.T) {
	assert.True(t, HashCRC32.Valid())
	assert.True(t, HashMD5.Valid())
	assert.False(t, HashNormaliser("sha256").Valid())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, HashCRC32, cfg.HashNormaliser)
	assert.NotEmpty(t, cfg.QualifiersPath)
	assert.NotEmpty(t, cfg.ResourceTypesPath)
	assert.NotEmpty(t, cfg.BundlePath)
}

func TestValidateRejectsUnknownNormaliser(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HashNormaliser = "sha256"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "hashNormaliser")
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}
