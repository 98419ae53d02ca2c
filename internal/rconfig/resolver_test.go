package rconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPathPrecedence(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		result, err := ResolveConfigPath("/flag/config.yaml")
		require.NoError(t, err)
		assert.Equal(t, "/flag/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceFlag, result.Source)
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Setenv("RESENGINE_CONFIG", "/env/config.yaml")
		result, err := ResolveConfigPath("")
		require.NoError(t, err)
		assert.Equal(t, "/env/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceEnv, result.Source)
	})

	t.Run("falls back to default", func(t *testing.T) {
		result, err := ResolveConfigPath("")
		require.NoError(t, err)
		assert.Equal(t, SourceDefault, result.Source)
		assert.Contains(t, result.ConfigPath, ".resengine")
	})
}
