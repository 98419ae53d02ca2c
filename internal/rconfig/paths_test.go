package rconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no tilde", input: "/absolute/path", expected: "/absolute/path"},
		{name: "tilde only", input: "~", expected: homeDir},
		{name: "tilde with slash", input: "~/bundle.json", expected: filepath.Join(homeDir, "bundle.json")},
		{name: "tilde username pattern not expanded", input: "~someone/file", expected: "~someone/file"},
		{name: "tilde in middle not expanded", input: "/path/~/file", expected: "/path/~/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandTilde(tt.input))
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	paths, err := DefaultPaths()
	require.NoError(t, err)

	assert.Contains(t, paths.ConfigFile, ".resengine")
	assert.Contains(t, paths.CacheDir, "cache")
	assert.True(t, filepath.IsAbs(paths.HomeDir))
}

func TestPathsFromEnv(t *testing.T) {
	t.Setenv("RESENGINE_CONFIG", "/tmp/custom-config.yaml")
	t.Setenv("RESENGINE_CACHE_DIR", "/tmp/custom-cache")

	paths, err := PathsFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom-config.yaml", paths.ConfigFile)
	assert.Equal(t, "/tmp/custom-cache", paths.CacheDir)
}
