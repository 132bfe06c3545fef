package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/vantage/pkg/adapters/file"
	"github.com/stretchr/testify/require"
)

// WriteScene writes content to a scene file in a temporary directory and returns its path.
// It fails the test immediately on error.
func WriteScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write scene file")
	return path
}

// ParseScene parses an inline scene document.
func ParseScene(t *testing.T, content string) *file.Scene {
	t.Helper()
	scene, err := file.Parse(context.Background(), []byte(content))
	require.NoError(t, err, "Failed to parse scene")
	return scene
}

// StartRedis runs an in-process Redis for the duration of the test.
func StartRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}
