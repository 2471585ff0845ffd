package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkspaceFileRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := WriteWorkspaceFile(dir, 42)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, WorkspaceFileName), path)

	got, ok, err := WorkspaceProjectID(dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(42), got)

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	got, ok, err = WorkspaceProjectID(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(42), got)

	found, ok := FindWorkspaceFile(nested)
	require.True(t, ok)
	require.Equal(t, path, found)
}

func TestWorkspaceProjectIDMissingKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, WorkspaceFileName), []byte("OTHER=1\n"), 0o644))

	_, ok, err := WorkspaceProjectID(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWorkspaceProjectIDInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, WorkspaceFileName), []byte("PROJECT_ID=abc\n"), 0o644))

	_, _, err := WorkspaceProjectID(dir)
	require.Error(t, err)
}

func TestWriteWorkspaceFileRejectsBadID(t *testing.T) {
	t.Parallel()

	_, err := WriteWorkspaceFile(t.TempDir(), 0)
	require.Error(t, err)
}
