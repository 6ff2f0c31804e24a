package tftp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFSResolveWithinRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))

	r := RootFS{Root: dir}
	got, err := r.Resolve("file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "file.txt"), got)
}

func TestRootFSResolveNestedWithinRoot(t *testing.T) {
	dir := t.TempDir()
	r := RootFS{Root: dir}

	got, err := r.Resolve("sub/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "dir", "file.txt"), got)
}

func TestRootFSResolveRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	r := RootFS{Root: dir}

	_, err := r.Resolve("../../etc/passwd")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestRootFSResolveConfinesAbsoluteName(t *testing.T) {
	dir := t.TempDir()
	r := RootFS{Root: dir}

	got, err := r.Resolve("/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "etc", "passwd"), got)
}
