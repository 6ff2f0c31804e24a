package fblock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReadExactBlocks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o644))

	fb, err := Open(path, 512, Read)
	require.NoError(t, err)
	defer fb.Close()

	assert.EqualValues(t, 1024, fb.Remaining)

	buf := make([]byte, 512)

	n, err := fb.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 512, n)
	assert.EqualValues(t, 512, fb.Remaining)

	n, err = fb.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 512, n)
	assert.EqualValues(t, 0, fb.Remaining)

	n, err = fb.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFileReadShortFinalBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	fb, err := Open(path, 512, Read)
	require.NoError(t, err)
	defer fb.Close()

	buf := make([]byte, 512)
	n, err := fb.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.EqualValues(t, 0, fb.Remaining)
}

func TestFileWriteAccumulates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	fb, err := Open(path, 512, Write)
	require.NoError(t, err)

	n, err := fb.Write([]byte("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.EqualValues(t, 3, fb.Written)

	n, err = fb.Write([]byte("defgh"), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.EqualValues(t, 8, fb.Written)

	require.NoError(t, fb.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh", string(got))
}
