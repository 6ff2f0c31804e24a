package tftp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, chunks ...[]byte) []byte {
	t.Helper()
	var out bytes.Buffer
	e := newNetasciiEncoder(&out)
	for _, c := range chunks {
		_, err := e.Write(c)
		require.NoError(t, err)
	}
	require.NoError(t, e.Close())
	return out.Bytes()
}

func TestNetasciiEncodeLF(t *testing.T) {
	got := encodeAll(t, []byte("a\nb"))
	assert.Equal(t, []byte("a\r\nb"), got)
}

func TestNetasciiEncodeLoneCR(t *testing.T) {
	got := encodeAll(t, []byte("a\rb"))
	assert.Equal(t, []byte("a\r\x00b"), got)
}

func TestNetasciiEncodeCRLFPassesThroughUnchanged(t *testing.T) {
	got := encodeAll(t, []byte("a\r\nb"))
	assert.Equal(t, []byte("a\r\nb"), got)
}

func TestNetasciiEncodeTrailingCR(t *testing.T) {
	got := encodeAll(t, []byte("a\r"))
	assert.Equal(t, []byte("a\r\x00"), got)
}

func TestNetasciiEncodeCRSplitAcrossWrites(t *testing.T) {
	got := encodeAll(t, []byte("a\r"), []byte("\nb"))
	assert.Equal(t, []byte("a\r\nb"), got)
}

func TestNetasciiDecode(t *testing.T) {
	var out bytes.Buffer
	d := newNetasciiDecoder(&out)

	_, err := d.Write([]byte("a\r\nb\r\x00c"))
	require.NoError(t, err)
	require.NoError(t, d.Close())

	assert.Equal(t, []byte("a\nb\rc"), out.Bytes())
}

func TestNetasciiDecodeRejectsDanglingCR(t *testing.T) {
	var out bytes.Buffer
	d := newNetasciiDecoder(&out)

	_, err := d.Write([]byte("a\r"))
	require.NoError(t, err)
	assert.ErrorIs(t, d.Close(), ErrNetasciiFormat)
}

func TestNetasciiDecodeRejectsBadFollowByte(t *testing.T) {
	var out bytes.Buffer
	d := newNetasciiDecoder(&out)

	_, err := d.Write([]byte("a\rb"))
	assert.ErrorIs(t, err, ErrNetasciiFormat)
}

func TestLocalToNetasciiAndBack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	wire := filepath.Join(dir, "wire")
	back := filepath.Join(dir, "back")

	require.NoError(t, os.WriteFile(src, []byte("line one\nline two\n"), 0o644))

	require.NoError(t, LocalToNetascii(src, wire))

	wireBytes, err := os.ReadFile(wire)
	require.NoError(t, err)
	assert.Equal(t, []byte("line one\r\nline two\r\n"), wireBytes)

	require.NoError(t, NetasciiToLocal(wire, back))
	backBytes, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, []byte("line one\nline two\n"), backBytes)
}
