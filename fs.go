package tftp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// RootFS confines file access to files beneath Root. It is the concrete
// path-safety collaborator spec §1 treats as external to the core: the
// engine and server only ever see a path RootFS has already resolved and
// verified.
type RootFS struct {
	Root string
}

// ErrOutsideRoot is returned by Resolve when the requested name would
// escape Root, e.g. via "../" segments. An absolute name is not rejected:
// it is resolved beneath Root.
var ErrOutsideRoot = errors.New("tftp: path escapes served directory")

// Resolve joins name onto the root directory and verifies the resulting
// path still lies within it. It does not check that the file exists.
func (r RootFS) Resolve(name string) (string, error) {
	root, err := filepath.Abs(r.Root)
	if err != nil {
		return "", errors.Wrap(err, "tftp: resolve root")
	}

	// filepath.Join cleans ".." segments, but leading ones (as in
	// "../x") still normalize to somewhere outside root, so the joined
	// result is re-verified below. An absolute name is simply appended to
	// root by Join.
	joined := filepath.Join(root, name)

	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", ErrOutsideRoot
	}

	return joined, nil
}
