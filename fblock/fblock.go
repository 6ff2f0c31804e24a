// Package fblock provides fixed-size block access to a local file, used by
// the TFTP transfer engine to read or write a file in 512-byte chunks while
// tracking how much of the transfer remains.
package fblock

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Mode selects whether a File is opened for reading or writing.
type Mode int

const (
	// Read opens the file for block reads; the file's total size is
	// pre-computed as Remaining.
	Read Mode = iota
	// Write opens the file for block writes; Written accumulates the
	// number of bytes written so far.
	Write
)

// File is a local file opened for fixed-size block I/O. In Read mode,
// Remaining decreases by the amount returned from each Read call. In Write
// mode, Written increases by the amount returned from each Write call.
// A File is owned exclusively by a single session for its lifetime.
type File struct {
	f         *os.File
	blockSize int
	mode      Mode

	Remaining int64
	Written   int64
}

// Open opens path for block I/O with the given block size and mode. In Read
// mode, the file's size is stat'd up front to seed Remaining.
func Open(path string, blockSize int, mode Mode) (*File, error) {
	var (
		f   *os.File
		err error
	)

	switch mode {
	case Read:
		f, err = os.Open(path)
	case Write:
		f, err = os.Create(path)
	default:
		return nil, errors.Errorf("fblock: unknown mode %d", mode)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fblock: open %q", path)
	}

	fb := &File{f: f, blockSize: blockSize, mode: mode}

	if mode == Read {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "fblock: stat %q", path)
		}
		fb.Remaining = info.Size()
	}

	return fb, nil
}

// Read fills buf with up to blockSize bytes (min(Remaining, blockSize)),
// decrementing Remaining by the amount actually read. Unlike a bare
// os.File.Read, Read loops until want bytes have been read or the file is
// genuinely exhausted, mirroring fread's fill-the-buffer behavior: the
// underlying os.File.Read is free to return fewer bytes than requested even
// mid-file, and the caller (engine.send) treats any short read as the
// terminal block, so a partial read here must never be mistaken for EOF.
func (fb *File) Read(buf []byte) (n int, err error) {
	want := fb.blockSize
	if int64(want) > fb.Remaining {
		want = int(fb.Remaining)
	}
	if want == 0 {
		return 0, nil
	}

	n, err = io.ReadFull(fb.f, buf[:want])
	fb.Remaining -= int64(n)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return n, errors.Wrap(err, "fblock: read")
	}
	return n, nil
}

// Write writes buf[:n] to the file and accumulates Written by the number of
// bytes actually written.
func (fb *File) Write(buf []byte, n int) (int, error) {
	if n == 0 {
		return 0, nil
	}

	wn, err := fb.f.Write(buf[:n])
	fb.Written += int64(wn)
	if err != nil {
		return wn, errors.Wrap(err, "fblock: write")
	}
	return wn, nil
}

// Close closes the underlying file.
func (fb *File) Close() error {
	return fb.f.Close()
}
