package tftp

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// netasciiEncoder is a streaming byte-stream translator from local line
// endings to the netascii wire form (RFC 764): an LF that is not
// immediately preceded by a CR is emitted as CR LF; a lone CR is emitted as
// CR NUL; other bytes pass through. It carries one byte of state (whether
// the previous byte was an as-yet-unresolved CR) so it can be driven by
// repeated Write calls across arbitrary chunk boundaries.
type netasciiEncoder struct {
	w         io.Writer
	pendingCR bool
}

func newNetasciiEncoder(w io.Writer) *netasciiEncoder {
	return &netasciiEncoder{w: w}
}

// Write translates p to netascii form and forwards it to the underlying
// writer. It always reports len(p) written on success, per io.Writer.
func (e *netasciiEncoder) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+len(p)/8)

	for _, b := range p {
		if e.pendingCR {
			e.pendingCR = false
			if b == '\n' {
				// Literal CR LF passes through unchanged.
				out = append(out, '\r', '\n')
				continue
			}
			// The held CR was not followed by LF, so it was a lone CR.
			out = append(out, '\r', 0)
			// b has not been consumed yet; fall through to process it.
		}

		switch b {
		case '\r':
			e.pendingCR = true
		case '\n':
			out = append(out, '\r', '\n')
		default:
			out = append(out, b)
		}
	}

	if _, err := e.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close flushes any byte held pending a lookahead decision. A CR held at
// end of stream has no following byte to resolve it, so it is unambiguously
// a lone CR.
func (e *netasciiEncoder) Close() error {
	if !e.pendingCR {
		return nil
	}
	e.pendingCR = false
	_, err := e.w.Write([]byte{'\r', 0})
	return err
}

// netasciiDecoder is a streaming byte-stream translator from the netascii
// wire form back to local line endings: CR LF becomes LF, CR NUL becomes
// CR, and a CR followed by anything else is a format error.
type netasciiDecoder struct {
	w         io.Writer
	pendingCR bool
}

func newNetasciiDecoder(w io.Writer) *netasciiDecoder {
	return &netasciiDecoder{w: w}
}

func (d *netasciiDecoder) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p))

	for _, b := range p {
		if d.pendingCR {
			d.pendingCR = false
			switch b {
			case '\n':
				out = append(out, '\n')
			case 0:
				out = append(out, '\r')
			default:
				return 0, ErrNetasciiFormat
			}
			continue
		}

		if b == '\r' {
			d.pendingCR = true
		} else {
			out = append(out, b)
		}
	}

	if _, err := d.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close reports a format error if the stream ended immediately after a CR,
// since there was no following byte to resolve it to CR+LF or CR+NUL.
func (d *netasciiDecoder) Close() error {
	if d.pendingCR {
		return ErrNetasciiFormat
	}
	return nil
}

// translateChunkSize is the amount of data moved through the streaming
// translators per read during a whole-file pre/post-pass; it has no
// relationship to the wire block size and exists only to bound memory use
// on large files.
const translateChunkSize = 32 * 1024

// LocalToNetascii translates the contents of src into netascii form,
// writing the result to dst. It implements the sender-side pre-pass
// described for netascii transfers: the whole file is translated once, up
// front, so the transfer engine can then read fixed-size wire blocks from
// dst exactly as it would for an octet transfer.
func LocalToNetascii(src, dst string) error {
	return translateFile(src, dst, func(w io.Writer) translator { return newNetasciiEncoder(w) })
}

// NetasciiToLocal translates the contents of src (raw netascii bytes
// received over the wire) into local form, writing the result to dst. It
// implements the receiver-side post-pass for netascii transfers.
func NetasciiToLocal(src, dst string) error {
	return translateFile(src, dst, func(w io.Writer) translator { return newNetasciiDecoder(w) })
}

// translator is satisfied by both netasciiEncoder and netasciiDecoder.
type translator interface {
	io.Writer
	io.Closer
}

func translateFile(src, dst string, wrap func(io.Writer) translator) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "netascii: open source %q", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "netascii: create destination %q", dst)
	}
	defer out.Close()

	t := wrap(out)

	buf := make([]byte, translateChunkSize)
	r := bufio.NewReader(in)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := t.Write(buf[:n]); werr != nil {
				return errors.Wrap(werr, "netascii: translate")
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return errors.Wrapf(rerr, "netascii: read source %q", src)
		}
	}

	if err := t.Close(); err != nil {
		return errors.Wrap(err, "netascii: finalize")
	}
	return out.Sync()
}
