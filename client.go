package tftp

import (
	"net"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/manciukic/gotftp/fblock"
)

// Client sends read requests to a single TFTP server and drives the
// receiver side of the transfer engine to completion. It is new relative
// to the teacher, which ships no client; grounded on
// original_source/src/tftp_client.c's cmd_get, reworked as an explicit type
// rather than a free function operating on globals.
type Client struct {
	// ServerAddr is the "host:port" of the server to request files from.
	ServerAddr string

	// Logger receives structured diagnostics. A no-op logger is used if
	// nil.
	Logger *zap.SugaredLogger
}

func (c *Client) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return c.Logger
}

// Result reports the outcome of a completed Get.
type Result struct {
	// Blocks is the number of DATA blocks received, including a final
	// short or empty block.
	Blocks int
}

// Get requests remote under mode and writes the received contents to
// local. For ModeNetASCII, the wire bytes are first received into a
// temporary file alongside local and then translated in a single pass,
// mirroring cmd_get's "local_filename.tmp" receiver-side post-pass; for
// ModeOctet the destination file is written directly.
func (c *Client) Get(remote, local string, mode Mode) (*Result, error) {
	if mode != ModeNetASCII && mode != ModeOctet {
		return nil, errors.Wrapf(ErrUnknownMode, "tftp: get %q", remote)
	}

	log := c.logger()

	serverAddr, err := net.ResolveUDPAddr("udp", c.ServerAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "tftp: resolve server address %q", c.ServerAddr)
	}

	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, errors.Wrap(err, "tftp: bind client endpoint")
	}
	ep := newEndpoint(conn)
	defer ep.close()

	writePath := local
	if mode == ModeNetASCII {
		writePath = local + ".tmp"
	}

	file, err := fblock.Open(writePath, blockSize, fblock.Write)
	if err != nil {
		return nil, errors.Wrapf(err, "tftp: open destination %q", writePath)
	}

	req := &RequestPacket{Opcode: OpRRQ, Filename: remote, Mode: mode}
	buf := make([]byte, req.Size())
	n, err := req.Encode(buf)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "tftp: encode request")
	}
	if err := ep.sendTo(buf[:n], serverAddr); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "tftp: send request")
	}

	log.Infow("requesting file", "server", c.ServerAddr, "filename", remote, "mode", mode)

	e := newEngine(ep, file, log)
	recvErr := e.receive(serverAddr)
	closeErr := file.Close()

	if recvErr != nil {
		os.Remove(writePath)
		if pe, ok := recvErr.(*ErrorPacket); ok && pe.Code == ErrCodeFileNotFound {
			log.Infow("file not found on server", "filename", remote)
			return nil, pe
		}
		return nil, errors.Wrap(recvErr, "tftp: get")
	}
	if closeErr != nil {
		os.Remove(writePath)
		return nil, errors.Wrapf(closeErr, "tftp: close destination %q", writePath)
	}

	if mode == ModeNetASCII {
		defer os.Remove(writePath)
		if err := NetasciiToLocal(writePath, local); err != nil {
			return nil, errors.Wrap(err, "tftp: get")
		}
	}

	blocks := blockCount(file.Written)
	log.Infow("file received successfully", "filename", remote, "blocks", blocks, "bytes", file.Written)

	return &Result{Blocks: blocks}, nil
}

// blockCount returns how many DATA blocks a transfer of n bytes takes,
// including the trailing block (possibly empty) that signals completion:
// a transfer whose size is an exact multiple of blockSize always ends with
// one more, short, block per RFC 1350 §6.
func blockCount(n int64) int {
	return int(n/blockSize) + 1
}
