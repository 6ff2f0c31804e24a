package tftp

import (
	"net"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/manciukic/gotftp/fblock"
)

// FileResolver resolves a requested filename to a path safe to open,
// confining access to a configured directory. spec §1 treats path-safety
// as an external collaborator; RootFS is the concrete implementation the
// server uses by default.
type FileResolver interface {
	Resolve(name string) (string, error)
}

// Server represents a read-only TFTP server. It accepts RRQs on Addr and
// spawns one independent worker per accepted request, per the
// share-nothing-per-session concurrency model.
type Server struct {
	// Addr is the network address this server binds to, e.g. ":69".
	Addr string

	// Root resolves a requested filename to a safe path beneath the
	// served directory.
	Root FileResolver

	// Logger receives structured diagnostics. A no-op logger is used if
	// nil.
	Logger *zap.SugaredLogger
}

// ListenAndServe binds Addr and serves until an unrecoverable socket error
// occurs.
func (s *Server) ListenAndServe() error {
	conn, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return errors.Wrap(err, "tftp: listen")
	}
	defer conn.Close()

	return s.Serve(conn)
}

func (s *Server) logger() *zap.SugaredLogger {
	if s.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return s.Logger
}

// Serve accepts incoming RRQs on p, validating each one sequentially and
// spawning a goroutine that owns a fresh ephemeral endpoint to carry out
// the actual transfer. Serve itself never blocks on a transfer; only the
// initial ReadFrom call is a suspension point in the listener loop.
func (s *Server) Serve(p net.PacketConn) error {
	// There is no maximum size for an RRQ in RFC 1350, but TFTP packets
	// must fit inside one unfragmented IP datagram, so the Ethernet MTU
	// is a generous upper bound.
	buf := make([]byte, 1500)

	for {
		n, addr, err := p.ReadFrom(buf)
		if err != nil {
			return errors.Wrap(err, "tftp: serve")
		}

		reqCopy := make([]byte, n)
		copy(reqCopy, buf[:n])

		s.handleRequest(p, addr, reqCopy)
	}
}

// handleRequest validates a single received datagram as an RRQ and, if
// valid, spawns the session worker that sends the file. It never returns
// an error to Serve: all failure paths reply with a TFTP ERROR packet and
// the listener loop continues, per spec §4.6.
func (s *Server) handleRequest(p net.PacketConn, from net.Addr, raw []byte) {
	log := s.logger()

	opcode, err := opcodeOf(raw)
	if err != nil || opcode != OpRRQ {
		log.Warnw("rejecting non-RRQ datagram", "from", from)
		s.sendError(p, from, ErrCodeIllegalOperation, "Illegal TFTP operation.")
		return
	}

	req, err := DecodeRequest(raw)
	if err != nil {
		log.Warnw("rejecting malformed RRQ", "from", from, "error", err)
		s.sendError(p, from, ErrCodeUndefined, "Malformed RRQ packet.")
		return
	}

	path, err := s.Root.Resolve(req.Filename)
	if err != nil {
		log.Warnw("rejecting RRQ outside served root", "from", from, "filename", req.Filename)
		s.sendError(p, from, ErrCodeIllegalOperation, "Access violation.")
		return
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			log.Infow("file not found", "from", from, "filename", req.Filename)
		} else {
			log.Warnw("could not stat requested file", "from", from, "filename", req.Filename, "error", err)
		}
		s.sendError(p, from, ErrCodeFileNotFound, "File Not Found.")
		return
	}

	go s.serveFile(from, req, path)
}

// serveFile spawns an ephemeral endpoint and runs the sender side of the
// transfer engine against the requesting client. For a netascii request the
// source file is first translated in full into a scratch file (spec §4.3's
// sender-side pre-pass), so the engine itself only ever reads fixed-size
// wire blocks exactly as it would for an octet transfer.
func (s *Server) serveFile(peer net.Addr, req *RequestPacket, path string) {
	log := s.logger()

	servePath := path
	if req.Mode == ModeNetASCII {
		tmp, err := os.CreateTemp("", "gotftpd-*.netascii")
		if err != nil {
			log.Errorw("could not create netascii scratch file", "peer", peer, "error", err)
			return
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := LocalToNetascii(path, tmpPath); err != nil {
			log.Errorw("netascii translation failed", "peer", peer, "filename", req.Filename, "error", err)
			return
		}
		servePath = tmpPath
	}

	file, err := fblock.Open(servePath, blockSize, fblock.Read)
	if err != nil {
		log.Errorw("could not open file for sending", "peer", peer, "filename", req.Filename, "error", err)
		return
	}
	defer file.Close()

	host, _, _ := net.SplitHostPort(s.Addr)

	ep, err := bindEphemeral(host)
	if err != nil {
		log.Errorw("could not bind session endpoint", "peer", peer, "error", err)
		return
	}
	defer ep.close()

	log.Infow("sending file", "peer", peer, "filename", req.Filename, "mode", req.Mode)

	e := newEngine(ep, file, log)
	if err := e.send(peer); err != nil {
		log.Warnw("transfer terminated with an error", "peer", peer, "filename", req.Filename, "error", err)
		return
	}

	log.Infow("file sent successfully", "peer", peer, "filename", req.Filename)
}

func (s *Server) sendError(p net.PacketConn, to net.Addr, code ErrorCode, msg string) {
	ep := &ErrorPacket{Code: code, Message: msg}
	buf := make([]byte, ep.Size())
	if _, err := ep.Encode(buf); err != nil {
		return
	}
	_, _ = p.WriteTo(buf, to)
}
