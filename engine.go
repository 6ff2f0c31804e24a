package tftp

import (
	"net"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/manciukic/gotftp/fblock"
)

// blockFile is the subset of *fblock.File the transfer engine depends on,
// so tests can substitute an in-memory stand-in.
type blockFile interface {
	Read(buf []byte) (int, error)
	Write(buf []byte, n int) (int, error)
}

var _ blockFile = (*fblock.File)(nil)

// engine drives one side of a stop-and-wait TFTP read transfer over an
// endpoint. Its two entry points, receive and send, share the same
// peer-TID bookkeeping and block-number wraparound rules described in
// spec §4.5; only which of {send DATA, receive DATA} and
// {send ACK, receive ACK} runs per step differs between them.
type engine struct {
	ep     *endpoint
	file   blockFile
	logger *zap.SugaredLogger
}

func newEngine(ep *endpoint, file blockFile, logger *zap.SugaredLogger) *engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &engine{ep: ep, file: file, logger: logger}
}

// receive runs the receiver side of a read transfer (RFC 1350 §1: the
// requester of an RRQ receives DATA and sends ACK). serverAddr is the
// address the initial request was sent to; the first reply datagram is
// accepted if its IP matches serverAddr's IP even though the server may
// have switched to a new ephemeral port, per spec §4.5.1. Every later
// datagram must match the bound peer exactly in IP and port.
func (e *engine) receive(serverAddr net.Addr) error {
	var (
		peer          net.Addr
		peerBound     bool
		expectedBlock uint16 = 1
		recvBuf              = make([]byte, blockSize+4)
		ackBuf               = make([]byte, 4)
	)

	for {
		n, from, err := e.ep.recvFrom(recvBuf)
		if err != nil {
			return errors.Wrap(err, "tftp: receive")
		}

		if !peerBound {
			if !tidSameHost(from, serverAddr) {
				e.logger.Warnw("discarding datagram from unexpected host", "from", from)
				continue
			}
			peer = from
			peerBound = true
		} else if !tidEqual(from, peer) {
			e.logger.Warnw("discarding datagram from unexpected source", "from", from)
			continue
		}

		opcode, err := opcodeOf(recvBuf[:n])
		if err != nil {
			return errors.Wrap(err, "tftp: receive")
		}

		if opcode == OpERROR {
			ep, err := DecodeErrorPacket(recvBuf[:n])
			if err != nil {
				return errors.Wrap(err, "tftp: receive")
			}
			if ep.Code == ErrCodeFileNotFound {
				return ep
			}
			return errors.Wrap(ep, "tftp: peer reported error")
		}

		if opcode != OpDATA {
			return errors.Wrap(ErrUnexpectedPacket, "tftp: receive")
		}

		data, err := DecodeData(recvBuf[:n])
		if err != nil {
			return errors.Wrap(err, "tftp: receive")
		}

		if data.Block != expectedBlock {
			return errors.Wrapf(ErrOutOfOrder, "tftp: receive: got block %d, want %d",
				data.Block, expectedBlock)
		}

		if len(data.Payload) > 0 {
			if _, err := e.file.Write(data.Payload, len(data.Payload)); err != nil {
				return errors.Wrap(err, "tftp: receive")
			}
		}

		ack := &AckPacket{Block: expectedBlock}
		if _, err := ack.Encode(ackBuf); err != nil {
			return errors.Wrap(err, "tftp: receive")
		}
		if err := e.ep.sendTo(ackBuf, peer); err != nil {
			return errors.Wrap(err, "tftp: receive")
		}

		e.logger.Debugw("acked block", "block", expectedBlock, "size", len(data.Payload))

		expectedBlock++

		if len(data.Payload) < blockSize {
			return nil
		}
	}
}

// send runs the sender side of a read transfer (RFC 1350 §1: the server
// sends DATA and receives ACK). peer is the session's fixed TID, already
// known from the initiating RRQ.
func (e *engine) send(peer net.Addr) error {
	var (
		nextBlock uint16 = 1
		dataBuf          = make([]byte, blockSize+4)
		ackBuf           = make([]byte, 4)
	)

	for {
		n, err := e.file.Read(dataBuf[4:])
		if err != nil {
			return errors.Wrap(err, "tftp: send")
		}

		data := &DataPacket{Block: nextBlock, Payload: dataBuf[4 : 4+n]}
		size, err := data.Encode(dataBuf)
		if err != nil {
			return errors.Wrap(err, "tftp: send")
		}
		if err := e.ep.sendTo(dataBuf[:size], peer); err != nil {
			return errors.Wrap(err, "tftp: send")
		}

		e.logger.Debugw("sent block", "block", nextBlock, "size", n)

		for {
			rn, from, err := e.ep.recvFrom(ackBuf)
			if err != nil {
				return errors.Wrap(err, "tftp: send")
			}
			if !tidEqual(from, peer) {
				e.logger.Warnw("discarding datagram from unexpected source", "from", from)
				continue
			}

			ack, err := DecodeAck(ackBuf[:rn])
			if err != nil {
				return errors.Wrap(err, "tftp: send")
			}
			if ack.Block != nextBlock {
				return errors.Wrapf(ErrOutOfOrder, "tftp: send: acked block %d, want %d",
					ack.Block, nextBlock)
			}
			break
		}

		nextBlock++

		if n < blockSize {
			return nil
		}
	}
}
