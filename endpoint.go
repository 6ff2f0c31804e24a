package tftp

import (
	"math/rand"
	"net"
	"strconv"

	"github.com/pkg/errors"
)

const (
	// ephemeralFrom and ephemeralTo bound the IANA dynamic port range used
	// when binding a session's own UDP socket.
	ephemeralFrom = 49152
	ephemeralTo   = 65535

	// maxBindAttempts is how many sequential ports are tried before giving
	// up with ErrNoPort.
	maxBindAttempts = 256
)

// endpoint wraps a UDP socket bound to an ephemeral local port. It is the
// session-endpoint component of the transfer engine: send/receive plus TID
// comparison. It does not record the remote peer; the engine tracks the
// peer's address itself.
type endpoint struct {
	conn net.PacketConn
}

// bindEphemeral binds a UDP socket on host to a port in the IANA dynamic
// range [49152, 65535]. It tries a random starting port and then scans
// sequentially; after maxBindAttempts failures it returns ErrNoPort.
func bindEphemeral(host string) (*endpoint, error) {
	span := ephemeralTo - ephemeralFrom + 1
	start := ephemeralFrom + rand.Intn(span)

	var lastErr error
	for i := 0; i < maxBindAttempts; i++ {
		port := ephemeralFrom + (start-ephemeralFrom+i)%span

		conn, err := net.ListenPacket("udp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			return &endpoint{conn: conn}, nil
		}
		lastErr = err
	}

	return nil, errors.Wrap(ErrNoPort, lastErr.Error())
}

// newEndpoint wraps an already-bound connection, used by client.go where
// net.ListenPacket has already produced the client's socket.
func newEndpoint(conn net.PacketConn) *endpoint {
	return &endpoint{conn: conn}
}

func (e *endpoint) sendTo(b []byte, peer net.Addr) error {
	_, err := e.conn.WriteTo(b, peer)
	return err
}

func (e *endpoint) recvFrom(buf []byte) (int, net.Addr, error) {
	return e.conn.ReadFrom(buf)
}

func (e *endpoint) localAddr() net.Addr { return e.conn.LocalAddr() }

func (e *endpoint) close() error { return e.conn.Close() }

// tidEqual compares two addresses for exact (IP, port) equality. Used for
// the "subsequent datagrams" source check in the receiver loop and for the
// sender's ACK source check.
func tidEqual(a, b net.Addr) bool {
	au, aok := a.(*net.UDPAddr)
	bu, bok := b.(*net.UDPAddr)
	if !aok || !bok {
		return a.String() == b.String()
	}
	return au.Port == bu.Port && au.IP.Equal(bu.IP)
}

// tidSameHost compares only the IP portion of two addresses, used for the
// "first datagram" check where the server is permitted to switch to a new
// ephemeral port but must still be the same host.
func tidSameHost(a, b net.Addr) bool {
	au, aok := a.(*net.UDPAddr)
	bu, bok := b.(*net.UDPAddr)
	if !aok || !bok {
		ah, _, _ := net.SplitHostPort(a.String())
		bh, _, _ := net.SplitHostPort(b.String())
		return ah == bh
	}
	return au.IP.Equal(bu.IP)
}
