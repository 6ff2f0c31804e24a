package tftp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors surfaced by the transfer engine and session endpoint.
// Callers should use errors.Is to test for these, since they are often
// wrapped with call-site context via github.com/pkg/errors.
var (
	// ErrNoPort is returned when bindEphemeral exhausts its attempts to
	// find a free port in the dynamic range.
	ErrNoPort = errors.New("tftp: no ephemeral port available")

	// ErrUnexpectedPacket is returned when a session receives a packet of
	// a type it did not expect at that point in the exchange.
	ErrUnexpectedPacket = errors.New("tftp: unexpected packet type")

	// ErrOutOfOrder is returned when a DATA packet's block number does not
	// match the receiver's expected block number.
	ErrOutOfOrder = errors.New("tftp: out-of-order block")

	// ErrNetasciiFormat is returned when a netascii byte stream contains a
	// CR that is not followed by LF or NUL.
	ErrNetasciiFormat = errors.New("tftp: malformed netascii stream")

	// ErrUnknownMode is returned when a request names a mode other than
	// netascii or octet.
	ErrUnknownMode = errors.New("tftp: unknown transfer mode")
)

// DecodeErrorKind enumerates the ways a raw datagram can fail to decode as
// a well-formed TFTP packet.
type DecodeErrorKind int

const (
	KindWrongOpcode DecodeErrorKind = iota
	KindTruncated
	KindTrailingGarbage
	KindFieldTooLong
	KindUnknownMode
	KindBadErrorCode
)

func (k DecodeErrorKind) String() string {
	switch k {
	case KindWrongOpcode:
		return "wrong opcode"
	case KindTruncated:
		return "truncated packet"
	case KindTrailingGarbage:
		return "trailing garbage"
	case KindFieldTooLong:
		return "field too long"
	case KindUnknownMode:
		return "unknown mode"
	case KindBadErrorCode:
		return "bad error code"
	default:
		return "unknown decode error"
	}
}

// DecodeError reports why a raw datagram failed to decode.
type DecodeError struct {
	Kind DecodeErrorKind
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tftp: decode: %s", e.Kind)
}

// decodeErr is a small helper to build a *DecodeError without repeating the
// struct literal at every call site.
func decodeErr(kind DecodeErrorKind) error {
	return &DecodeError{Kind: kind}
}
