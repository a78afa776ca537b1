package tsig

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"
)

// Errors detected locally while signing or verifying. All of them are
// terminal for the call that returned them.
var (
	// ErrBadTime means the signing time is further from the local clock
	// than the fudge allows.
	ErrBadTime = errors.New("tsig: signing time outside of fudge window")
	// ErrBadSignature means the MAC did not verify.
	ErrBadSignature = errors.New("tsig: signature mismatch")
	// ErrBadKey means the TSIG record owner name does not match the key
	// name.
	ErrBadKey = errors.New("tsig: record owner does not match key name")
	// ErrBadAlgorithm means the TSIG record algorithm does not match the
	// key algorithm.
	ErrBadAlgorithm = errors.New("tsig: record algorithm does not match key algorithm")
	// ErrUnsupportedAlgorithm means the algorithm name is not a
	// recognised TSIG algorithm.
	ErrUnsupportedAlgorithm = errors.New("tsig: unsupported algorithm")
	// ErrMalformedMessage means the message cannot carry the claimed
	// TSIG record.
	ErrMalformedMessage = errors.New("tsig: malformed message")
	// ErrOtherDataTooLong means the other data field exceeds 65535
	// bytes.
	ErrOtherDataTooLong = errors.New("tsig: other data exceeds 65535 bytes")
	// ErrEmptySecret means the key was constructed without any secret
	// material.
	ErrEmptySecret = errors.New("tsig: empty secret")
)

// PeerError is returned by Verify when the received TSIG record carries a
// nonzero error code, meaning the remote peer rejected an earlier message.
// No digest verification is attempted in that case since the peer stated
// it did not accept or compute a MAC.
type PeerError struct {
	rcode uint16
}

// Rcode returns the RFC 8945 error code reported by the peer.
func (e *PeerError) Rcode() uint16 { return e.rcode }

func (e *PeerError) Error() string {
	return fmt.Sprintf("tsig: peer reported %s (%d)", dns.RcodeToString[int(e.rcode)], e.rcode)
}

// Peer errors with a well-known RFC 8945 error code. Returned by Verify
// and matchable with errors.Is; codes outside this table yield a distinct
// *PeerError matchable with errors.As.
var (
	ErrPeerBadSignature  = &PeerError{rcode: uint16(dns.RcodeBadSig)}
	ErrPeerBadKey        = &PeerError{rcode: uint16(dns.RcodeBadKey)}
	ErrPeerBadTime       = &PeerError{rcode: uint16(dns.RcodeBadTime)}
	ErrPeerBadTruncation = &PeerError{rcode: uint16(dns.RcodeBadTrunc)}
)

//nolint:gochecknoglobals
var peerErrors = map[uint16]*PeerError{
	uint16(dns.RcodeBadSig):   ErrPeerBadSignature,
	uint16(dns.RcodeBadKey):   ErrPeerBadKey,
	uint16(dns.RcodeBadTime):  ErrPeerBadTime,
	uint16(dns.RcodeBadTrunc): ErrPeerBadTruncation,
}

func peerError(rcode uint16) error {
	if err, ok := peerErrors[rcode]; ok {
		return err
	}

	return &PeerError{rcode: rcode}
}
