package tsig

import "io"

// Engine computes or checks the MAC over a canonical byte stream. Bytes
// are accumulated with Write, then exactly one of Sign or Verify
// finalises the MAC. An Engine carries streaming state and must not be
// shared between concurrent callers.
type Engine interface {
	io.Writer

	// Sign finalises and returns the MAC over all bytes written so far,
	// truncated if the algorithm mandates it.
	Sign() ([]byte, error)

	// Verify recomputes the MAC and compares it against expected,
	// returning ErrBadSignature on any difference including a length
	// mismatch.
	Verify(expected []byte) error
}

// SecurityContext is the narrow interface onto an externally established
// GSS-API security context. Implementations may block on an external
// security library; callers impose their own timeouts. The gss subpackage
// provides a Kerberos-backed implementation.
type SecurityContext interface {
	// GetSignature produces an integrity token over data.
	GetSignature(data []byte) ([]byte, error)

	// VerifySignature checks the integrity token mac over data.
	VerifySignature(data, mac []byte) error

	// Step feeds a handshake token into the context, returning any
	// output token to send to the peer.
	Step(token []byte) ([]byte, error)
}

// NewEngine returns a fresh Engine for the key. It is used internally by
// Generate and Verify and exported for callers needing raw digest access.
func NewEngine(key *Key) (Engine, error) {
	if key.algorithm == GSS {
		return &gssEngine{ctx: key.ctx}, nil
	}

	return newHMACEngine(key.secret, key.algorithm)
}
