package tsig

import "bytes"

// gssEngine buffers the canonical bytes and defers the MAC computation to
// the security context bound to the key. Any verification failure of the
// underlying context is reported as ErrBadSignature so that no detail of
// the security library leaks through.
type gssEngine struct {
	ctx SecurityContext
	buf bytes.Buffer
}

func (e *gssEngine) Write(p []byte) (int, error) {
	return e.buf.Write(p)
}

func (e *gssEngine) Sign() ([]byte, error) {
	return e.ctx.GetSignature(e.buf.Bytes())
}

func (e *gssEngine) Verify(expected []byte) error {
	if err := e.ctx.VerifySignature(e.buf.Bytes(), expected); err != nil {
		return ErrBadSignature
	}

	return nil
}
