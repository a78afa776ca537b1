package tsig

import (
	"crypto/hmac"
	"fmt"

	"github.com/Keeper-of-the-Keys/tsig/internal/util"
	"github.com/miekg/dns"
)

// Key is the identity, secret and algorithm triple used to sign and verify
// messages. It is immutable once constructed and safe for concurrent use.
// The secret material is never exposed outside of the signing engine.
type Key struct {
	name      string
	secret    []byte
	algorithm string
	ctx       SecurityContext
}

// KeyOption is the signature for all key constructor options.
type KeyOption func(*Key) error

// WithAlgorithm sets the key algorithm, either one of the dns package
// constants, one of the constants in this package, or the equivalent
// textual form. The default is DefaultAlgorithm.
func WithAlgorithm(algorithm string) KeyOption {
	return func(k *Key) error {
		k.algorithm = dns.CanonicalName(algorithm)

		return nil
	}
}

// NewKey returns a Key for the given name with the standard base64 encoded
// secret, decoded on construction. Construction fails if the secret is not
// valid base64 or if the algorithm is not a supported HMAC algorithm;
// GSS-TSIG keys are constructed with NewGSSKey instead.
func NewKey(name, secret string, options ...KeyOption) (*Key, error) {
	raw, err := util.FromBase64([]byte(secret))
	if err != nil {
		return nil, err
	}

	return NewKeyRaw(name, raw, options...)
}

// NewKeyRaw is NewKey with the raw secret bytes.
func NewKeyRaw(name string, secret []byte, options ...KeyOption) (*Key, error) {
	k := &Key{
		name:      dns.CanonicalName(name),
		secret:    secret,
		algorithm: DefaultAlgorithm,
	}

	for _, option := range options {
		if err := option(k); err != nil {
			return nil, err
		}
	}

	if _, ok := hmacAlgorithms[k.algorithm]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, k.algorithm)
	}

	if len(k.secret) == 0 {
		return nil, ErrEmptySecret
	}

	return k, nil
}

// NewGSSKey returns a GSS-TSIG Key bound to an established security
// context, typically the negotiated TKEY name and the context that
// negotiated it. This package never performs the GSS handshake itself;
// feeding any remaining handshake tokens into the context is done through
// Adapter or SecurityContext.Step directly.
func NewGSSKey(name string, ctx SecurityContext) (*Key, error) {
	if ctx == nil {
		return nil, ErrEmptySecret
	}

	return &Key{
		name:      dns.CanonicalName(name),
		algorithm: GSS,
		ctx:       ctx,
	}, nil
}

// Name returns the canonical key name.
func (k *Key) Name() string { return k.name }

// Algorithm returns the canonical algorithm name.
func (k *Key) Algorithm() string { return k.algorithm }

// Equal returns true if both keys have the same name, algorithm and secret
// material. Secrets are compared in constant time.
func (k *Key) Equal(other *Key) bool {
	if k == nil || other == nil {
		return k == other
	}

	return k.name == other.name &&
		k.algorithm == other.algorithm &&
		hmac.Equal(k.secret, other.secret) &&
		k.ctx == other.ctx
}

// String renders the key name and algorithm, never the secret.
func (k *Key) String() string {
	return fmt.Sprintf("%s(%s)", k.name, k.algorithm)
}
