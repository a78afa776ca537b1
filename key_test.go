package tsig

import (
	"encoding/base64"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	t.Parallel()

	tables := map[string]struct {
		name      string
		secret    string
		options   []KeyOption
		algorithm string
		err       error
	}{
		"default algorithm": {
			"example.com.",
			"DRwIYZn6exnhof/mcV/aEQ==",
			nil,
			dns.HmacSHA256,
			nil,
		},
		"md5 alias": {
			"example.com.",
			"DRwIYZn6exnhof/mcV/aEQ==",
			[]KeyOption{WithAlgorithm("HMAC-MD5.SIG-ALG.REG.INT")},
			dns.HmacMD5,
			nil,
		},
		"unqualified algorithm": {
			"example.com.",
			"DRwIYZn6exnhof/mcV/aEQ==",
			[]KeyOption{WithAlgorithm("hmac-sha512-256")},
			HmacSHA512_256,
			nil,
		},
		"unsupported algorithm": {
			"example.com.",
			"DRwIYZn6exnhof/mcV/aEQ==",
			[]KeyOption{WithAlgorithm("hmac-sha3-256")},
			"",
			ErrUnsupportedAlgorithm,
		},
		"gss needs a context": {
			"example.com.",
			"DRwIYZn6exnhof/mcV/aEQ==",
			[]KeyOption{WithAlgorithm(GSS)},
			"",
			ErrUnsupportedAlgorithm,
		},
		"empty secret": {
			"example.com.",
			"",
			nil,
			"",
			ErrEmptySecret,
		},
		"bad base64": {
			"example.com.",
			"garbage",
			nil,
			"",
			base64.CorruptInputError(4),
		},
	}

	for name, table := range tables {
		table := table
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			key, err := NewKey(table.name, table.secret, table.options...)
			if table.err != nil {
				assert.ErrorIs(t, err, table.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, dns.CanonicalName(table.name), key.Name())
			assert.Equal(t, table.algorithm, key.Algorithm())
		})
	}
}

func TestKeyEqual(t *testing.T) {
	t.Parallel()

	a, err := NewKey("EXAMPLE.com", "DRwIYZn6exnhof/mcV/aEQ==")
	require.NoError(t, err)

	b, err := NewKey("example.com.", "DRwIYZn6exnhof/mcV/aEQ==")
	require.NoError(t, err)

	c, err := NewKey("example.com.", "DRwIYZn6exnhof/mcV/aEQ==", WithAlgorithm(dns.HmacSHA1))
	require.NoError(t, err)

	d, err := NewKey("example.com.", "dZFRPtLqbQXGs7SdraTJJSGNSCU=")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
}

func TestKeyString(t *testing.T) {
	t.Parallel()

	key, err := NewKey("example.com.", "DRwIYZn6exnhof/mcV/aEQ==")
	require.NoError(t, err)

	assert.Equal(t, "example.com.(hmac-sha256.)", key.String())
}

func TestNewGSSKey(t *testing.T) {
	t.Parallel()

	_, err := NewGSSKey("example.com.", nil)
	assert.ErrorIs(t, err, ErrEmptySecret)

	key, err := NewGSSKey("1234.sig-ns.example.com.", fakeSecurityContext{})
	require.NoError(t, err)
	assert.Equal(t, GSS, key.Algorithm())
}

type fakeSecurityContext struct{}

func (fakeSecurityContext) GetSignature(_ []byte) ([]byte, error) { return nil, nil }

func (fakeSecurityContext) VerifySignature(_, _ []byte) error { return nil }

func (fakeSecurityContext) Step(_ []byte) ([]byte, error) { return nil, nil }

func TestNewEngineUnsupported(t *testing.T) {
	t.Parallel()

	_, err := newHMACEngine([]byte("secret"), "made-up.")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
