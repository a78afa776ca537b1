package tsig

import (
	"crypto/hmac"
	"crypto/md5"  //nolint:gosec
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/miekg/dns"
)

type hmacAlgorithm struct {
	new  func() hash.Hash
	bits int // truncated MAC size, 0 means the native digest size
}

//nolint:gochecknoglobals
var hmacAlgorithms = map[string]hmacAlgorithm{
	dns.HmacMD5:    {md5.New, 0},
	dns.HmacSHA1:   {sha1.New, 0},
	dns.HmacSHA224: {sha256.New224, 0},
	dns.HmacSHA256: {sha256.New, 0},
	HmacSHA256_128: {sha256.New, 128},
	dns.HmacSHA384: {sha512.New384, 0},
	HmacSHA384_192: {sha512.New384, 192},
	dns.HmacSHA512: {sha512.New, 0},
	HmacSHA512_256: {sha512.New, 256},
}

type hmacEngine struct {
	hash.Hash
	size int // MAC size in bytes
}

func newHMACEngine(secret []byte, algorithm string) (*hmacEngine, error) {
	a, ok := hmacAlgorithms[dns.CanonicalName(algorithm)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}

	return &hmacEngine{
		Hash: hmac.New(a.new, secret),
		size: a.bits / 8,
	}, nil
}

func (e *hmacEngine) Sign() ([]byte, error) {
	mac := e.Sum(nil)
	if e.size > 0 {
		mac = mac[:e.size]
	}

	return mac, nil
}

func (e *hmacEngine) Verify(expected []byte) error {
	mac, _ := e.Sign()
	if !hmac.Equal(mac, expected) {
		return ErrBadSignature
	}

	return nil
}
