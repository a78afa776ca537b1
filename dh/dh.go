/*
Package dh implements the RFC 2930 Diffie-Hellman key derivation used with
TKEY mode 2. The TKEY exchange itself is driven by the caller; this
package only derives the shared TSIG key:

	exchange, err := dh.New()
	if err != nil {
	        panic(err)
	}

	keyData, err := exchange.KeyData()
	if err != nil {
	        panic(err)
	}

	// Place keyData in a KEY record alongside a TKEY query carrying
	// exchange.Nonce() with mode tsig.TkeyModeDH, exchange it with the
	// server, then derive the key from the peer KEY record and the
	// nonce in the TKEY answer.

	key, err := exchange.Derive("tkey.example.com.", peerKeyData, exchange.Nonce(), peerNonce)
	if err != nil {
	        panic(err)
	}
*/
package dh

import (
	"bytes"
	"crypto/md5" //nolint:gosec
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/Keeper-of-the-Keys/tsig"
	"github.com/enceve/crypto/dh"
	"github.com/miekg/dns"
)

const (
	// RFC 2409, section 6.2
	modp1024 = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
		"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
		"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
		"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
		"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE65381" +
		"FFFFFFFFFFFFFFFF"

	nonceSize = 16
)

type dhkey struct {
	prime, generator, key []byte
}

// Exchange holds one side's key pair and nonce for an RFC 2930
// Diffie-Hellman TKEY negotiation.
type Exchange struct {
	group   *dh.Group
	private *big.Int
	public  *big.Int
	nonce   []byte
}

func group2() *dh.Group {
	p, _ := new(big.Int).SetString(modp1024, 16)

	return &dh.Group{
		P: p,
		G: new(big.Int).SetInt64(2),
	}
}

// New generates a fresh MODP-1024 key pair and nonce.
func New() (*Exchange, error) {
	g := group2()

	x, y, err := g.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return &Exchange{
		group:   g,
		private: x,
		public:  y,
		nonce:   nonce,
	}, nil
}

// Nonce returns the nonce to carry in the TKEY record key data.
func (e *Exchange) Nonce() []byte {
	return e.nonce
}

// KeyData returns the length-prefixed prime, generator and public key blob
// to carry in a KEY record.
func (e *Exchange) KeyData() ([]byte, error) {
	return writeDHKey(&dhkey{
		prime:     e.group.P.Bytes(),
		generator: e.group.G.Bytes(),
		key:       e.public.Bytes(),
	})
}

func readDHKey(raw []byte) (*dhkey, error) {
	var key dhkey

	r := bytes.NewBuffer(raw)

	var length uint16
	for _, f := range []*[]byte{&key.prime, &key.generator, &key.key} {
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, err
		}

		*f = make([]byte, length)
		if _, err := io.ReadFull(r, *f); err != nil {
			return nil, err
		}
	}

	return &key, nil
}

func writeDHKey(key *dhkey) ([]byte, error) {
	w := new(bytes.Buffer)

	for _, f := range []*[]byte{&key.prime, &key.generator, &key.key} {
		if err := binary.Write(w, binary.BigEndian, uint16(len(*f))); err != nil {
			return nil, err
		}

		if _, err := w.Write(*f); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

func computeMD5(nonce, secret []byte) []byte {
	checksum := md5.Sum(append(nonce, secret...)) //nolint:gosec

	return checksum[:]
}

// RFC 2930, section 4.1: the keying material is the DH value XORed with
// MD5(query nonce | DH value) concatenated with MD5(server nonce | DH
// value).
func computeDHKey(queryNonce, serverNonce, secret []byte) []byte {
	operand := append(computeMD5(queryNonce, secret), computeMD5(serverNonce, secret)...)

	var result []byte

	if len(secret) > len(operand) {
		result = make([]byte, len(secret))
		copy(result, secret)

		for i := 0; i < len(operand); i++ {
			result[i] ^= operand[i]
		}
	} else {
		result = make([]byte, len(operand))
		copy(result, operand)

		for i := 0; i < len(secret); i++ {
			result[i] ^= secret[i]
		}
	}

	return result
}

// Derive computes the shared TSIG key named name from the peer's KEY
// record data and the two nonces, queryNonce from the TKEY query and
// serverNonce from the TKEY answer. Both sides derive the same key when
// they pass the nonces in that order. The key algorithm defaults to
// HMAC-MD5 as deployed implementations of RFC 2930 expect; it can be
// overridden with tsig.WithAlgorithm.
func (e *Exchange) Derive(name string, peerKeyData []byte, queryNonce, serverNonce []byte, options ...tsig.KeyOption) (*tsig.Key, error) {
	peer, err := readDHKey(peerKeyData)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(peer.prime, e.group.P.Bytes()) || !bytes.Equal(peer.generator, e.group.G.Bytes()) {
		return nil, errors.New("dh: peer used a different group")
	}

	y := new(big.Int).SetBytes(peer.key)

	if err := e.group.Check(y); err != nil {
		return nil, err
	}

	secret := e.group.ComputeSecret(e.private, y).Bytes()

	raw := computeDHKey(queryNonce, serverNonce, secret)

	options = append([]tsig.KeyOption{tsig.WithAlgorithm(dns.HmacMD5)}, options...)

	return tsig.NewKeyRaw(name, raw, options...)
}
