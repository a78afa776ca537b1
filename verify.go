package tsig

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/miekg/dns"
)

// Verify checks the received TSIG record rr against key. msg is the
// complete message as received, offset the position in msg at which the
// TSIG record starts; the message is reconstructed as it was before the
// record was appended, with the additional-record count decremented, and
// msg itself is never modified.
//
// now is the verifier's clock in seconds since the epoch and requestMAC
// the hex-encoded MAC of the request this message answers, empty if the
// request was unsigned. For continuations of a multi-message exchange, d
// is the Digest returned by the previous call.
//
// The checks run in a fixed order, the first failure winning: the message
// must have room for the record (ErrMalformedMessage), a nonzero error
// code in rr is reported as the corresponding peer error before any digest
// computation, then the time window (ErrBadTime), the owner name
// (ErrBadKey), the algorithm (ErrBadAlgorithm) and finally the MAC itself
// (ErrBadSignature).
//
// If multi is true, the returned Digest continues the exchange and must be
// passed to the next Verify call; otherwise it is nil.
func Verify(msg []byte, key *Key, rr *dns.TSIG, offset int, now uint64, requestMAC string, d *Digest, multi bool) (*Digest, error) {
	if len(msg) < headerSize || offset < headerSize || offset > len(msg) {
		return nil, ErrMalformedMessage
	}

	arcount := binary.BigEndian.Uint16(msg[10:])
	if arcount == 0 {
		return nil, ErrMalformedMessage
	}

	// The peer explicitly rejected an earlier message and will not have
	// computed a MAC over this one.
	if rr.Error != 0 {
		return nil, peerError(rr.Error)
	}

	skew := now - rr.TimeSigned
	if now < rr.TimeSigned {
		skew = rr.TimeSigned - now
	}

	if skew > uint64(rr.Fudge) {
		return nil, ErrBadTime
	}

	if dns.CanonicalName(rr.Hdr.Name) != key.name {
		return nil, ErrBadKey
	}

	if dns.CanonicalName(rr.Algorithm) != key.algorithm {
		return nil, ErrBadAlgorithm
	}

	// The message as it was before the TSIG record was appended.
	stripped := make([]byte, offset)
	copy(stripped, msg[:offset])
	binary.BigEndian.PutUint16(stripped[10:], arcount-1)

	first := !(d != nil && multi)
	if first {
		var err error
		if d, err = newDigest(key); err != nil {
			return nil, err
		}
	}

	if err := d.digest(stripped, rr, requestMAC, first); err != nil {
		return nil, err
	}

	mac, err := hex.DecodeString(rr.MAC)
	if err != nil {
		return nil, ErrBadSignature
	}

	if err := d.engine.Verify(mac); err != nil {
		return nil, err
	}

	return nextDigest(key, mac, multi)
}
