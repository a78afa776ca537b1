package tsig

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/miekg/dns"
)

// Generate signs the packed message msg with key and returns the completed
// TSIG record for the caller to append to the additional section. The
// message must be packed without the TSIG record and with the
// additional-record count not yet accounting for it.
//
// rr is a stub carrying the rdata fields to reuse: a zero TimeSigned means
// the current time, a zero Fudge means DefaultFudge and a zero OrigId
// means the ID already in the message header. Error and OtherData are
// digested as given; responses to errors such as BADTIME carry them.
//
// requestMAC is the hex-encoded MAC of the request being answered, empty
// when signing a request. When signing a continuation of a multi-message
// exchange, d is the Digest returned by the previous call.
//
// If multi is true, the returned Digest continues the exchange and must be
// passed to the next Generate call; otherwise it is nil.
func Generate(msg []byte, key *Key, rr *dns.TSIG, requestMAC string, d *Digest, multi bool) (*dns.TSIG, *Digest, error) {
	if len(msg) < headerSize {
		return nil, nil, ErrMalformedMessage
	}

	out := new(dns.TSIG)
	if rr != nil {
		*out = *rr
	}

	out.Hdr = dns.RR_Header{
		Name:   key.name,
		Rrtype: dns.TypeTSIG,
		Class:  dns.ClassANY,
		Ttl:    0,
	}
	out.Algorithm = key.algorithm

	if out.TimeSigned == 0 {
		out.TimeSigned = uint64(time.Now().Unix())
	}

	if out.Fudge == 0 {
		out.Fudge = DefaultFudge
	}

	if out.OrigId == 0 {
		out.OrigId = binary.BigEndian.Uint16(msg)
	}

	first := !(d != nil && multi)
	if first {
		var err error
		if d, err = newDigest(key); err != nil {
			return nil, nil, err
		}
	}

	if err := d.digest(msg, out, requestMAC, first); err != nil {
		return nil, nil, err
	}

	mac, err := d.engine.Sign()
	if err != nil {
		return nil, nil, err
	}

	out.MAC = hex.EncodeToString(mac)
	out.MACSize = uint16(len(mac))
	out.OtherLen = uint16(len(out.OtherData) / 2)

	next, err := nextDigest(key, mac, multi)
	if err != nil {
		return nil, nil, err
	}

	return out, next, nil
}
