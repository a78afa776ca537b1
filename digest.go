package tsig

import (
	"encoding/binary"
	"math"

	"github.com/Keeper-of-the-Keys/tsig/internal/util"
	"github.com/miekg/dns"
)

// The TSIG variables that are fed to the engine in wire format on the
// first message of an exchange. RFC 8945, section 4.3.3.
type tsigWireFmt struct {
	// From RR_Header
	Name  string
	Class uint16
	Ttl   uint32
	// Rdata of the TSIG, MACSize, MAC and OrigId excluded
	Algorithm  string
	TimeSigned uint64
	Fudge      uint16
	Error      uint16
	OtherLen   uint16
	OtherData  string
}

// The request MAC in wire format. RFC 8945, section 4.3.1.
type macWireFmt struct {
	MACSize uint16
	MAC     string
}

// The reduced variables digested on continuation messages of a
// multi-message exchange. RFC 8945, section 5.3.1.
type timerWireFmt struct {
	TimeSigned uint64
	Fudge      uint16
}

// Digest accumulates the canonical bytes of one message in a signed
// exchange. A fresh Digest is created for the first message; for each
// subsequent message of a multi-message exchange, Generate and Verify
// return a new Digest pre-seeded with the length-prefixed MAC just
// produced, ready to be passed into the next call.
//
// A Digest carries sequential streaming state: it must not be shared
// between concurrent callers or unrelated exchanges.
type Digest struct {
	engine Engine
}

func newDigest(key *Key) (*Digest, error) {
	engine, err := NewEngine(key)
	if err != nil {
		return nil, err
	}

	return &Digest{engine: engine}, nil
}

// nextDigest starts the digest for the next message in a multi-message
// exchange, seeded with the MAC of the message just signed or verified.
func nextDigest(key *Key, mac []byte, multi bool) (*Digest, error) {
	if !multi {
		return nil, nil //nolint:nilnil
	}

	d, err := newDigest(key)
	if err != nil {
		return nil, err
	}

	var b [2]byte

	binary.BigEndian.PutUint16(b[:], uint16(len(mac)))

	if _, err := d.engine.Write(b[:]); err != nil {
		return nil, err
	}

	if _, err := d.engine.Write(mac); err != nil {
		return nil, err
	}

	return d, nil
}

// digest feeds the canonical byte stream for one message to the engine:
// the optional request MAC, the wire bytes with the original message ID
// substituted, and the TSIG variables. On the first message of an exchange
// the full variables block is digested; on continuations only the timers.
// The input wire is never modified.
func (d *Digest) digest(wire []byte, rr *dns.TSIG, requestMAC string, first bool) error {
	if len(rr.OtherData)/2 > math.MaxUint16 {
		return ErrOtherDataTooLong
	}

	if first && requestMAC != "" {
		m := &macWireFmt{
			MACSize: uint16(len(requestMAC) / 2),
			MAC:     requestMAC,
		}

		buf := make([]byte, 2+len(requestMAC))

		n, err := packMacWire(m, buf)
		if err != nil {
			return err
		}

		if _, err := d.engine.Write(buf[:n]); err != nil {
			return err
		}
	}

	// The message as it was signed, with the original ID in the header.
	var id [2]byte

	binary.BigEndian.PutUint16(id[:], rr.OrigId)

	if _, err := d.engine.Write(id[:]); err != nil {
		return err
	}

	if _, err := d.engine.Write(wire[2:]); err != nil {
		return err
	}

	// Each name packs to at most one byte more than its textual form;
	// the fixed fields take 18 bytes.
	vars := make([]byte, len(rr.Hdr.Name)+len(rr.Algorithm)+20+len(rr.OtherData)/2)

	var (
		n   int
		err error
	)

	if first {
		tw := &tsigWireFmt{
			Name:       dns.CanonicalName(rr.Hdr.Name),
			Class:      dns.ClassANY,
			Ttl:        0,
			Algorithm:  dns.CanonicalName(rr.Algorithm),
			TimeSigned: rr.TimeSigned,
			Fudge:      rr.Fudge,
			Error:      rr.Error,
			OtherLen:   uint16(len(rr.OtherData) / 2),
			OtherData:  rr.OtherData,
		}
		n, err = packTsigWire(tw, vars)
	} else {
		tw := &timerWireFmt{
			TimeSigned: rr.TimeSigned,
			Fudge:      rr.Fudge,
		}
		n, err = packTimerWire(tw, vars)
	}

	if err != nil {
		return err
	}

	_, err = d.engine.Write(vars[:n])

	return err
}

func packTsigWire(tw *tsigWireFmt, msg []byte) (int, error) {
	off, err := dns.PackDomainName(tw.Name, msg, 0, nil, false)
	if err != nil {
		return off, err
	}

	if off, err = util.PackUint16(tw.Class, msg, off); err != nil {
		return off, err
	}

	if off, err = util.PackUint32(tw.Ttl, msg, off); err != nil {
		return off, err
	}

	if off, err = dns.PackDomainName(tw.Algorithm, msg, off, nil, false); err != nil {
		return off, err
	}

	if off, err = util.PackUint48(tw.TimeSigned, msg, off); err != nil {
		return off, err
	}

	if off, err = util.PackUint16(tw.Fudge, msg, off); err != nil {
		return off, err
	}

	if off, err = util.PackUint16(tw.Error, msg, off); err != nil {
		return off, err
	}

	if off, err = util.PackUint16(tw.OtherLen, msg, off); err != nil {
		return off, err
	}

	return util.PackStringHex(tw.OtherData, msg, off)
}

func packMacWire(mw *macWireFmt, msg []byte) (int, error) {
	off, err := util.PackUint16(mw.MACSize, msg, 0)
	if err != nil {
		return off, err
	}

	return util.PackStringHex(mw.MAC, msg, off)
}

func packTimerWire(tw *timerWireFmt, msg []byte) (int, error) {
	off, err := util.PackUint48(tw.TimeSigned, msg, 0)
	if err != nil {
		return off, err
	}

	return util.PackUint16(tw.Fudge, msg, off)
}
