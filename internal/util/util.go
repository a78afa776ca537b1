// Package util provides the low-level wire encoding helpers shared by the
// digest assembly and the dh subpackage.
package util

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
)

// Error represents a wire encoding error.
type Error struct {
	err string
}

func (e *Error) Error() string {
	return "tsig: " + e.err
}

// FromBase64 decodes standard base64 encoded text.
func FromBase64(s []byte) (buf []byte, err error) {
	buflen := base64.StdEncoding.DecodedLen(len(s))
	buf = make([]byte, buflen)
	n, err := base64.StdEncoding.Decode(buf, s)
	buf = buf[:n]

	return
}

// UnpackUint16 reads a big-endian uint16 from msg at off.
func UnpackUint16(msg []byte, off int) (uint16, int, error) {
	if off+2 > len(msg) {
		return 0, len(msg), &Error{err: "overflow unpacking uint16"}
	}

	return binary.BigEndian.Uint16(msg[off:]), off + 2, nil
}

// PackUint16 writes a big-endian uint16 into msg at off.
func PackUint16(i uint16, msg []byte, off int) (int, error) {
	if off+2 > len(msg) {
		return len(msg), &Error{err: "overflow packing uint16"}
	}

	binary.BigEndian.PutUint16(msg[off:], i)

	return off + 2, nil
}

// PackUint32 writes a big-endian uint32 into msg at off.
func PackUint32(i uint32, msg []byte, off int) (int, error) {
	if off+4 > len(msg) {
		return len(msg), &Error{err: "overflow packing uint32"}
	}

	binary.BigEndian.PutUint32(msg[off:], i)

	return off + 4, nil
}

// PackUint48 writes the low 48 bits of i into msg at off, big-endian. TSIG
// signing times are 48-bit values.
func PackUint48(i uint64, msg []byte, off int) (int, error) {
	if off+6 > len(msg) {
		return len(msg), &Error{err: "overflow packing uint64 as uint48"}
	}

	msg[off] = byte(i >> 40)
	msg[off+1] = byte(i >> 32)
	msg[off+2] = byte(i >> 24)
	msg[off+3] = byte(i >> 16)
	msg[off+4] = byte(i >> 8)
	msg[off+5] = byte(i)

	return off + 6, nil
}

// PackStringHex decodes the hex string s and writes the raw bytes into msg
// at off.
func PackStringHex(s string, msg []byte, off int) (int, error) {
	h, err := hex.DecodeString(s)
	if err != nil {
		return len(msg), err
	}

	if off+len(h) > len(msg) {
		return len(msg), &Error{err: "overflow packing hex"}
	}

	copy(msg[off:off+len(h)], h)

	return off + len(h), nil
}
