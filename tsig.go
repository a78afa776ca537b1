/*
Package tsig signs and verifies DNS messages with RFC 8945 transaction
signatures.

Basic usage pattern for signing a message:

	key, err := tsig.NewKey("tsig.example.com.", "DRwIYZn6exnhof/mcV/aEQ==")
	if err != nil {
	        panic(err)
	}

	msg := new(dns.Msg)
	msg.SetUpdate(dns.Fqdn("example.com"))

	wire, err := msg.Pack()
	if err != nil {
	        panic(err)
	}

	rr, _, err := tsig.Generate(wire, key, &dns.TSIG{Fudge: 300}, "", nil, false)
	if err != nil {
	        panic(err)
	}

	// Append rr to the additional section of the message, exchange it,
	// then Verify the signed response passing rr.MAC as the request MAC.

For multi-message exchanges such as zone transfers, pass multi as true and
thread the returned *Digest through each subsequent Generate or Verify
call.

GSS-TSIG keys delegate the MAC computation to an established security
context, see the gss subpackage.
*/
package tsig

import "github.com/miekg/dns"

// Algorithm names not already defined by the dns package. All algorithm
// names are domain names and are compared case-insensitively in their
// canonical form.
const (
	// GSS is the RFC 3645 defined algorithm name.
	GSS = "gss-tsig."
	// HmacSHA256_128 is HMAC-SHA256 truncated to 128 bits, RFC 8945.
	HmacSHA256_128 = "hmac-sha256-128."
	// HmacSHA384_192 is HMAC-SHA384 truncated to 192 bits, RFC 8945.
	HmacSHA384_192 = "hmac-sha384-192."
	// HmacSHA512_256 is HMAC-SHA512 truncated to 256 bits, RFC 8945.
	HmacSHA512_256 = "hmac-sha512-256."
)

const (
	// DefaultAlgorithm is used when a key is constructed without an
	// explicit algorithm.
	DefaultAlgorithm = dns.HmacSHA256
	// DefaultFudge is the RFC 8945 recommended clock skew allowance in
	// seconds.
	DefaultFudge uint16 = 300
)

// RFC 2930, section 2.5. Useful for callers driving their own TKEY
// exchanges with the gss and dh subpackages.
const (
	TkeyModeServer uint16 = iota + 1
	TkeyModeDH
	TkeyModeGSS
	TkeyModeResolver
	TkeyModeDelete
)

const headerSize = 12
