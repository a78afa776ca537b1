package gss

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// GenerateTKEYName returns a unique TKEY name of the form used by
// nsupdate(1), anchored under the host being negotiated with.
func GenerateTKEYName(host string) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return dns.Fqdn(fmt.Sprintf("%d.sig-%s", binary.BigEndian.Uint32(b), strings.TrimSuffix(host, "."))), nil
}

// GenerateSPN returns the service principal name for the DNS service on
// host.
func GenerateSPN(host string) string {
	return fmt.Sprintf("DNS/%s", strings.TrimSuffix(host, "."))
}
