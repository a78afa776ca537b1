package tsig

import (
	"encoding/hex"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"
)

// Adapter resolves key names against a Keyring and feeds TKEY handshake
// tokens into GSS security contexts. When a received message carries a
// TKEY answer for a GSS key, the key material is stepped into the context
// before the key is handed back, so the caller can complete the GSS
// negotiation before verifying the signed response to the TKEY exchange.
type Adapter struct {
	keyring *Keyring
	logger  logr.Logger
}

// NewAdapter returns an Adapter over the keyring.
func NewAdapter(keyring *Keyring, options ...Option[Adapter]) (*Adapter, error) {
	a := &Adapter{
		keyring: keyring,
		logger:  logr.Discard(),
	}

	for _, option := range options {
		if err := option(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Key returns the named key. If the key is a GSS key and msg carries a
// TKEY answer for it, the hex-encoded token is fed into the security
// context first. It returns dns.ErrSecret for an unknown key.
func (a *Adapter) Key(msg *dns.Msg, keyname string) (*Key, error) {
	key, ok := a.keyring.Lookup(keyname)
	if !ok {
		return nil, dns.ErrSecret
	}

	if key.algorithm != GSS || msg == nil {
		return key, nil
	}

	name := dns.CanonicalName(keyname)

	for _, rr := range msg.Answer {
		t, ok := rr.(*dns.TKEY)
		if !ok || dns.CanonicalName(t.Hdr.Name) != name {
			continue
		}

		token, err := hex.DecodeString(t.Key)
		if err != nil {
			return nil, err
		}

		a.logger.V(1).Info("stepping security context", "name", name)

		if _, err := key.ctx.Step(token); err != nil {
			return nil, err
		}

		break
	}

	return key, nil
}
