package tsig

import (
	"encoding/hex"
	"io"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/miekg/dns"
)

var _ dns.TsigProvider = (*Keyring)(nil)

// Keyring holds keys indexed by their canonical name. It implements
// dns.TsigProvider so it can be plugged straight into a dns.Client or
// dns.Server. It is safe for concurrent use.
//
// It is an in-memory lookup table only; distributing or persisting keys is
// up to the caller.
type Keyring struct {
	m      sync.RWMutex
	keys   map[string]*Key
	logger logr.Logger
}

// NewKeyring returns an empty Keyring.
func NewKeyring(options ...Option[Keyring]) (*Keyring, error) {
	k := &Keyring{
		keys:   make(map[string]*Key),
		logger: logr.Discard(),
	}

	for _, option := range options {
		if err := option(k); err != nil {
			return nil, err
		}
	}

	return k, nil
}

// Add adds or replaces the key, indexed by its name.
func (r *Keyring) Add(key *Key) {
	r.m.Lock()
	defer r.m.Unlock()

	r.keys[key.name] = key

	r.logger.V(1).Info("added key", "name", key.name, "algorithm", key.algorithm)
}

// Remove removes the named key if present.
func (r *Keyring) Remove(name string) {
	r.m.Lock()
	defer r.m.Unlock()

	delete(r.keys, dns.CanonicalName(name))
}

// Lookup returns the named key.
func (r *Keyring) Lookup(name string) (*Key, bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	key, ok := r.keys[dns.CanonicalName(name)]

	return key, ok
}

// Names returns the sorted names of all keys.
func (r *Keyring) Names() []string {
	r.m.RLock()
	defer r.m.RUnlock()

	names := make([]string, 0, len(r.keys))
	for name := range r.keys {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Close removes all keys, closing any security contexts that implement
// io.Closer. It returns any errors that occurred.
func (r *Keyring) Close() error {
	r.m.Lock()
	defer r.m.Unlock()

	var errs *multierror.Error

	for name, key := range r.keys {
		if c, ok := key.ctx.(io.Closer); ok {
			errs = multierror.Append(errs, c.Close())
		}

		delete(r.keys, name)
	}

	return errs.ErrorOrNil()
}

// Generate computes the MAC over msg with the key named by the owner of t.
// It is called by the dns package with the canonical bytes of the message
// being signed. It returns dns.ErrSecret for an unknown key and
// dns.ErrKeyAlg when the record algorithm does not match the key, so
// keyrings chain cleanly under MultiProvider.
func (r *Keyring) Generate(msg []byte, t *dns.TSIG) ([]byte, error) {
	key, ok := r.Lookup(t.Hdr.Name)
	if !ok {
		return nil, dns.ErrSecret
	}

	if dns.CanonicalName(t.Algorithm) != key.algorithm {
		return nil, dns.ErrKeyAlg
	}

	engine, err := NewEngine(key)
	if err != nil {
		return nil, err
	}

	if _, err := engine.Write(msg); err != nil {
		return nil, err
	}

	return engine.Sign()
}

// Verify checks the MAC carried in t over the stripped message bytes with
// the key named by the owner of t. Like Generate it is called by the dns
// package; MAC failures are reported as ErrBadSignature.
func (r *Keyring) Verify(stripped []byte, t *dns.TSIG) error {
	key, ok := r.Lookup(t.Hdr.Name)
	if !ok {
		return dns.ErrSecret
	}

	if dns.CanonicalName(t.Algorithm) != key.algorithm {
		return dns.ErrKeyAlg
	}

	mac, err := hex.DecodeString(t.MAC)
	if err != nil {
		return err
	}

	engine, err := NewEngine(key)
	if err != nil {
		return err
	}

	if _, err := engine.Write(stripped); err != nil {
		return err
	}

	return engine.Verify(mac)
}
