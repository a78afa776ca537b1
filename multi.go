package tsig

import (
	"errors"

	"github.com/miekg/dns"
)

type multiProvider struct {
	providers []dns.TsigProvider
}

func skippable(err error) bool {
	return errors.Is(err, dns.ErrKeyAlg) || errors.Is(err, dns.ErrSecret)
}

func (mp *multiProvider) Generate(msg []byte, t *dns.TSIG) (b []byte, err error) {
	err = dns.ErrSecret

	for _, p := range mp.providers {
		if b, err = p.Generate(msg, t); err == nil || !skippable(err) {
			return
		}
	}

	return nil, err
}

func (mp *multiProvider) Verify(msg []byte, t *dns.TSIG) (err error) {
	err = dns.ErrSecret

	for _, p := range mp.providers {
		if err = p.Verify(msg, t); err == nil || !skippable(err) {
			return
		}
	}

	return err
}

// MultiProvider creates a dns.TsigProvider that chains the provided input
// providers. This allows disjoint keyrings and multiple TSIG algorithms.
//
// Each provider is called in turn and if it returns dns.ErrKeyAlg or
// dns.ErrSecret the next provider in the list is tried. On success or any
// other error, the result is returned; it does not continue down the list.
func MultiProvider(providers ...dns.TsigProvider) dns.TsigProvider {
	allProviders := make([]dns.TsigProvider, 0, len(providers))

	for _, p := range providers {
		if mp, ok := p.(*multiProvider); ok {
			allProviders = append(allProviders, mp.providers...)
		} else {
			allProviders = append(allProviders, p)
		}
	}

	return &multiProvider{allProviders}
}
