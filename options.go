package tsig

import "github.com/go-logr/logr"

// Option is the signature for all constructor options.
type Option[T Keyring | Adapter] func(*T) error

// WithLogger sets the logger used. Key secrets are never logged.
func WithLogger[T Keyring | Adapter](logger logr.Logger) Option[T] {
	return func(a *T) error {
		switch x := any(a).(type) {
		case *Keyring:
			x.logger = logger.WithName("keyring")
		case *Adapter:
			x.logger = logger.WithName("adapter")
		}

		return nil
	}
}
