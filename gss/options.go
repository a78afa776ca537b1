package gss

import "github.com/go-logr/logr"

// Option is the signature for all constructor options.
type Option func(*Context) error

// WithLogger sets the logger used.
func WithLogger(logger logr.Logger) Option {
	return func(c *Context) error {
		c.logger = logger.WithName("gss")

		return nil
	}
}
