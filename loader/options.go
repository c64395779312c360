package loader

import (
	"context"

	"github.com/caffeineduck/bdlbridge/compute"
	"go.uber.org/zap"
)

// Opener turns module bytes into a usable handle.
type Opener func(ctx context.Context, wasm []byte) (compute.Handle, error)

// Option configures a Loader.
type Option func(*config)

type config struct {
	opener      Opener
	computeOpts []compute.Option
	log         *zap.Logger
}

func defaultConfig() config {
	return config{log: zap.NewNop()}
}

// WithOpener replaces the default opener, which loads the bytes with
// compute.Load. Compute options are ignored when an opener is set.
func WithOpener(open Opener) Option {
	return func(c *config) {
		c.opener = open
	}
}

// WithComputeOptions sets the options the default opener passes to
// compute.Load. The loader's logger is appended to them.
func WithComputeOptions(opts ...compute.Option) Option {
	return func(c *config) {
		c.computeOpts = append(c.computeOpts, opts...)
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

func computeOpener(opts []compute.Option) Opener {
	return func(ctx context.Context, wasm []byte) (compute.Handle, error) {
		mod, err := compute.Load(ctx, wasm, opts...)
		if err != nil {
			return nil, err
		}
		return mod, nil
	}
}
