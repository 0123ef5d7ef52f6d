package colony

import (
	"log/slog"
	"math/rand/v2"
)

type options struct {
	logger *slog.Logger
	rand   *rand.Rand
}

// Option configures a World.
type Option func(*options)

// WithLogger sets the logger used by the world. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRand sets the source of randomness used when populating a world.
// Defaults to a generator seeded with Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

func buildOptions(config Config, opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))
	}

	return o
}
