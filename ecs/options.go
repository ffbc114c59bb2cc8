package ecs

import "log/slog"

type config struct {
	logger         *slog.Logger
	entityCapacity int
}

func newConfig(opts []Option) config {
	cfg := config{
		logger:         slog.Default(),
		entityCapacity: 256,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a Store or World.
type Option func(*config)

// WithLogger sets the logger used for warnings and lifecycle events.
// A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEntityCapacity presizes the entity table.
func WithEntityCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.entityCapacity = n
		}
	}
}
