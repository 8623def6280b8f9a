package filter

// Config holds execution settings shared by all filters.
type Config struct {
	// Workers bounds per-channel parallelism; 0 uses GOMAXPROCS.
	Workers int
}

// Option mutates a Config.
type Option func(*Config)

// WithWorkers sets the worker count. Negative values are ignored.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.Workers = n
		}
	}
}

func applyOptions(opts ...Option) Config {
	var cfg Config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
