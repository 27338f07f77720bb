package profile

// Stopper ends a profiling session. Stop is safe to call on every Stopper
// returned by this package, including the no-op one.
type Stopper interface{ Stop() }

// Config describes a profiling session.
type Config struct {
	// Mode selects what is profiled. An empty or unsupported mode disables
	// profiling.
	Mode string
	// Dir is the output directory. Empty means the working directory.
	Dir string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Option applies a configuration option to Config.
type Option func(Config) Config

// Make returns a Config with opts applied in order.
func Make(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMode returns an Option setting the profiling mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithDir returns an Option setting the output directory.
func WithDir(dir string) Option {
	return func(c Config) Config {
		c.Dir = dir

		return c
	}
}

// WithQuiet returns an Option setting the quiet flag.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Enabled reports whether Start would begin a real profiling session.
func (c Config) Enabled() bool {
	if c.Mode == "" {
		return false
	}

	for _, m := range Modes() {
		if m == c.Mode {
			return true
		}
	}

	return false
}

// Start begins profiling and returns the [Stopper] ending it.
//
// Without the pprof build tag, or when c is not [Config.Enabled], Start
// returns a no-op.
func (c Config) Start() Stopper {
	if !c.Enabled() {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
