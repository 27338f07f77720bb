package render

import (
	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/log"
)

// DefaultMaxDepth is the default limit on nested pl-src includes.
const DefaultMaxDepth = 64

// Option configures a render.
type Option func(*config)

type config struct {
	logger   log.Logger
	maxDepth int
	cache    bool
}

func newConfig(opts ...Option) config {
	c := config{maxDepth: DefaultMaxDepth, cache: true}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

func (c config) compileOptions() []lang.Option {
	return []lang.Option{lang.WithLogger(c.logger), lang.WithCache(c.cache)}
}

// WithLogger sets the logger used for trace and debug output. The zero
// logger discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxDepth limits how deeply pl-src includes may nest. Values below
// zero are treated as zero, which permits no includes at all.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = max(depth, 0) }
}

// WithCache controls whether expressions are parsed through the shared
// parse cache (enabled by default).
func WithCache(enable bool) Option {
	return func(c *config) { c.cache = enable }
}
