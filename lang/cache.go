package lang

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/platelet/log"
)

var (
	// exprCache stores parsed expressions keyed by the hash of their source.
	// Parsed trees are immutable, so one tree is shared by every caller.
	exprCache sync.Map

	// loopCache stores parsed pl-for directives keyed the same way.
	loopCache sync.Map
)

// Option configures [Compile] and [CompileForLoop].
type Option func(*compiler)

type compiler struct {
	logger log.Logger
	cache  bool
}

func newCompiler(opts ...Option) compiler {
	c := compiler{cache: true}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *compiler) {
		c.logger = logger
	}
}

// WithCache enables or disables the process-wide parse cache (enabled by
// default).
func WithCache(enable bool) Option {
	return func(c *compiler) {
		c.cache = enable
	}
}

// ClearCache discards all cached parse results.
func ClearCache() {
	exprCache.Clear()
	loopCache.Clear()
}

// Compile parses src like [Parse], reusing the tree of any earlier
// successful parse of identical source.
func Compile(ctx context.Context, src string, opts ...Option) (Expr, error) {
	return compile(ctx, &exprCache, "expression", src, Parse, opts...)
}

// CompileForLoop parses src like [ParseForLoop], reusing the result of any
// earlier successful parse of identical source.
func CompileForLoop(
	ctx context.Context,
	src string,
	opts ...Option,
) (*ForLoop, error) {
	return compile(ctx, &loopCache, "for loop", src, ParseForLoop, opts...)
}

func compile[T any](
	ctx context.Context,
	cache *sync.Map,
	what, src string,
	parse func(string) (T, error),
	opts ...Option,
) (T, error) {
	c := newCompiler(opts...)
	key := xxh3.HashString128(src)

	if c.cache {
		if v, ok := cache.Load(key); ok {
			c.logger.TraceContext(ctx, "parse cache hit",
				slog.String("kind", what),
				slog.String("source", src))

			return v.(T), nil
		}
	}

	parsed, err := parse(src)
	if err != nil {
		c.logger.TraceContext(ctx, "parse failed",
			slog.String("kind", what),
			slog.String("source", src),
			slog.Any("error", err))

		return parsed, err
	}

	if c.cache {
		cache.Store(key, parsed)
	}

	c.logger.TraceContext(ctx, "parse complete",
		slog.String("kind", what),
		slog.String("source", src),
		slog.Bool("cached", c.cache))

	return parsed, nil
}
