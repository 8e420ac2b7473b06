// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"os"
	"strconv"

	"github.com/CogitatorTech/zodd/internal/parallel"
	"github.com/CogitatorTech/zodd/logger"
)

// Context carries the resources every allocating or parallelizable
// operation needs: a worker pool (nil/size-1 means "run on the calling
// goroutine") and a Logger for diagnostic tracing. Go's allocator is
// not pluggable, so Context only surfaces the pool and, as an ambient
// addition, logging.
type Context struct {
	pool   *parallel.Pool
	logger logger.Logger
}

// ContextOption configures a Context at construction time, using the
// standard functional-options convention.
type ContextOption func(*Context)

// WithWorkerCount gives the Context a worker pool of the given size.
// Sizes <= 1 leave the Context sequential, which is the default.
func WithWorkerCount(n int) ContextOption {
	return func(c *Context) { c.pool = parallel.New(n) }
}

// WithLogger attaches a Logger. The default is logger.NopLogger.
func WithLogger(l logger.Logger) ContextOption {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewContext builds a Context from the given options. With no options,
// the Context is sequential and logs nowhere.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		pool:   parallel.New(0),
		logger: logger.NopLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pool.SetLogger(c.logger)
	return c
}

// Parallel reports whether this Context would fan work out across more
// than one goroutine.
func (c *Context) Parallel() bool {
	return c != nil && c.pool.Enabled()
}

// workPool returns a non-nil *parallel.Pool even for a nil *Context, so
// internal call sites can always dereference it directly.
func (c *Context) workPool() *parallel.Pool {
	if c == nil {
		return parallel.New(0)
	}
	return c.pool
}

// log returns a non-nil Logger even for a nil *Context.
func (c *Context) log() logger.Logger {
	if c == nil || c.logger == nil {
		return logger.NopLogger
	}
	return c.logger
}

// ContextOptionsFromEnv reads ZODD_WORKER_COUNT from the environment
// and, if present and valid, returns a WithWorkerCount option for it.
// This is the only environment-driven configuration the core
// recognizes.
func ContextOptionsFromEnv() []ContextOption {
	v, ok := os.LookupEnv("ZODD_WORKER_COUNT")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return []ContextOption{WithWorkerCount(n)}
}

// chunkSize is the threshold below which parallelizing isn't worth the
// goroutine overhead.
const chunkSize = 1024
