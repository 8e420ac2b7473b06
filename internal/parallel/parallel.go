// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

// Package parallel implements the bounded worker-pool fan-out shared by
// every core operation that may run concurrently: Iteration.Changed,
// join_into, extend_into, join_anti, and the aggregate preprocessing
// pass. It is a thin wrapper over golang.org/x/sync/errgroup.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/CogitatorTech/zodd/logger"
)

// Pool bounds how many goroutines a Run call may use at once. A nil
// *Pool (or one with Size <= 1) means "run sequentially" — every
// exported core operation treats that as the default.
type Pool struct {
	// Size is the target concurrency. Values <= 1 disable parallelism.
	Size int

	log logger.Logger
}

// New returns a Pool with the given worker count. A count <= 1 yields a
// Pool that Run executes sequentially, so callers never need to branch
// on whether parallelism is enabled.
func New(size int) *Pool {
	return &Pool{Size: size}
}

// SetLogger attaches l so Run can trace the first error any task
// returns. A nil receiver is a no-op, so callers never need to guard
// against an unconfigured Pool.
func (p *Pool) SetLogger(l logger.Logger) {
	if p == nil {
		return
	}
	p.log = l
}

// Enabled reports whether p requests more than one worker.
func (p *Pool) Enabled() bool {
	return p != nil && p.Size > 1
}

func (p *Pool) logger() logger.Logger {
	if p == nil || p.log == nil {
		return logger.NopLogger
	}
	return p.log
}

// Run executes fn(0), fn(1), ..., fn(n-1). When the pool is enabled and
// n > 1, it runs them across at most p.Size goroutines using
// errgroup.WithContext, returning the first error encountered (the
// group's context is cancelled, but in-flight callbacks still run to
// completion). When disabled, it runs fn in index order on the calling
// goroutine, so results are identical to the parallel path modulo
// scheduling. Either way, the first error any task returns is traced
// at Debug level before Run returns it.
func (p *Pool) Run(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if !p.Enabled() || n == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				p.logger().Debugf("worker pool task %d failed: %v", i, err)
				return err
			}
		}
		return nil
	}

	g, _ := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, p.Size)
	for i := 0; i < n; i++ {
		i := i
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			return fn(i)
		})
	}
	err := g.Wait()
	if err != nil {
		p.logger().Debugf("worker pool run failed: %v", err)
	}
	return err
}

// Chunks splits [0, n) into contiguous ranges no larger than chunkSize,
// returning the (start, end) bounds of each. Used to turn "parallelize
// over this batch" into a fixed set of Run-able indices.
func Chunks(n, chunkSize int) [][2]int {
	if n <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = n
	}
	var chunks [][2]int
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, [2]int{start, end})
	}
	return chunks
}
