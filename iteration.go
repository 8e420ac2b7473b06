// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"github.com/CogitatorTech/zodd/errors"
)

// Changeable is the interface Iteration drives each round: any
// Variable[T], regardless of its tuple type, satisfies it. Go methods
// cannot carry their own type parameters, so a heterogeneous
// collection of Variables can only be held behind an interface like
// this one.
type Changeable interface {
	Changed() (bool, error)
	TotalLen() int
}

// Iteration owns a set of Variables sharing one Context and drives
// them through semi-naive rounds together.
type Iteration struct {
	ctx          *Context
	maxRounds    int // negative means unbounded
	currentRound int
	variables    []Changeable
}

// IterationOption configures an Iteration at construction time.
type IterationOption func(*Iteration)

// WithMaxRounds caps the number of rounds Changed will drive before
// failing with MaxRoundsExceeded. Omit it (or pass a negative n) for
// an unbounded iteration.
func WithMaxRounds(n int) IterationOption {
	return func(it *Iteration) { it.maxRounds = n }
}

// NewIteration builds an Iteration bound to ctx (or a fresh default
// Context if ctx is nil).
func NewIteration(ctx *Context, opts ...IterationOption) *Iteration {
	if ctx == nil {
		ctx = NewContext()
	}
	it := &Iteration{ctx: ctx, maxRounds: -1}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// NewVariableIn creates a Variable[T] bound to it's Context and
// registers it so Iteration.Changed drives it each round. This is a
// package-level function rather than a method because Go does not
// allow methods to introduce their own type parameters.
func NewVariableIn[T Ordered[T]](it *Iteration) *Variable[T] {
	v := newVariable[T](it.ctx)
	it.variables = append(it.variables, v)
	return v
}

// CurrentRound returns the number of Changed calls made since
// construction or the last Reset.
func (it *Iteration) CurrentRound() int {
	return it.currentRound
}

// Changed increments the round counter, failing with
// MaxRoundsExceeded if the configured cap is exceeded, then invokes
// Changed on every member Variable — in parallel, across the
// Context's worker pool, when there is more than one — and returns
// the OR of their results.
func (it *Iteration) Changed() (bool, error) {
	it.currentRound++
	if it.maxRounds >= 0 && it.currentRound > it.maxRounds {
		return false, errors.Newf(errors.MaxRoundsExceeded, "iteration exceeded %d rounds", it.maxRounds)
	}

	n := len(it.variables)
	if n == 0 {
		return false, nil
	}

	results := make([]bool, n)
	pool := it.ctx.workPool()
	if pool.Enabled() && n > 1 {
		err := pool.Run(n, func(i int) error {
			changed, err := it.variables[i].Changed()
			if err != nil {
				return err
			}
			results[i] = changed
			return nil
		})
		if err != nil {
			return false, err
		}
	} else {
		for i := 0; i < n; i++ {
			changed, err := it.variables[i].Changed()
			if err != nil {
				return false, err
			}
			results[i] = changed
		}
	}

	any := false
	for _, r := range results {
		if r {
			any = true
			break
		}
	}
	it.ctx.log().Debugf("iteration round %d: changed=%v", it.currentRound, any)
	return any, nil
}

// Reset zeroes the round counter without touching any Variable. It is
// the hook for incremental maintenance: after a fixed point converges,
// the host inserts additional base tuples and re-drives the iteration
// without recomputing from scratch.
func (it *Iteration) Reset() {
	it.currentRound = 0
}

// Stats is a read-only snapshot of an Iteration's progress, useful for
// host-side reporting.
type Stats struct {
	Round             int
	VariableTotalLens []int
}

// Stats returns a snapshot of the Iteration's current round and each
// member Variable's TotalLen.
func (it *Iteration) Stats() Stats {
	lens := make([]int, len(it.variables))
	for i, v := range it.variables {
		lens[i] = v.TotalLen()
	}
	return Stats{Round: it.currentRound, VariableTotalLens: lens}
}
