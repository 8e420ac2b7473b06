// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"sort"

	"github.com/CogitatorTech/zodd/internal/parallel"
)

// kvRef pairs an extracted key with the tuple it came from, used only
// as Aggregate's scratch buffer.
type kvRef[K Ordered[K], T any] struct {
	key K
	val T
}

// Aggregate groups rel's elements by keyFn and folds each group with
// folder, starting from init, returning a Relation of (key, accumulator)
// pairs sorted by key. The input's own ordering (by the full tuple) is
// not sufficient for grouping when keyFn is not a prefix of the tuple
// order, so Aggregate builds and sorts its own auxiliary sequence
// rather than relying on rel's order. Only the preprocessing pass
// (filling that sequence) is parallelized; the fold itself is a single
// sequential walk.
func Aggregate[T Ordered[T], K Ordered[K], A Ordered[A]](
	ctx *Context,
	rel *Relation[T],
	keyFn func(T) K,
	init A,
	folder func(A, T) A,
) *Relation[Pair[K, A]] {
	elems := rel.Elements()
	n := len(elems)
	if n == 0 {
		return Empty[Pair[K, A]](ctx)
	}

	buf := make([]kvRef[K, T], n)
	fill := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			buf[i] = kvRef[K, T]{key: keyFn(elems[i]), val: elems[i]}
		}
	}

	pool := ctx.workPool()
	chunks := parallel.Chunks(n, chunkSize)
	if pool.Enabled() && len(chunks) > 1 {
		_ = pool.Run(len(chunks), func(i int) error {
			b := chunks[i]
			fill(b[0], b[1])
			return nil
		})
	} else {
		fill(0, n)
	}

	sort.SliceStable(buf, func(i, j int) bool { return buf[i].key.Less(buf[j].key) })

	var out []Pair[K, A]
	for i := 0; i < len(buf); {
		k := buf[i].key
		acc := init
		j := i
		for j < len(buf) && equal(buf[j].key, k) {
			acc = folder(acc, buf[j].val)
			j++
		}
		out = append(out, Pair[K, A]{Key: k, Val: acc})
		i = j
	}

	return FromSequence[Pair[K, A]](ctx, out)
}
