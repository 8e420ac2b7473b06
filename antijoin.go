// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import "github.com/CogitatorTech/zodd/internal/parallel"

// JoinAnti emits the tuples of input.recent whose key does not appear
// anywhere in filter's tuple set — both filter.recent and every batch
// of filter.stable. Each probe gallops into one batch at a time and
// stops as soon as it finds a match, the same short-circuit the
// leapfrog FilterAnti leaper uses, but checked against a live Variable
// rather than a single static Relation.
func JoinAnti[K Ordered[K], V Ordered[V], F Ordered[F], R Ordered[R]](
	ctx *Context,
	input *Variable[Pair[K, V]],
	filter *Variable[Pair[K, F]],
	out *Variable[R],
	logic func(K, V) R,
) error {
	elems := input.recent.elements
	if len(elems) == 0 {
		return nil
	}

	batches := make([]*Relation[Pair[K, F]], 0, len(filter.stable)+1)
	batches = append(batches, filter.stable...)
	if filter.recent.Len() > 0 {
		batches = append(batches, filter.recent)
	}

	process := func(ts []Pair[K, V]) []R {
		var staged []R
		for _, t := range ts {
			if !keyPresentIn(batches, t.Key) {
				staged = append(staged, logic(t.Key, t.Val))
			}
		}
		return staged
	}

	pool := ctx.workPool()
	chunks := parallel.Chunks(len(elems), chunkSize)
	if !pool.Enabled() || len(chunks) <= 1 {
		out.InsertSequence(process(elems))
		return nil
	}

	results := make([][]R, len(chunks))
	err := pool.Run(len(chunks), func(i int) error {
		bounds := chunks[i]
		results[i] = process(elems[bounds[0]:bounds[1]])
		return nil
	})
	if err != nil {
		return err
	}

	var all []R
	for _, r := range results {
		all = append(all, r...)
	}
	out.InsertSequence(all)
	return nil
}

func keyPresentIn[K Ordered[K], F Ordered[F]](batches []*Relation[Pair[K, F]], k K) bool {
	for _, b := range batches {
		if len(blockFor(b, k)) > 0 {
			return true
		}
	}
	return false
}
