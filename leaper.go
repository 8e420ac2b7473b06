// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import "github.com/CogitatorTech/zodd/internal/parallel"

// Leaper is the building block of leapfrog trie join: an object that,
// for a given prefix P, can bound how many values it could contribute,
// propose those values, or narrow a candidate value set down to the
// ones it also contains. It is the one place in this engine that uses
// dynamic dispatch over a heterogeneous array — ExtendWith, FilterAnti,
// and ExtendAnti must sit side by side in a single []Leaper[P, V].
type Leaper[P any, V any] interface {
	// count returns an upper bound on the values this leaper could
	// contribute for p, and whether that bound is finite. A false
	// second result means "unbounded: use me only to filter".
	count(p P) (n int, bounded bool)
	// propose appends this leaper's values for p. Only ever called on
	// the leaper with the minimum bounded count (the first such leaper
	// when several tie).
	propose(p P) []V
	// intersect narrows values down to the ones this leaper also
	// contains (or, for ExtendAnti, the ones it does not).
	intersect(p P, values []V) []V
	// clone returns an independent copy safe to use from another
	// goroutine; any per-call cache is not shared with the original.
	clone() Leaper[P, V]
}

// blockFor returns the contiguous run of rel's elements whose Key
// equals k. rel must be sorted by Key (any Relation[Pair[K, V]] is, by
// construction).
func blockFor[K Ordered[K], V Ordered[V]](rel *Relation[Pair[K, V]], k K) []Pair[K, V] {
	if rel == nil {
		return nil
	}
	elems := lowerBoundByKey(rel.elements, k)
	end := 0
	for end < len(elems) && equal(elems[end].Key, k) {
		end++
	}
	return elems[:end]
}

func lowerBoundByKey[K Ordered[K], V Ordered[V]](s []Pair[K, V], k K) []Pair[K, V] {
	return gallopBy(s, func(p Pair[K, V]) bool { return p.Key.Less(k) })
}

// ExtendWith is a positive leaper: for a prefix P it proposes, or
// intersects against, the values stored for keyFn(P) in rel.
type ExtendWith[P any, K Ordered[K], V Ordered[V]] struct {
	rel   *Relation[Pair[K, V]]
	keyFn func(P) K

	hasCache   bool
	cacheKey   K
	cacheBlock []Pair[K, V]
}

// NewExtendWith builds an ExtendWith leaper over rel, extracting the
// lookup key from a prefix via keyFn.
func NewExtendWith[P any, K Ordered[K], V Ordered[V]](rel *Relation[Pair[K, V]], keyFn func(P) K) *ExtendWith[P, K, V] {
	return &ExtendWith[P, K, V]{rel: rel, keyFn: keyFn}
}

func (e *ExtendWith[P, K, V]) block(p P) []Pair[K, V] {
	k := e.keyFn(p)
	if e.hasCache && equal(e.cacheKey, k) {
		return e.cacheBlock
	}
	b := blockFor(e.rel, k)
	e.hasCache, e.cacheKey, e.cacheBlock = true, k, b
	return b
}

func (e *ExtendWith[P, K, V]) count(p P) (int, bool) {
	return len(e.block(p)), true
}

func (e *ExtendWith[P, K, V]) propose(p P) []V {
	block := e.block(p)
	vals := make([]V, len(block))
	for i, pr := range block {
		vals[i] = pr.Val
	}
	return vals
}

func (e *ExtendWith[P, K, V]) intersect(p P, values []V) []V {
	block := e.block(p)
	kept := values[:0]
	cursor := block
	for _, v := range values {
		cursor = gallopBy(cursor, func(pr Pair[K, V]) bool { return pr.Val.Less(v) })
		if len(cursor) > 0 && equal(cursor[0].Val, v) {
			kept = append(kept, v)
		}
	}
	return kept
}

func (e *ExtendWith[P, K, V]) clone() Leaper[P, V] {
	return &ExtendWith[P, K, V]{rel: e.rel, keyFn: e.keyFn}
}

// FilterAnti is an anti-leaper with a fixed key: it reports count zero
// (forcing extend_into to skip the prefix) when keyFn(P) is present in
// rel, and unbounded otherwise. It never proposes or filters values.
type FilterAnti[P any, K Ordered[K], V Ordered[V]] struct {
	rel   *Relation[Pair[K, V]]
	keyFn func(P) K
}

// NewFilterAnti builds a FilterAnti leaper over rel.
func NewFilterAnti[P any, K Ordered[K], V Ordered[V]](rel *Relation[Pair[K, V]], keyFn func(P) K) *FilterAnti[P, K, V] {
	return &FilterAnti[P, K, V]{rel: rel, keyFn: keyFn}
}

func (f *FilterAnti[P, K, V]) count(p P) (int, bool) {
	if len(blockFor(f.rel, f.keyFn(p))) > 0 {
		return 0, true
	}
	return 0, false
}

func (f *FilterAnti[P, K, V]) propose(P) []V {
	panic("zodd: FilterAnti.propose must never be called")
}

func (f *FilterAnti[P, K, V]) intersect(_ P, values []V) []V {
	return values
}

func (f *FilterAnti[P, K, V]) clone() Leaper[P, V] {
	return &FilterAnti[P, K, V]{rel: f.rel, keyFn: f.keyFn}
}

// ExtendAnti is an anti-leaper that restricts a candidate value set to
// the values absent from keyFn(P)'s block. It is always unbounded and
// never proposes.
type ExtendAnti[P any, K Ordered[K], V Ordered[V]] struct {
	rel   *Relation[Pair[K, V]]
	keyFn func(P) K
}

// NewExtendAnti builds an ExtendAnti leaper over rel.
func NewExtendAnti[P any, K Ordered[K], V Ordered[V]](rel *Relation[Pair[K, V]], keyFn func(P) K) *ExtendAnti[P, K, V] {
	return &ExtendAnti[P, K, V]{rel: rel, keyFn: keyFn}
}

func (a *ExtendAnti[P, K, V]) count(P) (int, bool) {
	return 0, false
}

func (a *ExtendAnti[P, K, V]) propose(P) []V {
	panic("zodd: ExtendAnti.propose must never be called")
}

func (a *ExtendAnti[P, K, V]) intersect(p P, values []V) []V {
	block := blockFor(a.rel, a.keyFn(p))
	kept := values[:0]
	cursor := block
	for _, v := range values {
		cursor = gallopBy(cursor, func(pr Pair[K, V]) bool { return pr.Val.Less(v) })
		if len(cursor) > 0 && equal(cursor[0].Val, v) {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

func (a *ExtendAnti[P, K, V]) clone() Leaper[P, V] {
	return &ExtendAnti[P, K, V]{rel: a.rel, keyFn: a.keyFn}
}

// ExtendInto drives a leapfrog trie join: for every tuple t in
// source.recent, it picks the bounded leaper with the smallest count,
// proposes its values, narrows them through every other leaper's
// intersect, and maps each survivor through logic into out. When the
// Context has a worker pool and source.recent is large enough to
// chunk, each chunk runs against its own clone of leapers (ExtendWith
// caches a block lookup per call, so clones must not share state) and
// accumulates into a private buffer; buffers are concatenated in
// chunk order before the result Relation is built.
func ExtendInto[P Ordered[P], V Ordered[V], R Ordered[R]](
	ctx *Context,
	source *Variable[P],
	leapers []Leaper[P, V],
	out *Variable[R],
	logic func(P, V) R,
) error {
	elems := source.recent.elements
	if len(elems) == 0 {
		return nil
	}

	pool := ctx.workPool()
	chunks := parallel.Chunks(len(elems), chunkSize)
	if !pool.Enabled() || len(chunks) <= 1 {
		staged := extendChunk(elems, leapers, logic)
		out.InsertSequence(staged)
		return nil
	}

	results := make([][]R, len(chunks))
	err := pool.Run(len(chunks), func(i int) error {
		bounds := chunks[i]
		cloned := make([]Leaper[P, V], len(leapers))
		for j, l := range leapers {
			cloned[j] = l.clone()
		}
		results[i] = extendChunk(elems[bounds[0]:bounds[1]], cloned, logic)
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

func extendChunk[P any, V any, R Ordered[R]](ts []P, leapers []Leaper[P, V], logic func(P, V) R) []R {
	var staged []R
	for _, t := range ts {
		minIdx := -1
		minCount := 0
		for i, l := range leapers {
			n, bounded := l.count(t)
			if !bounded {
				continue
			}
			if minIdx == -1 || n < minCount {
				minIdx, minCount = i, n
			}
		}
		if minIdx == -1 || minCount == 0 {
			continue
		}

		values := leapers[minIdx].propose(t)
		for i, l := range leapers {
			if i == minIdx || len(values) == 0 {
				continue
			}
			values = l.intersect(t, values)
		}
		for _, v := range values {
			staged = append(staged, logic(t, v))
		}
	}
	return staged
}
