// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

// Package index implements a secondary ordered index over a tuple
// type: an ordered map from an extracted key to a bucket Relation,
// backed by google/btree's generic BTreeG so lookups and range scans
// stay logarithmic regardless of the number of distinct keys.
package index

import (
	"github.com/google/btree"

	"github.com/CogitatorTech/zodd"
)

// bucket is the btree's element type: a key plus the Relation of every
// tuple that extracts to it. Buckets are ordered by key alone.
type bucket[T zodd.Ordered[T], K zodd.Ordered[K]] struct {
	key K
	rel *zodd.Relation[T]
}

// Index is an ordered key -> bucketed Relation map.
type Index[T zodd.Ordered[T], K zodd.Ordered[K]] struct {
	ctx   *zodd.Context
	keyFn func(T) K
	tree  *btree.BTreeG[bucket[T, K]]
}

// New builds an Index with the given branching factor, extracting keys
// from tuples with keyFn.
func New[T zodd.Ordered[T], K zodd.Ordered[K]](ctx *zodd.Context, degree int, keyFn func(T) K) *Index[T, K] {
	less := func(a, b bucket[T, K]) bool { return a.key.Less(b.key) }
	return &Index[T, K]{
		ctx:   ctx,
		keyFn: keyFn,
		tree:  btree.NewG(degree, less),
	}
}

// Insert extracts k = keyFn(t) and merges a singleton {t} into k's
// bucket, creating the bucket if it did not exist.
func (idx *Index[T, K]) Insert(t T) {
	k := idx.keyFn(t)
	singleton := zodd.FromSequence(idx.ctx, []T{t})

	probe := bucket[T, K]{key: k}
	if existing, ok := idx.tree.Get(probe); ok {
		idx.tree.ReplaceOrInsert(bucket[T, K]{key: k, rel: zodd.Merge(idx.ctx, existing.rel, singleton)})
		return
	}
	idx.tree.ReplaceOrInsert(bucket[T, K]{key: k, rel: singleton})
}

// Get returns the bucket Relation for k, or (nil, false) if k has no
// entries.
func (idx *Index[T, K]) Get(k K) (*zodd.Relation[T], bool) {
	b, ok := idx.tree.Get(bucket[T, K]{key: k})
	if !ok {
		return nil, false
	}
	return b.rel, true
}

// GetRange returns a fresh Relation containing every tuple whose key k
// satisfies lo <= k <= hi, built from the ordered union of the
// matching buckets.
func (idx *Index[T, K]) GetRange(lo, hi K) *zodd.Relation[T] {
	var staged []T
	idx.tree.AscendGreaterOrEqual(bucket[T, K]{key: lo}, func(b bucket[T, K]) bool {
		if hi.Less(b.key) {
			return false
		}
		staged = append(staged, b.rel.Elements()...)
		return true
	})
	return zodd.FromSequence(idx.ctx, staged)
}

// Len returns the number of distinct keys currently indexed.
func (idx *Index[T, K]) Len() int {
	return idx.tree.Len()
}
