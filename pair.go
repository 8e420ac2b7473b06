// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

// Pair is the keyed-tuple shape the join and index operators work
// over: a key K followed by a value V, ordered lexicographically —
// first by K, then by V on ties. Any Relation[Pair[K, V]] is therefore
// automatically sorted by key, with equal keys grouped together and
// themselves sorted by value, which is exactly what merge-join and the
// secondary index need.
type Pair[K Ordered[K], V Ordered[V]] struct {
	Key K
	Val V
}

// Less compares by Key first, then Val.
func (p Pair[K, V]) Less(other Pair[K, V]) bool {
	if p.Key.Less(other.Key) {
		return true
	}
	if other.Key.Less(p.Key) {
		return false
	}
	return p.Val.Less(other.Val)
}
