// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

// gallop returns the suffix of s whose first element is the smallest
// element >= t, i.e. the tail starting at the lower-bound position of t
// in s. s must already be sorted ascending.
//
// It uses exponential (doubling) search: start at step 1, double the
// step while s[pos+step] < t and that index is still in bounds, then
// binary-search the resulting bracket. This lands in O(log p) where p
// is the distance to the target, instead of O(log len(s)) — useful
// when repeatedly probing nearby positions, as the merge-join and
// dedup filter both do.
func gallop[T Ordered[T]](s []T, t T) []T {
	return gallopBy(s, func(x T) bool { return x.Less(t) })
}

// gallopBy is the predicate-driven form of gallop: it returns the
// suffix of s starting at the first element for which less reports
// false. less must be monotone (true for a prefix of s, false for the
// rest) for the result to be meaningful. This lets callers gallop on a
// derived key — merge-join galloping on just the key field of a
// compound tuple — without needing a full sentinel value of T to
// compare against.
func gallopBy[T any](s []T, less func(T) bool) []T {
	if len(s) == 0 || !less(s[0]) {
		return s
	}

	const pos = 0
	step := 1
	for pos+step < len(s) && less(s[pos+step]) {
		// Saturating doubling: clamp instead of overflowing into a
		// negative or wrapped step on very large slices.
		if step > (len(s)-pos)/2 {
			step = len(s) - pos
			break
		}
		step *= 2
	}

	lo := pos + 1
	hi := pos + step + 1
	if hi > len(s) {
		hi = len(s)
	}
	return s[lowerBoundBy(s[lo:hi], less)+lo:]
}

// lowerBound returns the index of the first element of s that is not
// less than t (plain binary search, used to finish off gallop's
// bracket once doubling has overshot).
func lowerBound[T Ordered[T]](s []T, t T) int {
	return lowerBoundBy(s, func(x T) bool { return x.Less(t) })
}

// lowerBoundBy is the predicate-driven form of lowerBound.
func lowerBoundBy[T any](s []T, less func(T) bool) int {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := (lo + hi) / 2
		if less(s[mid]) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
