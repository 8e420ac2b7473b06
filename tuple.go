// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

// Ordered is the capability the engine requires of a tuple type: a
// total order expressed as a single Less method, the same convention
// google/btree's Item interface uses. A host type satisfies Ordered by
// comparing its fields in declaration order and returning the first
// non-equal field's ordering — that walk is the host's responsibility
// (the engine is parametric over T and never reaches into its fields),
// but every concrete tuple type in this repo's tests follows it.
//
// Pointer-valued fields are not forbidden by Less itself (Go can always
// compare pointers), but such a T cannot be saved or loaded: Relation's
// persistence codec rejects pointer, slice, map, channel, function, and
// interface fields with UnsupportedType.
type Ordered[T any] interface {
	Less(other T) bool
}

// equal reports whether a and b compare equal under Less: neither is
// less than the other. Two Less calls is the accepted cost of deriving
// equality from a single comparison method (cf. sort.Interface, which
// makes the same trade).
func equal[T Ordered[T]](a, b T) bool {
	return !a.Less(b) && !b.Less(a)
}

// compare returns -1, 0, or 1 as a is less than, equal to, or greater
// than b.
func compare[T Ordered[T]](a, b T) int {
	if a.Less(b) {
		return -1
	}
	if b.Less(a) {
		return 1
	}
	return 0
}
