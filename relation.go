// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"encoding/binary"
	"io"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/CogitatorTech/zodd/errors"
)

// Relation is an ordered, deduplicated set of tuples of type T: a
// sorted slice with no two equal elements. It is the engine's sole
// storage abstraction — every Variable compartment and every join or
// aggregate result is a Relation.
type Relation[T Ordered[T]] struct {
	elements []T
}

// Empty returns a zero-length Relation without allocating.
func Empty[T Ordered[T]](ctx *Context) *Relation[T] {
	return &Relation[T]{}
}

// FromSequence copies xs into a fresh buffer, sorts it, and compacts
// duplicates in a single left-to-right pass. The input slice is left
// untouched.
func FromSequence[T Ordered[T]](ctx *Context, xs []T) *Relation[T] {
	if len(xs) == 0 {
		return Empty[T](ctx)
	}

	buf := make([]T, len(xs))
	copy(buf, xs)
	sortTuples(buf)
	buf = dedupSorted(buf)
	return &Relation[T]{elements: buf}
}

func sortTuples[T Ordered[T]](xs []T) {
	sort.Slice(xs, func(i, j int) bool { return xs[i].Less(xs[j]) })
}

// dedupSorted compacts a sorted slice to its unique elements in place,
// reslicing (never reallocating) to the compacted length.
func dedupSorted[T Ordered[T]](xs []T) []T {
	if len(xs) < 2 {
		return xs
	}
	w := 1
	for r := 1; r < len(xs); r++ {
		if !equal(xs[w-1], xs[r]) {
			xs[w] = xs[r]
			w++
		}
	}
	return xs[:w]
}

// Len returns the number of elements in the Relation.
func (r *Relation[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.elements)
}

// Elements returns the Relation's backing slice. Callers must not
// mutate it; Relation's invariants (sorted, deduplicated) are not
// re-checked after this escapes.
func (r *Relation[T]) Elements() []T {
	if r == nil {
		return nil
	}
	return r.elements
}

// Merge consumes a and b and returns a new Relation equal to their set
// union, via a linear two-cursor merge. Either operand may be reused
// afterward only as an empty Relation; this implementation does not
// zero the inputs, but callers (Variable in particular) treat both as
// consumed per the contract. ctx's Logger traces the result's
// Fingerprint at Debug level; pass nil to skip this without affecting
// the merge itself.
func Merge[T Ordered[T]](ctx *Context, a, b *Relation[T]) *Relation[T] {
	if a.Len() == 0 {
		return b
	}
	if b.Len() == 0 {
		return a
	}

	out := make([]T, 0, len(a.elements)+len(b.elements))
	i, j := 0, 0
	for i < len(a.elements) && j < len(b.elements) {
		switch compare(a.elements[i], b.elements[j]) {
		case -1:
			out = append(out, a.elements[i])
			i++
		case 1:
			out = append(out, b.elements[j])
			j++
		default:
			out = append(out, a.elements[i])
			i++
			j++
		}
	}
	out = append(out, a.elements[i:]...)
	out = append(out, b.elements[j:]...)
	result := &Relation[T]{elements: out}
	ctx.log().Debugf("merged relations (%d + %d -> %d, fingerprint=%x)", a.Len(), b.Len(), result.Len(), result.Fingerprint())
	return result
}

// MergeAll fold-merges a list of batches into one Relation by folding
// left to right in list order; order of the input list does not affect
// the result, only its cost.
func MergeAll[T Ordered[T]](ctx *Context, batches []*Relation[T]) *Relation[T] {
	if len(batches) == 0 {
		return &Relation[T]{}
	}
	acc := batches[0]
	for _, b := range batches[1:] {
		acc = Merge(ctx, acc, b)
	}
	return acc
}

// Fingerprint returns a content digest of the Relation's elements,
// useful for logging and for tests that want to compare two Relations
// without holding onto full element slices. It is not part of the
// on-disk format and carries no stability guarantee across versions.
func (r *Relation[T]) Fingerprint() uint64 {
	if r.Len() == 0 {
		return 0
	}
	t := reflect.TypeOf(r.elements[0])
	s, err := schemaFor(t)
	if err != nil {
		return 0
	}
	h := xxhash.New()
	buf := make([]byte, 0, s.size)
	for _, e := range r.elements {
		buf = buf[:0]
		buf = encodeValue(reflect.ValueOf(e), buf)
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// Save writes the Relation in the bit-exact on-disk format: a 7-byte
// magic, a 1-byte version, an 8-byte little-endian length, then each
// element encoded field by field in declaration order. It fails with
// UnsupportedType if T's fields include anything that cannot be
// persisted (pointers, slices, maps, channels, funcs, interfaces,
// strings). ctx's Logger traces the written Fingerprint at Debug
// level; pass nil to skip this without affecting the write itself.
func (r *Relation[T]) Save(ctx *Context, w io.Writer) error {
	var zero T
	t := reflect.TypeOf(zero)
	s, err := schemaFor(t)
	if err != nil {
		return err
	}

	header := make([]byte, headerByteSize)
	copy(header, magic)
	header[len(magic)] = formatVersion
	binary.LittleEndian.PutUint64(header[len(magic)+1:], uint64(r.Len()))
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "writing relation header")
	}

	buf := make([]byte, 0, s.size)
	for _, e := range r.elements {
		buf = buf[:0]
		buf = encodeValue(reflect.ValueOf(e), buf)
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "writing relation element")
		}
	}
	ctx.log().Debugf("saved relation (%d elements, fingerprint=%x)", r.Len(), r.Fingerprint())
	return nil
}

// Load reads a Relation previously written by Save, with no limit on
// the declared element count. See LoadWithLimit to bound it.
func Load[T Ordered[T]](ctx *Context, r io.Reader) (*Relation[T], error) {
	return LoadWithLimit[T](ctx, r, -1)
}

// LoadWithLimit reads a Relation, rejecting input whose declared
// element count exceeds maxLen (a negative maxLen means unbounded). It
// validates the magic, version, and length before reading any element
// bytes, and re-sorts and re-dedups the loaded data: the stored
// ordering is never trusted.
func LoadWithLimit[T Ordered[T]](ctx *Context, r io.Reader, maxLen int) (*Relation[T], error) {
	header := make([]byte, headerByteSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "reading relation header")
	}

	if string(header[:len(magic)]) != magic {
		return nil, errors.New(errors.InvalidFormat, "bad magic")
	}
	if header[len(magic)] != formatVersion {
		return nil, errors.Newf(errors.UnsupportedVersion, "unsupported relation version %d", header[len(magic)])
	}

	n64 := binary.LittleEndian.Uint64(header[len(magic)+1:])
	if n64 > uint64(^uint(0)>>1) {
		return nil, errors.New(errors.InvalidFormat, "declared length overflows host index type")
	}
	n := int(n64)
	if maxLen >= 0 && n > maxLen {
		return nil, errors.Newf(errors.TooLarge, "relation declares %d elements, limit is %d", n, maxLen)
	}

	var zero T
	t := reflect.TypeOf(zero)
	s, err := schemaFor(t)
	if err != nil {
		return nil, err
	}

	elements := make([]T, n)
	buf := make([]byte, s.size)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrap(err, "reading relation element")
		}
		decodeValue(reflect.ValueOf(&elements[i]).Elem(), buf)
	}

	sortTuples(elements)
	elements = dedupSorted(elements)
	result := &Relation[T]{elements: elements}
	ctx.log().Debugf("loaded relation (%d elements, fingerprint=%x)", result.Len(), result.Fingerprint())
	return result, nil
}
