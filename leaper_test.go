// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendIntoMultiWayIntersection(t *testing.T) {
	ctx := NewContext()
	it := NewIteration(ctx)

	source := NewVariableIn[Int](it)
	out := NewVariableIn[Pair[Int, Int]](it)
	source.InsertSequence(ints(1, 2, 3, 4))

	_, err := it.Changed()
	require.NoError(t, err)

	r1 := FromSequence(ctx, []Pair[Int, Int]{{Key: 1, Val: 100}, {Key: 2, Val: 200}, {Key: 3, Val: 300}, {Key: 4, Val: 400}})
	r2 := FromSequence(ctx, []Pair[Int, Int]{{Key: 1, Val: 100}, {Key: 2, Val: 200}, {Key: 4, Val: 999}})
	r3 := FromSequence(ctx, []Pair[Int, Int]{{Key: 2, Val: 200}, {Key: 3, Val: 300}})

	leapers := []Leaper[Int, Int]{
		NewExtendWith[Int, Int, Int](r1, func(p Int) Int { return p }),
		NewExtendWith[Int, Int, Int](r2, func(p Int) Int { return p }),
		NewExtendWith[Int, Int, Int](r3, func(p Int) Int { return p }),
	}

	err = ExtendInto(ctx, source, leapers, out, func(k Int, v Int) Pair[Int, Int] {
		return Pair[Int, Int]{Key: k, Val: v}
	})
	require.NoError(t, err)

	assert.Equal(t, []Pair[Int, Int]{{Key: 2, Val: 200}}, out.Complete().Elements())
}

func TestExtendAntiFiltersPresentValues(t *testing.T) {
	ctx := NewContext()
	it := NewIteration(ctx)

	source := NewVariableIn[Int](it)
	out := NewVariableIn[Pair[Int, Int]](it)
	source.InsertSequence(ints(1))
	_, err := it.Changed()
	require.NoError(t, err)

	base := FromSequence(ctx, []Pair[Int, Int]{{Key: 1, Val: 10}, {Key: 1, Val: 20}, {Key: 1, Val: 30}})
	excluded := FromSequence(ctx, []Pair[Int, Int]{{Key: 1, Val: 20}})

	leapers := []Leaper[Int, Int]{
		NewExtendWith[Int, Int, Int](base, func(p Int) Int { return p }),
		NewExtendAnti[Int, Int, Int](excluded, func(p Int) Int { return p }),
	}

	err = ExtendInto(ctx, source, leapers, out, func(k Int, v Int) Pair[Int, Int] {
		return Pair[Int, Int]{Key: k, Val: v}
	})
	require.NoError(t, err)

	assert.Equal(t, []Pair[Int, Int]{{Key: 1, Val: 10}, {Key: 1, Val: 30}}, out.Complete().Elements())
}

func TestFilterAntiSkipsWholePrefix(t *testing.T) {
	ctx := NewContext()
	it := NewIteration(ctx)

	source := NewVariableIn[Int](it)
	out := NewVariableIn[Pair[Int, Int]](it)
	source.InsertSequence(ints(1, 2))
	_, err := it.Changed()
	require.NoError(t, err)

	base := FromSequence(ctx, []Pair[Int, Int]{{Key: 1, Val: 10}, {Key: 2, Val: 20}})
	blocked := FromSequence(ctx, []Pair[Int, Int]{{Key: 1, Val: 0}})

	leapers := []Leaper[Int, Int]{
		NewExtendWith[Int, Int, Int](base, func(p Int) Int { return p }),
		NewFilterAnti[Int, Int, Int](blocked, func(p Int) Int { return p }),
	}

	err = ExtendInto(ctx, source, leapers, out, func(k Int, v Int) Pair[Int, Int] {
		return Pair[Int, Int]{Key: k, Val: v}
	})
	require.NoError(t, err)

	assert.Equal(t, []Pair[Int, Int]{{Key: 2, Val: 20}}, out.Complete().Elements())
}
