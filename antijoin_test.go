// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAntiEmitsUnmatchedKeys(t *testing.T) {
	ctx := NewContext()
	it := NewIteration(ctx)

	input := NewVariableIn[Pair[Int, Int]](it)
	filter := NewVariableIn[Pair[Int, Int]](it)
	out := NewVariableIn[Pair[Int, Int]](it)

	input.InsertSequence([]Pair[Int, Int]{{Key: 1, Val: 10}, {Key: 2, Val: 20}, {Key: 3, Val: 30}})
	filter.InsertSequence([]Pair[Int, Int]{{Key: 1, Val: 100}, {Key: 3, Val: 300}})

	_, err := it.Changed()
	require.NoError(t, err)

	err = JoinAnti(ctx, input, filter, out, func(k, v Int) Pair[Int, Int] {
		return Pair[Int, Int]{Key: k, Val: v}
	})
	require.NoError(t, err)

	assert.Equal(t, []Pair[Int, Int]{{Key: 2, Val: 20}}, out.Complete().Elements())
}

func TestJoinAntiChecksAllStableBatches(t *testing.T) {
	ctx := NewContext()
	it := NewIteration(ctx)

	input := NewVariableIn[Pair[Int, Int]](it)
	filter := NewVariableIn[Pair[Int, Int]](it)
	out := NewVariableIn[Pair[Int, Int]](it)

	filter.InsertSequence([]Pair[Int, Int]{{Key: 1, Val: 1}})
	_, err := it.Changed()
	require.NoError(t, err)

	filter.InsertSequence([]Pair[Int, Int]{{Key: 2, Val: 2}})
	input.InsertSequence([]Pair[Int, Int]{{Key: 1, Val: 10}, {Key: 2, Val: 20}, {Key: 3, Val: 30}})
	_, err = it.Changed()
	require.NoError(t, err)

	err = JoinAnti(ctx, input, filter, out, func(k, v Int) Pair[Int, Int] {
		return Pair[Int, Int]{Key: k, Val: v}
	})
	require.NoError(t, err)

	assert.Equal(t, []Pair[Int, Int]{{Key: 3, Val: 30}}, out.Complete().Elements())
}
