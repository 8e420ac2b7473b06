// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateGroupSum(t *testing.T) {
	ctx := NewContext()
	input := FromSequence(ctx, []Pair[Int, Int]{{Key: 1, Val: 10}, {Key: 1, Val: 20}, {Key: 2, Val: 5}})

	result := Aggregate[Pair[Int, Int], Int, Int](ctx, input, func(p Pair[Int, Int]) Int { return p.Key },
		0, func(acc Int, p Pair[Int, Int]) Int { return acc + p.Val })

	assert.Equal(t, []Pair[Int, Int]{{Key: 1, Val: 30}, {Key: 2, Val: 5}}, result.Elements())
}

func TestAggregateEmptyInput(t *testing.T) {
	ctx := NewContext()
	input := Empty[Pair[Int, Int]](ctx)

	result := Aggregate[Pair[Int, Int], Int, Int](ctx, input, func(p Pair[Int, Int]) Int { return p.Key },
		0, func(acc Int, p Pair[Int, Int]) Int { return acc + p.Val })

	assert.Equal(t, 0, result.Len())
}
