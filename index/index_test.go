// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CogitatorTech/zodd"
)

type intT int

func (i intT) Less(other intT) bool { return i < other }

func TestIndexGetAgreement(t *testing.T) {
	ctx := zodd.NewContext()
	idx := New[intT, intT](ctx, 32, func(t intT) intT { return t % 3 })

	for _, v := range []intT{1, 4, 7, 2, 5, 3, 6, 9} {
		idx.Insert(v)
	}

	bucket, ok := idx.Get(1)
	assert.True(t, ok)
	assert.Equal(t, []intT{1, 4, 7}, bucket.Elements())

	_, ok = idx.Get(42)
	assert.False(t, ok)
}

func TestIndexGetRange(t *testing.T) {
	ctx := zodd.NewContext()
	idx := New[intT, intT](ctx, 32, func(t intT) intT { return t })

	for _, v := range []intT{5, 1, 3, 9, 7} {
		idx.Insert(v)
	}

	r := idx.GetRange(3, 7)
	assert.Equal(t, []intT{3, 5, 7}, r.Elements())
}

func TestIndexLen(t *testing.T) {
	ctx := zodd.NewContext()
	idx := New[intT, intT](ctx, 32, func(t intT) intT { return t % 2 })
	idx.Insert(1)
	idx.Insert(2)
	idx.Insert(3)
	assert.Equal(t, 2, idx.Len())
}
