// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolDisabledRunsSequentially(t *testing.T) {
	p := New(0)
	assert.False(t, p.Enabled())

	var order []int
	err := p.Run(5, func(i int) error {
		order = append(order, i)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPoolEnabledRunsAll(t *testing.T) {
	p := New(4)
	assert.True(t, p.Enabled())

	var count atomic.Int32
	err := p.Run(100, func(i int) error {
		count.Add(1)
		return nil
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 100, count.Load())
}

func TestPoolPropagatesFirstError(t *testing.T) {
	p := New(4)
	sentinel := errors.New("boom")
	err := p.Run(10, func(i int) error {
		if i == 3 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestChunks(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 3}, {3, 5}}, Chunks(5, 3))
	assert.Nil(t, Chunks(0, 3))
	assert.Equal(t, [][2]int{{0, 5}}, Chunks(5, 0))
}
