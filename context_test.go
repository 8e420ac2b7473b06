// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext()
	assert.False(t, ctx.Parallel())
}

func TestWithWorkerCountEnablesParallel(t *testing.T) {
	ctx := NewContext(WithWorkerCount(4))
	assert.True(t, ctx.Parallel())
}

func TestNilContextIsSequentialAndSilent(t *testing.T) {
	var ctx *Context
	assert.False(t, ctx.Parallel())
	assert.NotPanics(t, func() { ctx.log().Debugf("x") })
}

func TestContextOptionsFromEnv(t *testing.T) {
	t.Setenv("ZODD_WORKER_COUNT", "8")
	opts := ContextOptionsFromEnv()
	ctx := NewContext(opts...)
	assert.True(t, ctx.Parallel())

	_ = os.Unsetenv("ZODD_WORKER_COUNT")
	assert.Nil(t, ContextOptionsFromEnv())
}
