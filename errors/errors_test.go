// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CogitatorTech/zodd/errors"
)

func TestIs(t *testing.T) {
	allocErr := errors.New(errors.AllocationFailed, "buffer grow failed")
	fmtErr := errors.New(errors.InvalidFormat, "bad magic")

	tests := []struct {
		err    error
		target errors.Code
		exp    bool
	}{
		{allocErr, errors.AllocationFailed, true},
		{allocErr, errors.InvalidFormat, false},
		{fmtErr, errors.InvalidFormat, true},
		{errors.Wrap(fmtErr, "loading relation"), errors.InvalidFormat, true},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			assert.Equal(t, test.exp, errors.Is(test.err, test.target))
		})
	}
}

func TestWrapPreservesMessage(t *testing.T) {
	base := errors.New(errors.TooLarge, "N exceeds max_len")
	wrapped := errors.Wrap(base, "Relation.LoadWithLimit")
	assert.Contains(t, wrapped.Error(), "Relation.LoadWithLimit")
	assert.Contains(t, wrapped.Error(), "N exceeds max_len")
	assert.True(t, errors.Is(wrapped, errors.TooLarge))
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.UnsupportedVersion, "got version %d, want %d", 2, 1)
	assert.Equal(t, "got version 2, want 1", err.Error())
	assert.True(t, errors.Is(err, errors.UnsupportedVersion))
}
