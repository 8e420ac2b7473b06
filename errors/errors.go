// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

// Package errors wraps github.com/pkg/errors and adds error codes so
// callers can classify a failure without a type switch.
package errors

import (
	"github.com/pkg/errors"
)

// Code identifies a class of failure raised by the engine.
type Code string

const (
	// AllocationFailed covers every buffer allocation, append, or
	// clone that failed. The failing operation leaves its inputs
	// unchanged.
	AllocationFailed Code = "AllocationFailed"

	// MaxRoundsExceeded is raised by Iteration.Changed once the
	// configured round cap is exceeded. The Iteration remains usable
	// after Reset.
	MaxRoundsExceeded Code = "MaxRoundsExceeded"

	// InvalidFormat is raised by Relation.Load on a malformed magic,
	// header, or length field.
	InvalidFormat Code = "InvalidFormat"

	// UnsupportedVersion is raised by Relation.Load when the on-disk
	// version does not match the version this build writes.
	UnsupportedVersion Code = "UnsupportedVersion"

	// TooLarge is raised by Relation.LoadWithLimit when the declared
	// element count exceeds the caller-supplied limit.
	TooLarge Code = "TooLarge"

	// UnsupportedType is raised by Relation.Save/Load when the tuple
	// schema contains a field this engine cannot serialize (pointers,
	// maps, channels, functions, interfaces).
	UnsupportedType Code = "UnsupportedType"

	// IO names failures of a caller-supplied reader or writer.
	// Relation.Save and Relation.Load return such failures wrapped with
	// context by Wrap, not tagged with this code, so Is(err, IO) does
	// not match them; Cause returns the reader's or writer's own error.
	IO Code = "IO"
)

// New returns an error carrying code, with a captured stack trace.
func New(code Code, message string) error {
	return errors.WithStack(codedError{Code: code, Message: message})
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...interface{}) error {
	return New(code, errors.Errorf(format, args...).Error())
}

// Is reports whether err (or something it wraps) carries the given code.
func Is(err error, target Code) bool {
	return errors.Is(err, codedError{Code: target})
}

// As delegates to github.com/pkg/errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Cause delegates to github.com/pkg/errors.Cause.
func Cause(err error) error {
	return errors.Cause(err)
}

// Wrap annotates err with message, preserving its code for Is.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// codedError is the concrete error type carrying a Code.
type codedError struct {
	Code    Code
	Message string
}

func (ce codedError) Error() string {
	return ce.Message
}

// Is makes codedError comparable by Code alone, so errors.Is(err,
// codedError{Code: X}) matches any wrapped error of that code
// regardless of message.
func (ce codedError) Is(err error) bool {
	other, ok := err.(codedError)
	return ok && ce.Code == other.Code
}
