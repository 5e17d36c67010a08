// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package errors provides the wrapping error type shared across certkit.
// An Error keeps its own message separate from the wrapped cause so that
// callers can match on the kind with Contains while still surfacing the
// underlying library error verbatim.
package errors

import "encoding/json"

// Error is a chainable error with a fixed message and an optional cause.
type Error interface {
	Error() string

	// Msg returns the message of this link only, without the cause chain.
	Msg() string

	// Cause returns the wrapped error, or nil for a leaf.
	Cause() Error

	MarshalJSON() ([]byte, error)
}

var _ Error = (*wrappedError)(nil)

type wrappedError struct {
	msg   string
	cause Error
}

// New returns a leaf Error with the given message.
func New(text string) Error {
	return &wrappedError{msg: text}
}

func (we *wrappedError) Error() string {
	if we == nil {
		return ""
	}
	if we.cause == nil {
		return we.msg
	}
	return we.msg + " : " + we.cause.Error()
}

func (we *wrappedError) Msg() string {
	return we.msg
}

func (we *wrappedError) Cause() Error {
	return we.cause
}

// Unwrap supports errors.Is and errors.As from the standard library.
func (we *wrappedError) Unwrap() error {
	if we.cause == nil {
		return nil
	}
	return we.cause
}

func (we *wrappedError) MarshalJSON() ([]byte, error) {
	var cause string
	if c := we.Cause(); c != nil {
		cause = c.Msg()
	}
	return json.Marshal(&struct {
		Err string `json:"error"`
		Msg string `json:"message"`
	}{
		Err: cause,
		Msg: we.Msg(),
	})
}

// Wrap returns wrapper with err attached as its cause. Either argument may
// be a plain error; plain errors are promoted to leaf Errors.
func Wrap(wrapper, err error) error {
	if wrapper == nil || err == nil {
		return wrapper
	}
	return &wrappedError{
		msg:   messageOf(wrapper),
		cause: cast(err),
	}
}

// Contains reports whether e2 appears anywhere in e1's cause chain,
// matching by message.
func Contains(e1, e2 error) bool {
	if e1 == nil || e2 == nil {
		return e1 == e2
	}
	we, ok := e1.(Error)
	if !ok {
		return e1.Error() == e2.Error()
	}
	if we.Msg() == e2.Error() {
		return true
	}
	return Contains(we.Cause(), e2)
}

// Unwrap splits an Error into its outermost wrapper and the remaining cause.
// For a plain error it returns (nil, err).
func Unwrap(err error) (error, error) {
	if we, ok := err.(Error); ok {
		if we.Cause() == nil {
			return nil, New(we.Msg())
		}
		return New(we.Msg()), we.Cause()
	}
	return nil, err
}

func messageOf(err error) string {
	if we, ok := err.(Error); ok {
		return we.Msg()
	}
	return err.Error()
}

func cast(err error) Error {
	if err == nil {
		return nil
	}
	if we, ok := err.(Error); ok {
		return we
	}
	return &wrappedError{msg: err.Error()}
}
