// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "errors"

var (
	// ErrMissingCommonName indicates a request without a subject common name.
	ErrMissingCommonName = errors.New("missing common name")

	// ErrMissingBits indicates a missing or invalid bit size.
	ErrMissingBits = errors.New("missing or invalid bit size")

	// ErrMissingTemplate indicates a missing template identifier.
	ErrMissingTemplate = errors.New("missing template identifier")

	// ErrInvalidIPAddress indicates an unparsable IP SAN entry.
	ErrInvalidIPAddress = errors.New("invalid IP address")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)
