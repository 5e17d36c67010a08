// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/errors"
)

const (
	// ContentType represents JSON content type.
	ContentType = "application/json"
)

// Response contains HTTP response specific methods.
type Response interface {
	// Code returns HTTP response code.
	Code() int

	// Headers returns map of HTTP headers with their values.
	Headers() map[string]string

	// Empty indicates if HTTP response has content.
	Empty() bool
}

// EncodeResponse encodes a successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response any) error {
	if ar, ok := response.(Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, certkit.ErrInvalidSubject),
		errors.Contains(err, certkit.ErrInvalidValidity),
		errors.Contains(err, certkit.ErrAmbiguousSAN),
		errors.Contains(err, certkit.ErrWeakParameter),
		errors.Contains(err, certkit.ErrMalformedEntity):
		w.WriteHeader(http.StatusBadRequest)

	case errors.Contains(err, certkit.ErrUnknownTemplate):
		w.WriteHeader(http.StatusNotFound)

	case errors.Contains(err, certkit.ErrPathUnwritable),
		errors.Contains(err, certkit.ErrKeyCreation),
		errors.Contains(err, certkit.ErrCertCreation),
		errors.Contains(err, certkit.ErrDHParamCreation):
		w.WriteHeader(http.StatusUnprocessableEntity)

	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
