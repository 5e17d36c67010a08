// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/apiutil"
	"github.com/absmach/certkit/pkg/errors"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const templateKey = "template"

// MakeHandler returns a HTTP handler for API endpoints.
func MakeHandler(r *chi.Mux, svc certkit.Service, logger *slog.Logger, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(loggingErrorEncoder(logger)),
	}

	r.Post("/keys", kithttp.NewServer(
		generateKeyEndpoint(svc),
		decodeGenerateKey,
		EncodeResponse,
		opts...,
	).ServeHTTP)

	r.Post("/certs", kithttp.NewServer(
		issueCertEndpoint(svc),
		decodeIssueCert,
		EncodeResponse,
		opts...,
	).ServeHTTP)

	r.Post("/dhparams", kithttp.NewServer(
		generateDHParamsEndpoint(svc),
		decodeGenerateDHParams,
		EncodeResponse,
		opts...,
	).ServeHTTP)

	r.Post("/bundles", kithttp.NewServer(
		generateAllEndpoint(svc),
		decodeIssueCert,
		EncodeResponse,
		opts...,
	).ServeHTTP)

	r.Post("/configs/{template}", kithttp.NewServer(
		renderConfigEndpoint(svc),
		decodeRenderConfig,
		EncodeResponse,
		opts...,
	).ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", ContentType)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":      "pass",
			"service":     "certkit",
			"instance_id": instanceID,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func decodeGenerateKey(_ context.Context, r *http.Request) (any, error) {
	if err := checkContentType(r); err != nil {
		return nil, err
	}
	var req generateKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(certkit.ErrMalformedEntity, err)
	}
	return req, nil
}

func decodeIssueCert(_ context.Context, r *http.Request) (any, error) {
	if err := checkContentType(r); err != nil {
		return nil, err
	}
	var req issueCertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(certkit.ErrMalformedEntity, err)
	}
	return req, nil
}

func decodeGenerateDHParams(_ context.Context, r *http.Request) (any, error) {
	if err := checkContentType(r); err != nil {
		return nil, err
	}
	var req generateDHParamsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(certkit.ErrMalformedEntity, err)
	}
	return req, nil
}

func decodeRenderConfig(_ context.Context, r *http.Request) (any, error) {
	if err := checkContentType(r); err != nil {
		return nil, err
	}
	req := renderConfigReq{template: chi.URLParam(r, templateKey)}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(certkit.ErrMalformedEntity, err)
	}
	return req, nil
}

func checkContentType(r *http.Request) error {
	if !strings.Contains(r.Header.Get("Content-Type"), ContentType) {
		return errors.Wrap(certkit.ErrMalformedEntity, apiutil.ErrUnsupportedContentType)
	}
	return nil
}

func loggingErrorEncoder(logger *slog.Logger) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		logger.Warn(err.Error())
		EncodeError(ctx, err, w)
	}
}
