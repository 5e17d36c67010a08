// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"time"

	"github.com/absmach/certkit"
	"github.com/go-kit/kit/metrics"
)

var _ certkit.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     certkit.Service
}

// MetricsMiddleware instruments core service by tracking request count and latency.
func MetricsMiddleware(svc certkit.Service, counter metrics.Counter, latency metrics.Histogram) certkit.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) GenerateKey(ctx context.Context, spec certkit.KeySpec) (certkit.KeyPair, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "generate_key").Add(1)
		mm.latency.With("method", "generate_key").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.GenerateKey(ctx, spec)
}

func (mm *metricsMiddleware) IssueCert(ctx context.Context, spec certkit.KeySpec, req certkit.CertRequest) (certkit.Certificate, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "issue_certificate").Add(1)
		mm.latency.With("method", "issue_certificate").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.IssueCert(ctx, spec, req)
}

func (mm *metricsMiddleware) GenerateDHParams(ctx context.Context, bits int) ([]byte, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "generate_dhparams").Add(1)
		mm.latency.With("method", "generate_dhparams").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.GenerateDHParams(ctx, bits)
}

func (mm *metricsMiddleware) GenerateAll(ctx context.Context, spec certkit.KeySpec, req certkit.CertRequest, dhBits int) (certkit.Certificate, certkit.Bundle, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "generate_all").Add(1)
		mm.latency.With("method", "generate_all").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.GenerateAll(ctx, spec, req, dhBits)
}

func (mm *metricsMiddleware) RenderConfig(ctx context.Context, template string, bundle certkit.Bundle) (string, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "render_config").Add(1)
		mm.latency.With("method", "render_config").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.RenderConfig(ctx, template, bundle)
}
