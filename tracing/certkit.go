// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/absmach/certkit"
	"go.opentelemetry.io/otel/trace"
)

var _ certkit.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    certkit.Service
}

// New returns the issuance service with tracing capabilities.
func New(svc certkit.Service, tracer trace.Tracer) certkit.Service {
	return &tracingMiddleware{tracer, svc}
}

func (tm *tracingMiddleware) GenerateKey(ctx context.Context, spec certkit.KeySpec) (certkit.KeyPair, error) {
	ctx, span := tm.tracer.Start(ctx, "generate_key")
	defer span.End()
	return tm.svc.GenerateKey(ctx, spec)
}

func (tm *tracingMiddleware) IssueCert(ctx context.Context, spec certkit.KeySpec, req certkit.CertRequest) (certkit.Certificate, error) {
	ctx, span := tm.tracer.Start(ctx, "issue_cert")
	defer span.End()
	return tm.svc.IssueCert(ctx, spec, req)
}

func (tm *tracingMiddleware) GenerateDHParams(ctx context.Context, bits int) ([]byte, error) {
	ctx, span := tm.tracer.Start(ctx, "generate_dhparams")
	defer span.End()
	return tm.svc.GenerateDHParams(ctx, bits)
}

func (tm *tracingMiddleware) GenerateAll(ctx context.Context, spec certkit.KeySpec, req certkit.CertRequest, dhBits int) (certkit.Certificate, certkit.Bundle, error) {
	ctx, span := tm.tracer.Start(ctx, "generate_all")
	defer span.End()
	return tm.svc.GenerateAll(ctx, spec, req, dhBits)
}

func (tm *tracingMiddleware) RenderConfig(ctx context.Context, template string, bundle certkit.Bundle) (string, error) {
	ctx, span := tm.tracer.Start(ctx, "render_config")
	defer span.End()
	return tm.svc.RenderConfig(ctx, template, bundle)
}
