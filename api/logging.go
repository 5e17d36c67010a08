// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/certkit"
)

var _ certkit.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    certkit.Service
}

// LoggingMiddleware adds logging facilities to the core service. Key
// material is never logged, only metadata about the operation.
func LoggingMiddleware(svc certkit.Service, logger *slog.Logger) certkit.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) GenerateKey(ctx context.Context, spec certkit.KeySpec) (kp certkit.KeyPair, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method generate_key for %s took %s to complete", describeSpec(spec), time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.GenerateKey(ctx, spec)
}

func (lm *loggingMiddleware) IssueCert(ctx context.Context, spec certkit.KeySpec, req certkit.CertRequest) (cert certkit.Certificate, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method issue_cert for CN %s took %s to complete", req.Subject.CommonName, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s, serial %s", message, cert.SerialNumber))
	}(time.Now())
	return lm.svc.IssueCert(ctx, spec, req)
}

func (lm *loggingMiddleware) GenerateDHParams(ctx context.Context, bits int) (pem []byte, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method generate_dhparams for %d bits took %s to complete", bits, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.GenerateDHParams(ctx, bits)
}

func (lm *loggingMiddleware) GenerateAll(ctx context.Context, spec certkit.KeySpec, req certkit.CertRequest, dhBits int) (cert certkit.Certificate, bundle certkit.Bundle, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method generate_all for CN %s took %s to complete", req.Subject.CommonName, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s, wrote %s", message, bundle.CertPath))
	}(time.Now())
	return lm.svc.GenerateAll(ctx, spec, req, dhBits)
}

func (lm *loggingMiddleware) RenderConfig(ctx context.Context, template string, bundle certkit.Bundle) (fragment string, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method render_config for template %s took %s to complete", template, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.RenderConfig(ctx, template, bundle)
}

func describeSpec(spec certkit.KeySpec) string {
	if spec.Algorithm == certkit.ECDSA {
		return fmt.Sprintf("%s %s", spec.Algorithm, spec.Curve)
	}
	return fmt.Sprintf("%s %d", spec.Algorithm, spec.Bits)
}
