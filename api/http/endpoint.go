// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"

	"github.com/absmach/certkit"
	"github.com/go-kit/kit/endpoint"
)

func generateKeyEndpoint(svc certkit.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(generateKeyReq)
		if err := req.validate(); err != nil {
			return generateKeyRes{}, err
		}

		kp, err := svc.GenerateKey(ctx, req.spec())
		if err != nil {
			return generateKeyRes{}, err
		}

		return generateKeyRes{
			Algorithm:  string(kp.Spec.Algorithm),
			Bits:       kp.Spec.Bits,
			Curve:      kp.Spec.Curve,
			PrivateKey: string(kp.PrivatePEM),
			PublicKey:  string(kp.PublicPEM),
			created:    true,
		}, nil
	}
}

func issueCertEndpoint(svc certkit.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(issueCertReq)
		if err := req.validate(); err != nil {
			return issueCertRes{}, err
		}

		cert, err := svc.IssueCert(ctx, req.spec(), req.certRequest())
		if err != nil {
			return issueCertRes{}, err
		}

		return issueCertRes{
			SerialNumber: cert.SerialNumber,
			Certificate:  string(cert.Certificate),
			PrivateKey:   string(cert.Key),
			CommonName:   cert.CommonName,
			NotBefore:    cert.NotBefore,
			NotAfter:     cert.NotAfter,
			DNSNames:     cert.DNSNames,
			IPAddresses:  cert.IPAddresses,
			issued:       true,
		}, nil
	}
}

func generateDHParamsEndpoint(svc certkit.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(generateDHParamsReq)
		if err := req.validate(); err != nil {
			return generateDHParamsRes{}, err
		}

		params, err := svc.GenerateDHParams(ctx, req.Bits)
		if err != nil {
			return generateDHParamsRes{}, err
		}

		return generateDHParamsRes{
			Bits:     req.Bits,
			DHParams: string(params),
			created:  true,
		}, nil
	}
}

func generateAllEndpoint(svc certkit.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(issueCertReq)
		if err := req.validate(); err != nil {
			return generateAllRes{}, err
		}

		cert, bundle, err := svc.GenerateAll(ctx, req.spec(), req.certRequest(), req.DHBits)
		if err != nil {
			return generateAllRes{}, err
		}

		return generateAllRes{
			SerialNumber: cert.SerialNumber,
			CommonName:   cert.CommonName,
			NotBefore:    cert.NotBefore,
			NotAfter:     cert.NotAfter,
			Bundle:       bundle,
			created:      true,
		}, nil
	}
}

func renderConfigEndpoint(svc certkit.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(renderConfigReq)
		if err := req.validate(); err != nil {
			return renderConfigRes{}, err
		}

		config, err := svc.RenderConfig(ctx, req.template, req.Bundle)
		if err != nil {
			return renderConfigRes{}, err
		}

		return renderConfigRes{
			Template: req.template,
			Config:   config,
		}, nil
	}
}
