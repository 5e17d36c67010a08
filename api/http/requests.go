// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/apiutil"
	"github.com/absmach/certkit/pkg/errors"
)

type generateKeyReq struct {
	Algorithm string `json:"algorithm"`
	Bits      int    `json:"bits,omitempty"`
	Curve     string `json:"curve,omitempty"`
}

func (req generateKeyReq) validate() error {
	if req.Bits < 0 {
		return errors.Wrap(certkit.ErrMalformedEntity, apiutil.ErrMissingBits)
	}
	return nil
}

func (req generateKeyReq) spec() certkit.KeySpec {
	return certkit.KeySpec{
		Algorithm: certkit.Algorithm(req.Algorithm),
		Bits:      req.Bits,
		Curve:     req.Curve,
	}
}

type issueCertReq struct {
	generateKeyReq
	Subject       certkit.SubjectOptions `json:"subject"`
	DNSNames      []string               `json:"dns_names,omitempty"`
	IPAddresses   []string               `json:"ip_addresses,omitempty"`
	ValidityDays  int                    `json:"validity_days"`
	AllowEmptySAN bool                   `json:"allow_empty_san,omitempty"`

	// DHBits is used by the bundle endpoint only; zero skips DH parameters.
	DHBits int `json:"dh_bits,omitempty"`
}

func (req issueCertReq) validate() error {
	if req.Subject.CommonName == "" {
		return errors.Wrap(certkit.ErrMalformedEntity, apiutil.ErrMissingCommonName)
	}
	for _, ip := range req.IPAddresses {
		if net.ParseIP(ip) == nil {
			return errors.Wrap(certkit.ErrMalformedEntity, apiutil.ErrInvalidIPAddress)
		}
	}
	return req.generateKeyReq.validate()
}

func (req issueCertReq) certRequest() certkit.CertRequest {
	ips := make([]net.IP, 0, len(req.IPAddresses))
	for _, ip := range req.IPAddresses {
		ips = append(ips, net.ParseIP(ip))
	}
	return certkit.CertRequest{
		Subject:       req.Subject,
		DNSNames:      req.DNSNames,
		IPAddresses:   ips,
		ValidityDays:  req.ValidityDays,
		AllowEmptySAN: req.AllowEmptySAN,
	}
}

type generateDHParamsReq struct {
	Bits int `json:"bits"`
}

func (req generateDHParamsReq) validate() error {
	if req.Bits <= 0 {
		return errors.Wrap(certkit.ErrMalformedEntity, apiutil.ErrMissingBits)
	}
	return nil
}

type renderConfigReq struct {
	template string
	Bundle   certkit.Bundle `json:"bundle"`
}

func (req renderConfigReq) validate() error {
	if req.template == "" {
		return errors.Wrap(certkit.ErrMalformedEntity, apiutil.ErrMissingTemplate)
	}
	return nil
}
