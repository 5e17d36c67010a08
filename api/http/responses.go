// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"time"

	"github.com/absmach/certkit"
)

var (
	_ Response = (*generateKeyRes)(nil)
	_ Response = (*issueCertRes)(nil)
	_ Response = (*generateDHParamsRes)(nil)
	_ Response = (*generateAllRes)(nil)
	_ Response = (*renderConfigRes)(nil)
)

type generateKeyRes struct {
	Algorithm  string `json:"algorithm"`
	Bits       int    `json:"bits,omitempty"`
	Curve      string `json:"curve,omitempty"`
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	created    bool
}

func (res generateKeyRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusBadRequest
}

func (res generateKeyRes) Headers() map[string]string {
	return map[string]string{}
}

func (res generateKeyRes) Empty() bool {
	return false
}

type issueCertRes struct {
	SerialNumber string    `json:"serial_number"`
	Certificate  string    `json:"certificate"`
	PrivateKey   string    `json:"private_key"`
	CommonName   string    `json:"common_name"`
	NotBefore    time.Time `json:"not_before"`
	NotAfter     time.Time `json:"not_after"`
	DNSNames     []string  `json:"dns_names,omitempty"`
	IPAddresses  []string  `json:"ip_addresses,omitempty"`
	issued       bool
}

func (res issueCertRes) Code() int {
	if res.issued {
		return http.StatusCreated
	}

	return http.StatusBadRequest
}

func (res issueCertRes) Headers() map[string]string {
	return map[string]string{}
}

func (res issueCertRes) Empty() bool {
	return false
}

type generateDHParamsRes struct {
	Bits     int    `json:"bits"`
	DHParams string `json:"dhparams"`
	created  bool
}

func (res generateDHParamsRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusBadRequest
}

func (res generateDHParamsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res generateDHParamsRes) Empty() bool {
	return false
}

type generateAllRes struct {
	SerialNumber string         `json:"serial_number"`
	CommonName   string         `json:"common_name"`
	NotBefore    time.Time      `json:"not_before"`
	NotAfter     time.Time      `json:"not_after"`
	Bundle       certkit.Bundle `json:"bundle"`
	created      bool
}

func (res generateAllRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusBadRequest
}

func (res generateAllRes) Headers() map[string]string {
	return map[string]string{}
}

func (res generateAllRes) Empty() bool {
	return false
}

type renderConfigRes struct {
	Template string `json:"template"`
	Config   string `json:"config"`
}

func (res renderConfigRes) Code() int {
	return http.StatusOK
}

func (res renderConfigRes) Headers() map[string]string {
	return map[string]string{}
}

func (res renderConfigRes) Empty() bool {
	return false
}
