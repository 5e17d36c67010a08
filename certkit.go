// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package certkit issues self-signed TLS certificates for local and lab use:
// key pair generation, X.509 assembly and signing, DH parameter generation,
// artifact persistence and web-server config rendering.
package certkit

import (
	"context"
	"crypto"
	"math/big"
	"net"
	"strings"
	"time"

	"github.com/absmach/certkit/pkg/errors"
)

// Algorithm selects the key pair type.
type Algorithm string

const (
	RSA   Algorithm = "rsa"
	ECDSA Algorithm = "ecdsa"
)

var (
	// ErrWeakParameter indicates a requested key or DH strength below the
	// configured minimum.
	ErrWeakParameter = errors.New("requested parameter strength below configured minimum")

	// ErrInvalidSubject indicates a certificate request without a common name.
	ErrInvalidSubject = errors.New("subject common name is empty")

	// ErrInvalidValidity indicates a non-positive validity window.
	ErrInvalidValidity = errors.New("validity days must be greater than zero")

	// ErrAmbiguousSAN indicates a request with a common name but no SAN
	// entries. Modern clients ignore the common name, so such a certificate
	// would fail hostname verification; the caller must opt in explicitly.
	ErrAmbiguousSAN = errors.New("common name given but SAN list is empty")

	// ErrPathUnwritable indicates the destination directory or file cannot
	// be written.
	ErrPathUnwritable = errors.New("destination path is not writable")

	// ErrUnknownTemplate indicates an unknown config template identifier.
	ErrUnknownTemplate = errors.New("unknown configuration template")

	// ErrKeyCreation indicates failure from the underlying key generator.
	ErrKeyCreation = errors.New("failed to generate key pair")

	// ErrCertCreation indicates failure while signing the certificate.
	ErrCertCreation = errors.New("failed to create certificate")

	// ErrDHParamCreation indicates failure while generating DH parameters.
	ErrDHParamCreation = errors.New("failed to generate DH parameters")

	// ErrMalformedEntity indicates a malformed request.
	ErrMalformedEntity = errors.New("malformed entity specification")
)

// KeySpec describes the requested key pair strength. Bits applies to RSA,
// Curve to ECDSA.
type KeySpec struct {
	Algorithm Algorithm `json:"algorithm"`
	Bits      int       `json:"bits,omitempty"`
	Curve     string    `json:"curve,omitempty"`
}

// KeyPair holds generated key material. The private component never leaves
// the process except through a Store.
type KeyPair struct {
	Spec       KeySpec       `json:"spec"`
	Private    crypto.Signer `json:"-"`
	PrivatePEM []byte        `json:"-"`
	PublicPEM  []byte        `json:"public_key"`
}

// SubjectOptions holds the distinguished-name fields of a certificate
// subject. All fields except CommonName are optional.
type SubjectOptions struct {
	CommonName         string   `json:"common_name"`
	Organization       []string `json:"organization,omitempty"`
	OrganizationalUnit []string `json:"organizational_unit,omitempty"`
	Country            []string `json:"country,omitempty"`
	Province           []string `json:"province,omitempty"`
	Locality           []string `json:"locality,omitempty"`
	StreetAddress      []string `json:"street_address,omitempty"`
	PostalCode         []string `json:"postal_code,omitempty"`
}

// CertRequest describes a self-signed certificate to be issued.
type CertRequest struct {
	Subject      SubjectOptions `json:"subject"`
	DNSNames     []string       `json:"dns_names,omitempty"`
	IPAddresses  []net.IP       `json:"ip_addresses,omitempty"`
	ValidityDays int            `json:"validity_days"`

	// AllowEmptySAN permits issuing with a common name and no SAN entries.
	AllowEmptySAN bool `json:"allow_empty_san,omitempty"`
}

// Certificate is an issued self-signed certificate together with its key,
// both PEM-encoded. Created once per invocation, never mutated.
type Certificate struct {
	SerialNumber string    `json:"serial_number"`
	Certificate  []byte    `json:"certificate"`
	Key          []byte    `json:"-"`
	CommonName   string    `json:"common_name"`
	NotBefore    time.Time `json:"not_before"`
	NotAfter     time.Time `json:"not_after"`
	DNSNames     []string  `json:"dns_names,omitempty"`
	IPAddresses  []string  `json:"ip_addresses,omitempty"`
}

// Bundle holds the on-disk locations of the artifacts written by one run.
type Bundle struct {
	KeyPath      string `json:"key_path,omitempty"`
	CertPath     string `json:"cert_path,omitempty"`
	DHParamsPath string `json:"dhparams_path,omitempty"`
}

//go:generate mockery --name Service --output=./mocks --filename service.go --quiet --note "Copyright (c) Abstract Machines"
type Service interface {
	// GenerateKey produces a key pair of the requested strength.
	GenerateKey(ctx context.Context, spec KeySpec) (KeyPair, error)

	// IssueCert generates a key pair and a self-signed certificate for the
	// given request. Nothing is persisted.
	IssueCert(ctx context.Context, spec KeySpec, req CertRequest) (Certificate, error)

	// GenerateDHParams produces PEM-encoded DH parameters of the given size.
	GenerateDHParams(ctx context.Context, bits int) ([]byte, error)

	// GenerateAll runs the full pipeline and persists key, certificate and,
	// when dhBits > 0, DH parameters through the configured store.
	GenerateAll(ctx context.Context, spec KeySpec, req CertRequest, dhBits int) (Certificate, Bundle, error)

	// RenderConfig renders a web-server configuration fragment referencing
	// the bundle paths.
	RenderConfig(ctx context.Context, template string, bundle Bundle) (string, error)
}

//go:generate mockery --name Store --output=./mocks --filename store.go --quiet --note "Copyright (c) Abstract Machines"
type Store interface {
	// SaveKey persists a private key with owner-only permissions and
	// returns the final path.
	SaveKey(ctx context.Context, name string, pem []byte) (string, error)

	// SaveCert persists a certificate with world-readable permissions and
	// returns the final path.
	SaveCert(ctx context.Context, name string, pem []byte) (string, error)

	// SaveDHParams persists DH parameters with world-readable permissions
	// and returns the final path.
	SaveDHParams(ctx context.Context, name string, pem []byte) (string, error)
}

// FormatSerialNumber renders a certificate serial as colon-separated
// lowercase hex, the form shown by inspection tools.
func FormatSerialNumber(serial *big.Int) string {
	hexed := serial.Text(16)
	if len(hexed)%2 != 0 {
		hexed = "0" + hexed
	}

	var b strings.Builder
	for i := 0; i < len(hexed); i += 2 {
		if i > 0 {
			b.WriteString(":")
		}
		b.WriteString(hexed[i : i+2])
	}

	return b.String()
}
