// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package certkit

import (
	"context"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"strings"
	"time"

	"github.com/absmach/certkit/pkg/errors"
)

const (
	certPEMType = "CERTIFICATE"

	keyFileExt  = ".key"
	certFileExt = ".crt"

	// dhParamsFileName is shared by all runs; DH parameters are not bound
	// to a particular host.
	dhParamsFileName = "dhparam.pem"
)

var serialNumberLimit = new(big.Int).Lsh(big.NewInt(1), 128)

// Renderer emits consumer-facing configuration fragments for a bundle of
// artifact paths.
type Renderer interface {
	Render(template string, bundle Bundle) (string, error)
	Templates() []string
}

type service struct {
	store    Store
	renderer Renderer
}

var _ Service = (*service)(nil)

// NewService returns the certificate issuance pipeline backed by the given
// artifact store and config renderer.
func NewService(store Store, renderer Renderer) Service {
	return &service{
		store:    store,
		renderer: renderer,
	}
}

func (s *service) GenerateKey(ctx context.Context, spec KeySpec) (KeyPair, error) {
	return GenerateKeyPair(spec)
}

// IssueCert assembles the to-be-signed structure from the request and signs
// it with a freshly generated private key. The certificate is self-signed:
// issuer and subject are identical and basic constraints mark it not-a-CA.
func (s *service) IssueCert(ctx context.Context, spec KeySpec, req CertRequest) (Certificate, error) {
	if err := validateRequest(req); err != nil {
		return Certificate{}, err
	}

	kp, err := GenerateKeyPair(spec)
	if err != nil {
		return Certificate{}, err
	}

	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return Certificate{}, errors.Wrap(ErrCertCreation, err)
	}

	// x509 stores validity at second precision; truncate so that
	// NotAfter - NotBefore survives a disk round trip exactly.
	notBefore := time.Now().UTC().Truncate(time.Second)
	notAfter := notBefore.Add(time.Duration(req.ValidityDays) * 24 * time.Hour)

	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               subjectName(req.Subject),
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  false,
		DNSNames:              req.DNSNames,
		IPAddresses:           req.IPAddresses,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, kp.Private.Public(), kp.Private)
	if err != nil {
		return Certificate{}, errors.Wrap(ErrCertCreation, err)
	}

	ipStrs := make([]string, 0, len(req.IPAddresses))
	for _, ip := range req.IPAddresses {
		ipStrs = append(ipStrs, ip.String())
	}

	return Certificate{
		SerialNumber: FormatSerialNumber(serialNumber),
		Certificate:  pem.EncodeToMemory(&pem.Block{Type: certPEMType, Bytes: certDER}),
		Key:          kp.PrivatePEM,
		CommonName:   req.Subject.CommonName,
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		DNSNames:     req.DNSNames,
		IPAddresses:  ipStrs,
	}, nil
}

func (s *service) GenerateDHParams(ctx context.Context, bits int) ([]byte, error) {
	return GenerateDHParamsPEM(ctx, bits)
}

// GenerateAll runs the full pipeline: generate, build, persist, in that
// order. Validation failures leave nothing on disk; an I/O failure keeps
// the artifacts already written, since each one is independent.
func (s *service) GenerateAll(ctx context.Context, spec KeySpec, req CertRequest, dhBits int) (Certificate, Bundle, error) {
	cert, err := s.IssueCert(ctx, spec, req)
	if err != nil {
		return Certificate{}, Bundle{}, err
	}

	var dhParams []byte
	if dhBits > 0 {
		if dhParams, err = GenerateDHParamsPEM(ctx, dhBits); err != nil {
			return Certificate{}, Bundle{}, err
		}
	}

	base := artifactBaseName(req.Subject.CommonName)
	bundle := Bundle{}
	if bundle.KeyPath, err = s.store.SaveKey(ctx, base+keyFileExt, cert.Key); err != nil {
		return cert, bundle, err
	}
	if bundle.CertPath, err = s.store.SaveCert(ctx, base+certFileExt, cert.Certificate); err != nil {
		return cert, bundle, err
	}
	if dhParams != nil {
		if bundle.DHParamsPath, err = s.store.SaveDHParams(ctx, dhParamsFileName, dhParams); err != nil {
			return cert, bundle, err
		}
	}

	return cert, bundle, nil
}

func (s *service) RenderConfig(ctx context.Context, template string, bundle Bundle) (string, error) {
	return s.renderer.Render(template, bundle)
}

func validateRequest(req CertRequest) error {
	if strings.TrimSpace(req.Subject.CommonName) == "" {
		return ErrInvalidSubject
	}
	if req.ValidityDays <= 0 {
		return ErrInvalidValidity
	}
	if len(req.DNSNames) == 0 && len(req.IPAddresses) == 0 && !req.AllowEmptySAN {
		return ErrAmbiguousSAN
	}
	return nil
}

func subjectName(opts SubjectOptions) pkix.Name {
	return pkix.Name{
		CommonName:         opts.CommonName,
		Organization:       opts.Organization,
		OrganizationalUnit: opts.OrganizationalUnit,
		Country:            opts.Country,
		Province:           opts.Province,
		Locality:           opts.Locality,
		StreetAddress:      opts.StreetAddress,
		PostalCode:         opts.PostalCode,
	}
}

// artifactBaseName turns a common name into a safe file name stem.
func artifactBaseName(cn string) string {
	base := strings.ToLower(strings.TrimSpace(cn))
	base = strings.ReplaceAll(base, "*", "wildcard")
	base = strings.ReplaceAll(base, " ", "-")
	base = strings.ReplaceAll(base, "/", "-")
	if base == "" {
		base = "server"
	}
	return base
}
