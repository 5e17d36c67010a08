// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package certkit

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/absmach/certkit/pkg/errors"
)

const (
	// MinRSABits is the smallest RSA modulus the generator accepts.
	MinRSABits = 2048

	// DefaultRSABits is used when a spec leaves the size unset.
	DefaultRSABits = 2048

	// DefaultCurve is used when an ECDSA spec leaves the curve unset.
	DefaultCurve = "P-256"

	privateKeyPEMType = "PRIVATE KEY"
	publicKeyPEMType  = "PUBLIC KEY"
)

var errUnsupportedAlgorithm = errors.New("unsupported key algorithm")

// GenerateKeyPair produces a key pair of the requested strength. Private
// keys are encoded as PKCS#8, public keys as PKIX, both in PEM.
func GenerateKeyPair(spec KeySpec) (KeyPair, error) {
	signer, normalized, err := generateSigner(spec)
	if err != nil {
		return KeyPair{}, err
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(signer)
	if err != nil {
		return KeyPair{}, errors.Wrap(ErrKeyCreation, err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(signer.Public())
	if err != nil {
		return KeyPair{}, errors.Wrap(ErrKeyCreation, err)
	}

	return KeyPair{
		Spec:       normalized,
		Private:    signer,
		PrivatePEM: pem.EncodeToMemory(&pem.Block{Type: privateKeyPEMType, Bytes: keyDER}),
		PublicPEM:  pem.EncodeToMemory(&pem.Block{Type: publicKeyPEMType, Bytes: pubDER}),
	}, nil
}

func generateSigner(spec KeySpec) (crypto.Signer, KeySpec, error) {
	switch spec.Algorithm {
	case RSA, "":
		bits := spec.Bits
		if bits == 0 {
			bits = DefaultRSABits
		}
		if bits < MinRSABits {
			return nil, spec, errors.Wrap(ErrWeakParameter, fmt.Errorf("RSA-%d is below the %d bit minimum", bits, MinRSABits))
		}
		key, err := rsa.GenerateKey(rand.Reader, bits)
		if err != nil {
			return nil, spec, errors.Wrap(ErrKeyCreation, err)
		}
		return key, KeySpec{Algorithm: RSA, Bits: bits}, nil

	case ECDSA:
		name := spec.Curve
		if name == "" {
			name = DefaultCurve
		}
		curve, err := curveByName(name)
		if err != nil {
			return nil, spec, err
		}
		key, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			return nil, spec, errors.Wrap(ErrKeyCreation, err)
		}
		return key, KeySpec{Algorithm: ECDSA, Curve: name}, nil

	default:
		return nil, spec, errors.Wrap(errUnsupportedAlgorithm, fmt.Errorf("algorithm %q", spec.Algorithm))
	}
}

func curveByName(name string) (elliptic.Curve, error) {
	switch name {
	case "P-256", "p256", "P256":
		return elliptic.P256(), nil
	case "P-384", "p384", "P384":
		return elliptic.P384(), nil
	case "P-521", "p521", "P521":
		return elliptic.P521(), nil
	default:
		return nil, errors.Wrap(ErrWeakParameter, fmt.Errorf("unsupported curve %q", name))
	}
}

// ParsePrivateKeyPEM reads back a PKCS#8 private key written by this package.
func ParsePrivateKeyPEM(data []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.Wrap(ErrMalformedEntity, errors.New("no PEM block found"))
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedEntity, err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, errors.Wrap(ErrMalformedEntity, errors.New("key does not implement crypto.Signer"))
	}
	return signer, nil
}
