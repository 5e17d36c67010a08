// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package certkit

import (
	"context"
	"crypto/rand"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/absmach/certkit/pkg/errors"
)

// MinDHBits is the smallest DH modulus the generator accepts.
const MinDHBits = 2048

const dhParamsPEMType = "DH PARAMETERS"

// dhGenerator is the generator g of the DH group. 2 is what openssl dhparam
// uses by default and is safe with a safe prime modulus.
var dhGenerator = big.NewInt(2)

// pkcs3Params is the DHParameter ASN.1 structure from PKCS#3.
type pkcs3Params struct {
	P *big.Int
	G *big.Int
}

// GenerateDHParamsPEM generates Diffie-Hellman domain parameters with a
// random safe prime modulus of the requested size and returns them as
// PKCS#3 "DH PARAMETERS" PEM. Safe prime search is probabilistic and slow;
// expect seconds for 2048 bits and minutes for 4096.
func GenerateDHParamsPEM(ctx context.Context, bits int) ([]byte, error) {
	if bits < MinDHBits {
		return nil, errors.Wrap(ErrWeakParameter, fmt.Errorf("DH-%d is below the %d bit minimum", bits, MinDHBits))
	}
	return generateDHParamsPEM(ctx, bits)
}

func generateDHParamsPEM(ctx context.Context, bits int) ([]byte, error) {
	p, err := safePrime(ctx, bits)
	if err != nil {
		return nil, errors.Wrap(ErrDHParamCreation, err)
	}
	return encodeDHParams(p, dhGenerator)
}

// safePrime searches for a prime p = 2q + 1 with q prime.
func safePrime(ctx context.Context, bits int) (*big.Int, error) {
	one := big.NewInt(1)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := rand.Prime(rand.Reader, bits-1)
		if err != nil {
			return nil, err
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, one)
		if p.BitLen() == bits && p.ProbablyPrime(20) {
			return p, nil
		}
	}
}

func encodeDHParams(p, g *big.Int) ([]byte, error) {
	der, err := asn1.Marshal(pkcs3Params{P: p, G: g})
	if err != nil {
		return nil, errors.Wrap(ErrDHParamCreation, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: dhParamsPEMType, Bytes: der}), nil
}

// ParseDHParamsPEM reads back parameters written by GenerateDHParamsPEM.
func ParseDHParamsPEM(data []byte) (p, g *big.Int, err error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != dhParamsPEMType {
		return nil, nil, errors.Wrap(ErrMalformedEntity, errors.New("no DH PARAMETERS PEM block found"))
	}
	var params pkcs3Params
	if _, err := asn1.Unmarshal(block.Bytes, &params); err != nil {
		return nil, nil, errors.Wrap(ErrMalformedEntity, err)
	}
	return params.P, params.G, nil
}
