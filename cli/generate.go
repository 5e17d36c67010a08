// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"net"

	"github.com/absmach/certkit"
	"github.com/spf13/cobra"
)

// Keep service and store handles in global vars.
var (
	svc   certkit.Service
	store certkit.Store
)

// SetService configures the issuance service and artifact store used by
// the commands.
func SetService(s certkit.Service, st certkit.Store) {
	svc = s
	store = st
}

type generateFlags struct {
	algorithm    string
	bits         int
	curve        string
	validityDays int
	dnsNames     []string
	ipAddrs      []string
	profile      string
	force        bool
	dhBits       int
	renderAs     string
	fileName     string

	renderKeyPath  string
	renderCertPath string
	renderDHPath   string
}

var gf generateFlags

func (f generateFlags) keySpec() certkit.KeySpec {
	return certkit.KeySpec{
		Algorithm: certkit.Algorithm(f.algorithm),
		Bits:      f.bits,
		Curve:     f.curve,
	}
}

// certRequest builds the request from the profile file, if any, with flags
// taking precedence over profile values.
func (f generateFlags) certRequest(cmd cobra.Command, commonName string) (certkit.CertRequest, bool) {
	req := certkit.CertRequest{}
	if f.profile != "" {
		loaded, err := certkit.LoadProfile(f.profile)
		if err != nil {
			logErrorCmd(cmd, err)
			return certkit.CertRequest{}, false
		}
		req = loaded
	}

	req.Subject.CommonName = commonName
	if len(f.dnsNames) > 0 {
		req.DNSNames = f.dnsNames
	}
	if len(f.ipAddrs) > 0 {
		ips := make([]net.IP, 0, len(f.ipAddrs))
		for _, s := range f.ipAddrs {
			ips = append(ips, net.ParseIP(s))
		}
		req.IPAddresses = ips
	}
	if cmd.Flags().Changed("days") || req.ValidityDays == 0 {
		req.ValidityDays = f.validityDays
	}
	req.AllowEmptySAN = f.force

	return req, true
}

// NewGenerateCmds returns the issuance commands with fresh flag state.
func NewGenerateCmds() []*cobra.Command {
	gf = generateFlags{}

	cmdGenerateKey := cobra.Command{
		Use:   "generate-key",
		Short: "Generate key pair",
		Long:  `Generates an RSA or ECDSA key pair and writes the private key to the output directory.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			kp, err := svc.GenerateKey(context.Background(), gf.keySpec())
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			name := gf.fileName
			if name == "" {
				name = "server.key"
			}
			path, err := store.SaveKey(context.Background(), name, kp.PrivatePEM)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logSavedCmd(*cmd, path)
			logJSONCmd(*cmd, kp)
		},
	}

	cmdGenerateCert := cobra.Command{
		Use:   "generate-cert <common_name>",
		Short: "Generate self-signed certificate",
		Long: `Generates a key pair and a self-signed certificate for the given common name
and writes both to the output directory. Supply SAN entries with --san-dns and
--san-ip; a certificate without SAN entries needs --force.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			req, ok := gf.certRequest(*cmd, args[0])
			if !ok {
				return
			}
			cert, bundle, err := svc.GenerateAll(context.Background(), gf.keySpec(), req, 0)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logSavedCmd(*cmd, bundle.KeyPath, bundle.CertPath)
			logJSONCmd(*cmd, cert)
		},
	}

	cmdGenerateDHParam := cobra.Command{
		Use:   "generate-dhparam",
		Short: "Generate DH parameters",
		Long: `Generates Diffie-Hellman parameters with a fresh safe prime and writes them
to the output directory. Safe prime search is slow: expect minutes for 4096 bits.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			params, err := svc.GenerateDHParams(context.Background(), gf.dhBits)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			path, err := store.SaveDHParams(context.Background(), "dhparam.pem", params)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logSavedCmd(*cmd, path)
			logOKCmd(*cmd)
		},
	}

	cmdGenerateAll := cobra.Command{
		Use:   "generate-all <common_name>",
		Short: "Generate key, certificate and DH parameters",
		Long: `Runs the full pipeline: key pair, self-signed certificate and DH parameters,
all written to the output directory. With --render, also prints a server
configuration fragment referencing the generated files.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			req, ok := gf.certRequest(*cmd, args[0])
			if !ok {
				return
			}
			cert, bundle, err := svc.GenerateAll(context.Background(), gf.keySpec(), req, gf.dhBits)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logSavedCmd(*cmd, bundle.KeyPath, bundle.CertPath, bundle.DHParamsPath)
			logJSONCmd(*cmd, cert)

			if gf.renderAs != "" {
				fragment, err := svc.RenderConfig(context.Background(), gf.renderAs, bundle)
				if err != nil {
					logErrorCmd(*cmd, err)
					return
				}
				cmd.Println(fragment)
			}
		},
	}

	cmdRenderConfig := cobra.Command{
		Use:   "render-config <template>",
		Short: "Render server configuration fragment",
		Long:  `Renders a web-server configuration fragment (nginx, apache or caddy) referencing existing artifact paths.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			bundle := certkit.Bundle{
				KeyPath:      gf.renderKeyPath,
				CertPath:     gf.renderCertPath,
				DHParamsPath: gf.renderDHPath,
			}
			fragment, err := svc.RenderConfig(context.Background(), args[0], bundle)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			cmd.Println(fragment)
		},
	}

	keyFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&gf.algorithm, "algorithm", "a", "rsa", "Key algorithm: rsa or ecdsa")
		cmd.Flags().IntVarP(&gf.bits, "bits", "b", certkit.DefaultRSABits, "RSA key size in bits")
		cmd.Flags().StringVarP(&gf.curve, "curve", "u", certkit.DefaultCurve, "ECDSA curve: P-256, P-384 or P-521")
	}
	certFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVarP(&gf.validityDays, "days", "d", 365, "Validity period in days")
		cmd.Flags().StringSliceVar(&gf.dnsNames, "san-dns", nil, "DNS subject alternative name, repeatable")
		cmd.Flags().StringSliceVar(&gf.ipAddrs, "san-ip", nil, "IP subject alternative name, repeatable")
		cmd.Flags().StringVarP(&gf.profile, "profile", "p", "", "YAML subject profile file")
		cmd.Flags().BoolVarP(&gf.force, "force", "f", false, "Issue even with an empty SAN list")
	}

	keyFlags(&cmdGenerateKey)
	cmdGenerateKey.Flags().StringVarP(&gf.fileName, "name", "n", "", "Private key file name")

	keyFlags(&cmdGenerateCert)
	certFlags(&cmdGenerateCert)

	cmdGenerateDHParam.Flags().IntVarP(&gf.dhBits, "dh-bits", "B", certkit.MinDHBits, "DH modulus size in bits")

	keyFlags(&cmdGenerateAll)
	certFlags(&cmdGenerateAll)
	cmdGenerateAll.Flags().IntVarP(&gf.dhBits, "dh-bits", "B", certkit.MinDHBits, "DH modulus size in bits, 0 skips DH parameters")
	cmdGenerateAll.Flags().StringVarP(&gf.renderAs, "render", "t", "", "Also render a config fragment: nginx, apache or caddy")

	cmdRenderConfig.Flags().StringVar(&gf.renderKeyPath, "key-file", "", "Private key path to reference")
	cmdRenderConfig.Flags().StringVar(&gf.renderCertPath, "cert-file", "", "Certificate path to reference")
	cmdRenderConfig.Flags().StringVar(&gf.renderDHPath, "dhparam-file", "", "DH parameters path to reference")

	return []*cobra.Command{
		&cmdGenerateKey,
		&cmdGenerateCert,
		&cmdGenerateDHParam,
		&cmdGenerateAll,
		&cmdRenderConfig,
	}
}
