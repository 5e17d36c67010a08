// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains cli main function to run the cli.
package main

import (
	"fmt"
	"os"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/cli"
	"github.com/absmach/certkit/disk"
	"github.com/absmach/certkit/render"
	"github.com/spf13/cobra"
)

func main() {
	// Root
	rootCmd := &cobra.Command{
		Use:   "certkit",
		Short: "Local TLS certificate issuance utility",
		Long: `certkit generates self-signed TLS certificates, private keys and DH
parameters for local development and lab servers, and renders matching
web-server configuration fragments.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if err := cli.ParseConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to parse config: %s\n", err)
				os.Exit(cli.ExitValidation)
			}
			store, err := disk.NewStore(cli.OutputDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open output directory: %s\n", err)
				os.Exit(cli.ExitIO)
			}
			svc := certkit.NewService(store, render.NewRenderer())
			cli.SetService(svc, store)
		},
	}

	// Issuance commands
	for _, cmd := range cli.NewGenerateCmds() {
		rootCmd.AddCommand(cmd)
	}

	rootCmd.PersistentFlags().StringVarP(
		&cli.OutputDir,
		"output",
		"o",
		cli.OutputDir,
		"Destination directory for generated artifacts",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.ConfigPath,
		"config",
		"c",
		cli.ConfigPath,
		"Config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		cli.RawOutput,
		"Enables raw output mode for easier parsing of output",
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitFailure)
	}
	os.Exit(cli.ExitCode())
}
