// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/errors"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

// Exit codes distinguish what the caller can do about a failure: fix the
// request, or fix the destination.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitIO         = 3
)

var (
	// OutputDir destination directory parameter.
	OutputDir string = "."
	// ConfigPath config path parameter.
	ConfigPath string = ""
	// RawOutput raw output mode.
	RawOutput bool = false

	exitCode int
)

// ExitCode returns the exit code recorded by the last failed command.
func ExitCode() int {
	return exitCode
}

func logJSONCmd(cmd cobra.Command, iList ...any) {
	for _, i := range iList {
		m, err := json.Marshal(i)
		if err != nil {
			logErrorCmd(cmd, err)
			return
		}

		if RawOutput {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", string(m))
			continue
		}

		pj, err := prettyjson.Format(m)
		if err != nil {
			logErrorCmd(cmd, err)
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", string(pj))
	}
}

func logUsageCmd(cmd cobra.Command, u string) {
	exitCode = ExitValidation
	fmt.Fprintf(cmd.OutOrStdout(), color.YellowString("\nusage: %s\n\n"), u)
}

func logErrorCmd(cmd cobra.Command, err error) {
	exitCode = exitCodeFor(err)
	boldRed := color.New(color.FgRed, color.Bold)
	boldRed.Fprintf(cmd.ErrOrStderr(), "\nerror: ")

	fmt.Fprintf(cmd.ErrOrStderr(), "%s\n\n", color.RedString(err.Error()))
}

func logOKCmd(cmd cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", color.BlueString("ok"))
}

func logSavedCmd(cmd cobra.Command, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	}
}

func exitCodeFor(err error) int {
	switch {
	case errors.Contains(err, certkit.ErrInvalidSubject),
		errors.Contains(err, certkit.ErrInvalidValidity),
		errors.Contains(err, certkit.ErrAmbiguousSAN),
		errors.Contains(err, certkit.ErrWeakParameter),
		errors.Contains(err, certkit.ErrUnknownTemplate),
		errors.Contains(err, certkit.ErrMalformedEntity):
		return ExitValidation
	case errors.Contains(err, certkit.ErrPathUnwritable):
		return ExitIO
	default:
		return ExitFailure
	}
}
