// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"testing"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/cli"
	"github.com/absmach/certkit/disk"
	"github.com/absmach/certkit/render"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outputLog uint8

const (
	usageLog outputLog = iota
	errLog
	savedLog
)

func executeCommand(t *testing.T, root *cobra.Command, args ...string) string {
	buffer := new(bytes.Buffer)
	root.SetOut(buffer)
	root.SetErr(buffer)
	root.SetArgs(args)
	err := root.Execute()
	assert.NoError(t, err, "Error executing command")
	return buffer.String()
}

// newTestRoot wires the commands to a real service writing into a fresh
// temporary directory and returns the root together with that directory.
func newTestRoot(t *testing.T) (*cobra.Command, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := disk.NewStore(dir)
	require.NoError(t, err)
	cli.SetService(certkit.NewService(store, render.NewRenderer()), store)
	cli.RawOutput = true

	rootCmd := &cobra.Command{Use: "certkit"}
	for _, cmd := range cli.NewGenerateCmds() {
		rootCmd.AddCommand(cmd)
	}
	return rootCmd, dir
}
