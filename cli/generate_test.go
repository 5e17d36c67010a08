// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absmach/certkit/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extraArg = "extra-arg"

func TestGenerateKeyCmd(t *testing.T) {
	cases := []struct {
		desc    string
		args    []string
		logType outputLog
		file    string
		code    int
	}{
		{
			desc:    "generate key successfully",
			args:    []string{"-a", "rsa", "-b", "2048"},
			logType: savedLog,
			file:    "server.key",
		},
		{
			desc:    "generate key with custom name",
			args:    []string{"-a", "ecdsa", "-n", "local.key"},
			logType: savedLog,
			file:    "local.key",
		},
		{
			desc:    "generate key with invalid args",
			args:    []string{extraArg},
			logType: usageLog,
			code:    cli.ExitValidation,
		},
		{
			desc:    "generate key below minimum strength",
			args:    []string{"-a", "rsa", "-b", "1024"},
			logType: errLog,
			code:    cli.ExitValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			rootCmd, dir := newTestRoot(t)
			out := executeCommand(t, rootCmd, append([]string{"generate-key"}, tc.args...)...)
			switch tc.logType {
			case savedLog:
				path := filepath.Join(dir, tc.file)
				assert.Contains(t, out, "Saved "+path)
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
			case usageLog:
				assert.Contains(t, out, "usage:")
				assert.Equal(t, tc.code, cli.ExitCode())
			case errLog:
				assert.Contains(t, out, "error:")
				assert.Equal(t, tc.code, cli.ExitCode())
			}
		})
	}
}

func TestGenerateCertCmd(t *testing.T) {
	cases := []struct {
		desc    string
		args    []string
		logType outputLog
		code    int
	}{
		{
			desc:    "generate cert successfully",
			args:    []string{"localhost", "--san-dns", "localhost", "--san-ip", "127.0.0.1", "-d", "365"},
			logType: savedLog,
		},
		{
			desc:    "generate cert with invalid args",
			args:    []string{"localhost", extraArg},
			logType: usageLog,
			code:    cli.ExitValidation,
		},
		{
			desc:    "generate cert without SAN entries",
			args:    []string{"localhost"},
			logType: errLog,
			code:    cli.ExitValidation,
		},
		{
			desc:    "generate cert without SAN entries forced",
			args:    []string{"localhost", "--force"},
			logType: savedLog,
		},
		{
			desc:    "generate cert with non-positive validity",
			args:    []string{"localhost", "--san-dns", "localhost", "-d", "0"},
			logType: errLog,
			code:    cli.ExitValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			rootCmd, dir := newTestRoot(t)
			out := executeCommand(t, rootCmd, append([]string{"generate-cert"}, tc.args...)...)
			switch tc.logType {
			case savedLog:
				assert.Contains(t, out, "Saved "+filepath.Join(dir, "localhost.key"))
				assert.Contains(t, out, "Saved "+filepath.Join(dir, "localhost.crt"))
				assert.Contains(t, out, `"serial_number"`)
			case usageLog:
				assert.Contains(t, out, "usage:")
				assert.Equal(t, tc.code, cli.ExitCode())
			case errLog:
				assert.Contains(t, out, "error:")
				assert.Equal(t, tc.code, cli.ExitCode())
			}
		})
	}
}

func TestGenerateCertCmdProfile(t *testing.T) {
	rootCmd, dir := newTestRoot(t)

	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(`organization:
  - Example Org
dns_names:
  - example.test
validity_days: 90
`), 0o644))

	out := executeCommand(t, rootCmd, "generate-cert", "example.test", "-p", profile)
	assert.Contains(t, out, "Saved "+filepath.Join(dir, "example.test.crt"))

	written, err := os.ReadFile(filepath.Join(dir, "example.test.crt"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "BEGIN CERTIFICATE")
}

func TestGenerateDHParamCmd(t *testing.T) {
	// Full-size safe prime search is too slow for unit tests, so only the
	// strength check runs here. Generation is covered at the package level.
	rootCmd, _ := newTestRoot(t)
	out := executeCommand(t, rootCmd, "generate-dhparam", "-B", "512")
	assert.Contains(t, out, "error:")
	assert.Equal(t, cli.ExitValidation, cli.ExitCode())

	rootCmd, _ = newTestRoot(t)
	out = executeCommand(t, rootCmd, "generate-dhparam", extraArg)
	assert.Contains(t, out, "usage:")
	assert.Equal(t, cli.ExitValidation, cli.ExitCode())
}

func TestGenerateAllCmd(t *testing.T) {
	rootCmd, dir := newTestRoot(t)

	out := executeCommand(t, rootCmd, "generate-all", "localhost",
		"--san-dns", "localhost", "--san-ip", "127.0.0.1", "-B", "0", "-t", "nginx")
	assert.Contains(t, out, "Saved "+filepath.Join(dir, "localhost.key"))
	assert.Contains(t, out, "Saved "+filepath.Join(dir, "localhost.crt"))
	assert.Contains(t, out, "ssl_certificate")
	assert.NotContains(t, out, "Saved "+filepath.Join(dir, "dhparam.pem"))

	rootCmd, _ = newTestRoot(t)
	out = executeCommand(t, rootCmd, "generate-all", "localhost", extraArg)
	assert.Contains(t, out, "usage:")
	assert.Equal(t, cli.ExitValidation, cli.ExitCode())
}

func TestGenerateCertCmdUnwritableOutput(t *testing.T) {
	rootCmd, dir := newTestRoot(t)

	// Replace the destination directory with a plain file so writes fail
	// with ENOTDIR independent of the invoking user's privileges.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte{}, 0o644))

	out := executeCommand(t, rootCmd, "generate-cert", "localhost", "--san-dns", "localhost")
	assert.Contains(t, out, "error:")
	assert.Equal(t, cli.ExitIO, cli.ExitCode())
}

func TestRenderConfigCmd(t *testing.T) {
	cases := []struct {
		desc    string
		args    []string
		logType outputLog
		code    int
		want    string
	}{
		{
			desc:    "render nginx fragment",
			args:    []string{"nginx", "--key-file", "/certs/server.key", "--cert-file", "/certs/server.crt"},
			logType: savedLog,
			want:    "ssl_certificate_key /certs/server.key",
		},
		{
			desc:    "render unknown template",
			args:    []string{"traefik"},
			logType: errLog,
			code:    cli.ExitValidation,
		},
		{
			desc:    "render with invalid args",
			args:    []string{"nginx", extraArg},
			logType: usageLog,
			code:    cli.ExitValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			rootCmd, _ := newTestRoot(t)
			out := executeCommand(t, rootCmd, append([]string{"render-config"}, tc.args...)...)
			switch tc.logType {
			case savedLog:
				assert.True(t, strings.Contains(out, tc.want), "expected fragment containing %q, got %q", tc.want, out)
			case usageLog:
				assert.Contains(t, out, "usage:")
				assert.Equal(t, tc.code, cli.ExitCode())
			case errLog:
				assert.Contains(t, out, "error:")
				assert.Equal(t, tc.code, cli.ExitCode())
			}
		})
	}
}
