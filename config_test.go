// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package certkit_test

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/certkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `common_name: example.test
organization:
  - Example Org
country:
  - DE
dns_names:
  - example.test
  - www.example.test
ip_addresses:
  - 127.0.0.1
  - not-an-ip
validity_days: 90
`

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profileYAML), 0o644))

	req, err := certkit.LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "example.test", req.Subject.CommonName)
	assert.Equal(t, []string{"Example Org"}, req.Subject.Organization)
	assert.Equal(t, []string{"DE"}, req.Subject.Country)
	assert.Equal(t, []string{"example.test", "www.example.test"}, req.DNSNames)
	assert.Equal(t, 90, req.ValidityDays)

	// Unparseable addresses are dropped.
	require.Len(t, req.IPAddresses, 1)
	assert.True(t, net.ParseIP("127.0.0.1").Equal(req.IPAddresses[0]))
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := certkit.LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadProfileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("common_name: [unclosed"), 0o644))

	_, err := certkit.LoadProfile(path)
	require.Error(t, err)
}
