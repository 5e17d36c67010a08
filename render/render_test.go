// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package render_test

import (
	"strings"
	"testing"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/errors"
	"github.com/absmach/certkit/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bundle = certkit.Bundle{
	KeyPath:      "/certs/localhost.key",
	CertPath:     "/certs/localhost.crt",
	DHParamsPath: "/certs/dhparam.pem",
}

func TestRenderKnownTemplates(t *testing.T) {
	r := render.NewRenderer()

	for _, name := range r.Templates() {
		t.Run(name, func(t *testing.T) {
			fragment, err := r.Render(name, bundle)
			require.NoError(t, err)
			assert.Contains(t, fragment, bundle.KeyPath)
			assert.Contains(t, fragment, bundle.CertPath)
		})
	}
}

func TestRenderDHParamsConditional(t *testing.T) {
	r := render.NewRenderer()

	withDH, err := r.Render("nginx", bundle)
	require.NoError(t, err)
	assert.Contains(t, withDH, "ssl_dhparam")
	assert.Contains(t, withDH, bundle.DHParamsPath)

	withoutDH, err := r.Render("nginx", certkit.Bundle{
		KeyPath:  bundle.KeyPath,
		CertPath: bundle.CertPath,
	})
	require.NoError(t, err)
	assert.NotContains(t, withoutDH, "ssl_dhparam")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := render.NewRenderer()

	_, err := r.Render("traefik", bundle)
	require.True(t, errors.Contains(err, certkit.ErrUnknownTemplate), "expected error %v, got %v", certkit.ErrUnknownTemplate, err)

	// The error names the known templates so the caller can correct the call.
	for _, name := range r.Templates() {
		assert.Contains(t, err.Error(), name)
	}
}

func TestTemplatesSorted(t *testing.T) {
	names := render.NewRenderer().Templates()
	require.NotEmpty(t, names)
	assert.True(t, sortedStrings(names), "template names must be sorted: %v", names)
	assert.Contains(t, names, "nginx")
}

func sortedStrings(names []string) bool {
	for i := 1; i < len(names); i++ {
		if strings.Compare(names[i-1], names[i]) > 0 {
			return false
		}
	}
	return true
}
