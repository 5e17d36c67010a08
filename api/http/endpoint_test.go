// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/absmach/certkit"
	httpapi "github.com/absmach/certkit/api/http"
	"github.com/absmach/certkit/disk"
	"github.com/absmach/certkit/render"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "application/json"
	instanceID  = "5de9b29a-feb9-11ed-be56-0242ac120002"
)

type testRequest struct {
	client      *http.Client
	method      string
	url         string
	contentType string
	body        io.Reader
}

func (tr testRequest) make() (*http.Response, error) {
	req, err := http.NewRequest(tr.method, tr.url, tr.body)
	if err != nil {
		return nil, err
	}

	if tr.contentType != "" {
		req.Header.Set("Content-Type", tr.contentType)
	}

	return tr.client.Do(req)
}

func newCertServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := disk.NewStore(dir)
	require.NoError(t, err)
	svc := certkit.NewService(store, render.NewRenderer())

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	mux := chi.NewRouter()
	return httptest.NewServer(httpapi.MakeHandler(mux, svc, logger, instanceID)), dir
}

func TestGenerateKeyEndpoint(t *testing.T) {
	server, _ := newCertServer(t)
	defer server.Close()

	cases := []struct {
		desc        string
		body        string
		contentType string
		status      int
	}{
		{
			desc:        "generate RSA key",
			body:        `{"algorithm":"rsa","bits":2048}`,
			contentType: contentType,
			status:      http.StatusCreated,
		},
		{
			desc:        "generate ECDSA key",
			body:        `{"algorithm":"ecdsa","curve":"P-256"}`,
			contentType: contentType,
			status:      http.StatusCreated,
		},
		{
			desc:        "generate key below minimum strength",
			body:        `{"algorithm":"rsa","bits":1024}`,
			contentType: contentType,
			status:      http.StatusBadRequest,
		},
		{
			desc:        "generate key with malformed body",
			body:        `{"algorithm"`,
			contentType: contentType,
			status:      http.StatusBadRequest,
		},
		{
			desc:        "generate key with wrong content type",
			body:        `{"algorithm":"rsa"}`,
			contentType: "text/plain",
			status:      http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			req := testRequest{
				client:      server.Client(),
				method:      http.MethodPost,
				url:         fmt.Sprintf("%s/keys", server.URL),
				contentType: tc.contentType,
				body:        strings.NewReader(tc.body),
			}
			res, err := req.make()
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)

			if tc.status == http.StatusCreated {
				var body map[string]any
				require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
				assert.Contains(t, body["private_key"], "BEGIN PRIVATE KEY")
				assert.Contains(t, body["public_key"], "BEGIN PUBLIC KEY")
			}
		})
	}
}

func TestIssueCertEndpoint(t *testing.T) {
	server, _ := newCertServer(t)
	defer server.Close()

	cases := []struct {
		desc   string
		body   string
		status int
	}{
		{
			desc:   "issue cert",
			body:   `{"subject":{"common_name":"localhost"},"dns_names":["localhost"],"ip_addresses":["127.0.0.1"],"validity_days":365}`,
			status: http.StatusCreated,
		},
		{
			desc:   "issue cert without common name",
			body:   `{"dns_names":["localhost"],"validity_days":365}`,
			status: http.StatusBadRequest,
		},
		{
			desc:   "issue cert with invalid IP address",
			body:   `{"subject":{"common_name":"localhost"},"ip_addresses":["999.0.0.1"],"validity_days":365}`,
			status: http.StatusBadRequest,
		},
		{
			desc:   "issue cert without SAN entries",
			body:   `{"subject":{"common_name":"localhost"},"validity_days":365}`,
			status: http.StatusBadRequest,
		},
		{
			desc:   "issue cert without SAN entries overridden",
			body:   `{"subject":{"common_name":"localhost"},"validity_days":365,"allow_empty_san":true}`,
			status: http.StatusCreated,
		},
		{
			desc:   "issue cert with zero validity",
			body:   `{"subject":{"common_name":"localhost"},"dns_names":["localhost"],"validity_days":0}`,
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			req := testRequest{
				client:      server.Client(),
				method:      http.MethodPost,
				url:         fmt.Sprintf("%s/certs", server.URL),
				contentType: contentType,
				body:        strings.NewReader(tc.body),
			}
			res, err := req.make()
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)

			if tc.status == http.StatusCreated {
				var body map[string]any
				require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
				assert.NotEmpty(t, body["serial_number"])
				assert.Contains(t, body["certificate"], "BEGIN CERTIFICATE")
			}
		})
	}
}

func TestGenerateDHParamsEndpoint(t *testing.T) {
	server, _ := newCertServer(t)
	defer server.Close()

	// Compliant sizes take too long for a unit test, so only validation
	// paths run over HTTP.
	cases := []struct {
		desc   string
		body   string
		status int
	}{
		{
			desc:   "missing bits",
			body:   `{}`,
			status: http.StatusBadRequest,
		},
		{
			desc:   "bits below minimum",
			body:   `{"bits":512}`,
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			req := testRequest{
				client:      server.Client(),
				method:      http.MethodPost,
				url:         fmt.Sprintf("%s/dhparams", server.URL),
				contentType: contentType,
				body:        strings.NewReader(tc.body),
			}
			res, err := req.make()
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}

func TestGenerateAllEndpoint(t *testing.T) {
	server, dir := newCertServer(t)
	defer server.Close()

	req := testRequest{
		client:      server.Client(),
		method:      http.MethodPost,
		url:         fmt.Sprintf("%s/bundles", server.URL),
		contentType: contentType,
		body:        strings.NewReader(`{"subject":{"common_name":"localhost"},"dns_names":["localhost"],"validity_days":365}`),
	}
	res, err := req.make()
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var body struct {
		Bundle certkit.Bundle `json:"bundle"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.FileExists(t, body.Bundle.KeyPath)
	assert.FileExists(t, body.Bundle.CertPath)
	assert.Contains(t, body.Bundle.KeyPath, dir)
}

func TestRenderConfigEndpoint(t *testing.T) {
	server, _ := newCertServer(t)
	defer server.Close()

	cases := []struct {
		desc     string
		template string
		status   int
	}{
		{
			desc:     "render nginx",
			template: "nginx",
			status:   http.StatusOK,
		},
		{
			desc:     "render unknown template",
			template: "traefik",
			status:   http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			req := testRequest{
				client:      server.Client(),
				method:      http.MethodPost,
				url:         fmt.Sprintf("%s/configs/%s", server.URL, tc.template),
				contentType: contentType,
				body:        strings.NewReader(`{"bundle":{"key_path":"/certs/server.key","cert_path":"/certs/server.crt"}}`),
			}
			res, err := req.make()
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)

			if tc.status == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
				assert.Contains(t, body["config"], "/certs/server.key")
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newCertServer(t)
	defer server.Close()

	res, err := server.Client().Get(fmt.Sprintf("%s/health", server.URL))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "pass", body["status"])
	assert.Equal(t, instanceID, body["instance_id"])
}
