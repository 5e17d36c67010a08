// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package render emits web-server configuration fragments referencing
// generated artifact paths. Pure templating, no cryptographic logic.
package render

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/errors"
)

const nginxTemplate = `server {
    listen 443 ssl;
    listen [::]:443 ssl;
    server_name _;

    ssl_certificate     {{.CertPath}};
    ssl_certificate_key {{.KeyPath}};
{{- if .DHParamsPath}}
    ssl_dhparam         {{.DHParamsPath}};
{{- end}}

    ssl_protocols TLSv1.2 TLSv1.3;
    ssl_ciphers ECDHE-ECDSA-AES128-GCM-SHA256:ECDHE-RSA-AES128-GCM-SHA256:ECDHE-ECDSA-AES256-GCM-SHA384:ECDHE-RSA-AES256-GCM-SHA384:DHE-RSA-AES128-GCM-SHA256:DHE-RSA-AES256-GCM-SHA384;
    ssl_prefer_server_ciphers off;
    ssl_session_timeout 1d;
    ssl_session_cache shared:SSL:10m;
}
`

const apacheTemplate = `<VirtualHost *:443>
    SSLEngine on
    SSLCertificateFile    {{.CertPath}}
    SSLCertificateKeyFile {{.KeyPath}}
{{- if .DHParamsPath}}
    SSLOpenSSLConfCmd DHParameters {{.DHParamsPath}}
{{- end}}

    SSLProtocol all -SSLv3 -TLSv1 -TLSv1.1
    SSLCipherSuite ECDHE-ECDSA-AES128-GCM-SHA256:ECDHE-RSA-AES128-GCM-SHA256:ECDHE-ECDSA-AES256-GCM-SHA384:ECDHE-RSA-AES256-GCM-SHA384:DHE-RSA-AES128-GCM-SHA256:DHE-RSA-AES256-GCM-SHA384
    SSLHonorCipherOrder off
</VirtualHost>
`

const caddyTemplate = `:443 {
	tls {{.CertPath}} {{.KeyPath}}
}
`

type renderer struct {
	templates map[string]*template.Template
}

var _ certkit.Renderer = (*renderer)(nil)

// NewRenderer returns a renderer with the built-in nginx, apache and caddy
// templates.
func NewRenderer() certkit.Renderer {
	r := &renderer{templates: make(map[string]*template.Template)}
	for name, text := range map[string]string{
		"nginx":  nginxTemplate,
		"apache": apacheTemplate,
		"caddy":  caddyTemplate,
	} {
		r.templates[name] = template.Must(template.New(name).Parse(text))
	}
	return r
}

func (r *renderer) Render(name string, bundle certkit.Bundle) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", errors.Wrap(certkit.ErrUnknownTemplate, fmt.Errorf("%q, known: %s", name, strings.Join(r.Templates(), ", ")))
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, bundle); err != nil {
		return "", errors.Wrap(certkit.ErrUnknownTemplate, err)
	}
	return b.String(), nil
}

func (r *renderer) Templates() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
