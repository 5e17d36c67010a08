// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package certkit

import (
	"net"
	"os"

	"gopkg.in/yaml.v2"
)

// ProfileConfig is the YAML shape of a subject profile file. It seeds a
// CertRequest; command-line flags override individual fields.
type ProfileConfig struct {
	CommonName         string   `yaml:"common_name"`
	Organization       []string `yaml:"organization"`
	OrganizationalUnit []string `yaml:"organizational_unit"`
	Country            []string `yaml:"country"`
	Province           []string `yaml:"province"`
	Locality           []string `yaml:"locality"`
	StreetAddress      []string `yaml:"street_address"`
	PostalCode         []string `yaml:"postal_code"`
	DNSNames           []string `yaml:"dns_names"`
	IPAddresses        []string `yaml:"ip_addresses"`
	ValidityDays       int      `yaml:"validity_days"`
}

// LoadProfile reads a subject profile and converts it to a CertRequest.
func LoadProfile(filename string) (CertRequest, error) {
	file, err := os.Open(filename)
	if err != nil {
		return CertRequest{}, err
	}
	defer file.Close()

	var config ProfileConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return CertRequest{}, err
	}
	return CertRequest{
		Subject: SubjectOptions{
			CommonName:         config.CommonName,
			Organization:       config.Organization,
			OrganizationalUnit: config.OrganizationalUnit,
			Country:            config.Country,
			Province:           config.Province,
			Locality:           config.Locality,
			StreetAddress:      config.StreetAddress,
			PostalCode:         config.PostalCode,
		},
		DNSNames:     config.DNSNames,
		IPAddresses:  parseIPs(config.IPAddresses),
		ValidityDays: config.ValidityDays,
	}, nil
}

func parseIPs(ipStrings []string) []net.IP {
	var ips []net.IP
	for _, ipString := range ipStrings {
		if ip := net.ParseIP(ipString); ip != nil {
			ips = append(ips, ip)
		}
	}
	return ips
}
