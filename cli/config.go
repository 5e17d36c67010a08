// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/errors"
	"github.com/pelletier/go-toml"
)

const (
	defOutputDir       string = "."
	defAlgorithm       string = "rsa"
	defValidityDays    string = "365"
	defValidityDaysInt int    = 365
	defRawOutput       string = "false"
)

type defaults struct {
	OutputDir    string `toml:"output_dir"`
	Algorithm    string `toml:"algorithm"`
	Bits         string `toml:"bits"`
	Curve        string `toml:"curve"`
	ValidityDays string `toml:"validity_days"`
	DHBits       string `toml:"dh_bits"`
}

type config struct {
	Defaults  defaults `toml:"defaults"`
	RawOutput string   `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail       = errors.New("failed to read config file")
	errWritingConfig  = errors.New("error in writing the updated config to file")
	defaultConfigPath = "./config.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, err
	}

	return c, nil
}

// ParseConfig - parses the config file and fills in flag values the user
// left at their defaults.
func ParseConfig() error {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	// If the file does not exist, create it with default values.
	case os.IsNotExist(err):
		defaultConfig := config{
			Defaults: defaults{
				OutputDir:    defOutputDir,
				Algorithm:    defAlgorithm,
				ValidityDays: defValidityDays,
			},
			RawOutput: defRawOutput,
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return err
	}

	config, err := read(ConfigPath)
	if err != nil {
		return err
	}

	if config.Defaults.OutputDir != "" && OutputDir == defOutputDir {
		OutputDir = config.Defaults.OutputDir
	}

	if config.Defaults.Algorithm != "" && gf.algorithm == defAlgorithm {
		gf.algorithm = config.Defaults.Algorithm
	}

	if config.Defaults.Bits != "" {
		bits, err := strconv.Atoi(config.Defaults.Bits)
		if err != nil {
			return err
		}
		if gf.bits == certkit.DefaultRSABits {
			gf.bits = bits
		}
	}

	if config.Defaults.Curve != "" && gf.curve == certkit.DefaultCurve {
		gf.curve = config.Defaults.Curve
	}

	if config.Defaults.ValidityDays != "" {
		days, err := strconv.Atoi(config.Defaults.ValidityDays)
		if err != nil {
			return err
		}
		if gf.validityDays == defValidityDaysInt {
			gf.validityDays = days
		}
	}

	if config.Defaults.DHBits != "" {
		bits, err := strconv.Atoi(config.Defaults.DHBits)
		if err != nil {
			return err
		}
		if gf.dhBits == certkit.MinDHBits {
			gf.dhBits = bits
		}
	}

	if config.RawOutput != "" {
		rawOutput, err := strconv.ParseBool(config.RawOutput)
		if err != nil {
			return err
		}
		// check for config file value or flag input value is true
		RawOutput = rawOutput || RawOutput
	}

	return nil
}
