// Copyright 2018 MPI-SWS and Valentin Wuestholz

// This file is part of Valan.
//
// Valan is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Valan is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Valan.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads the analysis configuration file.
package config

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Config struct {
	Domain    DomainConfig    `toml:"domain"`
	Merge     MergeConfig     `toml:"merge"`
	Nondet    NondetConfig    `toml:"nondet"`
	Summaries SummariesConfig `toml:"summaries"`
	Log       LogConfig       `toml:"log"`
}

type DomainConfig struct {
	MachineModel   string `toml:"machine_model"`
	SymbolicValues bool   `toml:"symbolic_values"`
}

type MergeConfig struct {
	// Mode is either "sep" (overwrite) or "join".
	Mode string `toml:"mode"`
}

type NondetConfig struct {
	// Strategy is one of "default", "replay" and "random".
	Strategy   string `toml:"strategy"`
	ReplayFile string `toml:"replay_file"`
	// OnMissing is either "unknown" or "reject".
	OnMissing string `toml:"on_missing"`
	Seed      int64  `toml:"seed"`
	Prefix    string `toml:"prefix"`
}

type SummariesConfig struct {
	CacheSize int `toml:"cache_size"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

var defaultConfig = Config{
	Domain: DomainConfig{
		MachineModel: "LINUX64",
	},
	Merge: MergeConfig{
		Mode: "sep",
	},
	Nondet: NondetConfig{
		Strategy:  "default",
		OnMissing: "unknown",
		Prefix:    "__VERIFIER_nondet_",
	},
	Summaries: SummariesConfig{
		CacheSize: 1024,
	},
	Log: LogConfig{
		Level: "info",
	},
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return defaultConfig
}

// Load decodes the file at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "could not load %s", path)
	}
	return cfg, checkUndecoded(path, meta)
}

// Parse decodes a configuration from a string on top of the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, checkUndecoded("<input>", meta)
}

func checkUndecoded(name string, meta toml.MetaData) error {
	keys := meta.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return errors.Errorf("%s: unknown configuration keys: %s", name, strings.Join(names, ", "))
}
