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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse(`
[merge]
mode = "join"

[nondet]
strategy = "replay"
replay_file = "testcase.xml"
`)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Merge.Mode = "join"
	want.Nondet.Strategy = "replay"
	want.Nondet.ReplayFile = "testcase.xml"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(`
[nondet]
stratgy = "random"
`)
	if err == nil || !strings.Contains(err.Error(), "nondet.stratgy") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valan.toml")
	if err := os.WriteFile(path, []byte("[summaries]\ncache_size = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Summaries.CacheSize != 7 || cfg.Domain.MachineModel != "LINUX64" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
