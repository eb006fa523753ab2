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

package analysis

import (
	"testing"

	"github.com/practical-formal-methods/valan/config"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Parse(`
[domain]
machine_model = "LINUX32"
symbolic_values = true

[merge]
mode = "join"

[nondet]
strategy = "random"
seed = 9

[summaries]
cache_size = 16
`)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Model.String() != "LINUX32" || !opts.SymbolicValues || opts.MergeMode != MergeJoin ||
		opts.Strategy != StrategyRandom || opts.Seed != 9 || opts.SummaryCacheSize != 16 ||
		opts.NondetPrefix != defaultNondetPrefix {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestOptionsFromConfigRejects(t *testing.T) {
	for _, src := range []string{
		"[domain]\nmachine_model = \"PDP11\"",
		"[merge]\nmode = \"widen\"",
		"[nondet]\nstrategy = \"fuzz\"",
		"[nondet]\non_missing = \"panic\"",
		"[nondet]\nstrategy = \"replay\"",
	} {
		cfg, err := config.Parse(src)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		if _, err := OptionsFromConfig(cfg); err == nil {
			t.Errorf("%q: accepted", src)
		}
	}
}

func TestDefaultOptionsMatchDefaultConfig(t *testing.T) {
	opts, err := OptionsFromConfig(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultOptions()
	if opts.Model.String() != def.Model.String() || opts.MergeMode != def.MergeMode ||
		opts.Strategy != def.Strategy || opts.OnMissing != def.OnMissing ||
		opts.NondetPrefix != def.NondetPrefix || opts.SummaryCacheSize != def.SummaryCacheSize {
		t.Errorf("got %+v, want %+v", opts, def)
	}
}
