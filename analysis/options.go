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
	"github.com/pkg/errors"

	"github.com/practical-formal-methods/valan/config"
	"github.com/practical-formal-methods/valan/machine"
)

// Options configure a Domain.
type Options struct {
	Model     *machine.Model
	MergeMode MergeMode

	Strategy     NondetStrategy
	OnMissing    MissingReplayPolicy
	ReplayFile   string
	Seed         int64
	NondetPrefix string

	SymbolicValues   bool
	SummaryCacheSize int
}

func DefaultOptions() Options {
	return Options{
		Model:            machine.Linux64(),
		MergeMode:        MergeSep,
		Strategy:         StrategyDefault,
		OnMissing:        FallbackToUnknown,
		NondetPrefix:     defaultNondetPrefix,
		SymbolicValues:   defaultSymbolicValues,
		SummaryCacheSize: defaultSummaryCacheSize,
	}
}

// OptionsFromConfig validates cfg and converts it into options.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	opts := DefaultOptions()

	model, err := machine.ByName(cfg.Domain.MachineModel)
	if err != nil {
		return Options{}, errors.Wrap(err, "domain.machine_model")
	}
	opts.Model = model
	opts.SymbolicValues = cfg.Domain.SymbolicValues

	if opts.MergeMode, err = ParseMergeMode(cfg.Merge.Mode); err != nil {
		return Options{}, errors.Wrap(err, "merge.mode")
	}
	if opts.Strategy, err = ParseNondetStrategy(cfg.Nondet.Strategy); err != nil {
		return Options{}, errors.Wrap(err, "nondet.strategy")
	}
	if opts.OnMissing, err = ParseMissingReplayPolicy(cfg.Nondet.OnMissing); err != nil {
		return Options{}, errors.Wrap(err, "nondet.on_missing")
	}
	if opts.Strategy == StrategyReplay && cfg.Nondet.ReplayFile == "" {
		return Options{}, errors.New("nondet.replay_file: required by the replay strategy")
	}
	opts.ReplayFile = cfg.Nondet.ReplayFile
	opts.Seed = cfg.Nondet.Seed
	if cfg.Nondet.Prefix != "" {
		opts.NondetPrefix = cfg.Nondet.Prefix
	}
	if cfg.Summaries.CacheSize > 0 {
		opts.SummaryCacheSize = cfg.Summaries.CacheSize
	}
	return opts, nil
}
