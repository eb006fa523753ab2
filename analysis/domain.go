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
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

// Domain bundles the operators of the value analysis for one run. All
// states created by a domain share its nondeterminism counter.
type Domain struct {
	numSummarized uint64
	numReused     uint64
	numErrors     uint64
	nanos         int64

	Options   Options
	Counter   *NondetCounter
	Table     ReplayTable
	Resolver  NondetResolver
	Merge     MergeOperator
	Reducer   Reducer
	Apply     ApplyOperator
	Summaries *SummaryCache
}

// NewDomain creates a domain for opts. The replay document, if any, is
// loaded once here.
func NewDomain(opts Options) (*Domain, error) {
	if opts.Model == nil {
		return nil, errors.New("no machine model")
	}
	if opts.NondetPrefix == "" {
		opts.NondetPrefix = defaultNondetPrefix
	}
	summaries, err := NewSummaryCache(opts.SummaryCacheSize)
	if err != nil {
		return nil, err
	}
	d := &Domain{
		Options:   opts,
		Counter:   new(NondetCounter),
		Table:     NewReplayTable(nil),
		Merge:     NewMergeOperator(opts.MergeMode),
		Summaries: summaries,
	}
	switch opts.Strategy {
	case StrategyReplay:
		d.Table = LoadReplayTable(opts.ReplayFile)
		d.Resolver = NewReplayResolver(opts.NondetPrefix, d.Table, d.Counter, opts.OnMissing, opts.Model)
	case StrategyRandom:
		d.Resolver = NewRandomResolver(opts.NondetPrefix, NewSampler(opts.Seed, opts.Model))
	default:
		d.Resolver = UnknownResolver{}
	}
	log.Debug("Created value domain", "model", opts.Model, "merge", opts.MergeMode, "nondet", opts.Strategy, "replay", d.Table.Len())
	return d, nil
}

// InitialState returns the state tracking nothing.
func (d *Domain) InitialState() *AnalysisState {
	return NewAnalysisState(d.Counter)
}

// Evaluator returns an evaluator using the domain's model and resolver.
func (d *Domain) Evaluator() Evaluator {
	return Evaluator{
		Model:          d.Options.Model,
		Resolver:       d.Resolver,
		SymbolicValues: d.Options.SymbolicValues,
	}
}

func (d *Domain) NewStrengthener(session SolverSession) *Strengthener {
	return NewStrengthener(session)
}

// BlockAnalysis computes the exit states of a block from a reduced entry
// state and precision.
type BlockAnalysis func(reduced *AnalysisState, prec *Precision) ([]*AnalysisState, error)

// Summarize returns the exit states of block entered in entry, expanded
// back into entry. Exit states are computed by analyze on a miss and
// reused for every later entry that reduces to the same state.
func (d *Domain) Summarize(block Block, entry *AnalysisState, prec *Precision, analyze BlockAnalysis) ([]*AnalysisState, error) {
	start := time.Now()
	defer func() { atomic.AddInt64(&d.nanos, int64(time.Since(start))) }()

	reduced := d.Reducer.Reduce(entry, block)
	rprec := d.Reducer.ReducePrecision(prec, block)
	key := d.Reducer.SummaryKey(block, reduced, rprec)

	exits, ok := d.Summaries.Get(key)
	if ok {
		atomic.AddUint64(&d.numReused, 1)
	} else {
		var err error
		exits, err = analyze(reduced, rprec)
		if err != nil {
			atomic.AddUint64(&d.numErrors, 1)
			return nil, errors.Wrapf(err, "block %s", block.Name())
		}
		d.Summaries.Put(key, block, exits)
		atomic.AddUint64(&d.numSummarized, 1)
	}
	expanded := make([]*AnalysisState, 0, len(exits))
	for _, exit := range exits {
		expanded = append(expanded, d.Reducer.Expand(entry, block, exit))
	}
	return expanded, nil
}

func (d *Domain) NumSummarized() uint64 {
	return atomic.LoadUint64(&d.numSummarized)
}

func (d *Domain) NumReused() uint64 {
	return atomic.LoadUint64(&d.numReused)
}

func (d *Domain) NumErrors() uint64 {
	return atomic.LoadUint64(&d.numErrors)
}

// Time returns the time spent in Summarize.
func (d *Domain) Time() time.Duration {
	return time.Duration(atomic.LoadInt64(&d.nanos))
}
