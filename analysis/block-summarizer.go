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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Block is a region of the program that is analyzed once per reduced entry
// state and reused across calling contexts.
type Block interface {
	// Name identifies the block, e.g. the function it belongs to.
	Name() string
	// Variables returns the qualified names of the variables the block
	// references.
	Variables() []string
}

// BlockContext is a Block given by an explicit variable set.
type BlockContext struct {
	name string
	vars map[string]struct{}
}

// NewBlockContext returns a block named name referencing vars.
func NewBlockContext(name string, vars ...string) *BlockContext {
	b := &BlockContext{name: name, vars: make(map[string]struct{}, len(vars))}
	for _, v := range vars {
		b.vars[v] = struct{}{}
	}
	return b
}

func (b *BlockContext) Name() string {
	return b.name
}

func (b *BlockContext) Variables() []string {
	vars := maps.Keys(b.vars)
	slices.Sort(vars)
	return vars
}

// blockVariables returns the variable set of a block.
func blockVariables(b Block) map[string]struct{} {
	if bc, ok := b.(*BlockContext); ok {
		return bc.vars
	}
	vars := map[string]struct{}{}
	for _, v := range b.Variables() {
		vars[v] = struct{}{}
	}
	return vars
}

func inBlock(vars map[string]struct{}, loc MemoryLocation) bool {
	_, ok := vars[loc.QualifiedName()]
	return ok
}

// Reducer implements the reduce and expand operators used to analyze
// blocks independently of their calling context.
type Reducer struct{}

// Reduce removes every binding whose variable is not referenced by block.
// The result only depends on the part of the state the block can observe,
// which makes it usable as a cache key.
func (Reducer) Reduce(expanded *AnalysisState, block Block) *AnalysisState {
	vars := blockVariables(block)
	return expanded.ForgetAll(func(loc MemoryLocation) bool {
		return !inBlock(vars, loc)
	})
}

// Expand combines the state before entering block with the state reached
// at the block exit. Bindings of variables outside block are taken from
// root; bindings of variables inside block are taken from reduced only.
func (Reducer) Expand(root *AnalysisState, block Block, reduced *AnalysisState) *AnalysisState {
	vars := blockVariables(block)
	expanded := reduced.constants
	root.each(func(loc MemoryLocation, tv TypedValue) {
		if !inBlock(vars, loc) {
			expanded = expanded.Set(loc, tv)
		}
	})
	ns := reduced.withConstants(expanded)
	ns.randomChoice = root.randomChoice || reduced.randomChoice
	return ns
}

// ReducePrecision restricts a precision to the variables of block.
func (Reducer) ReducePrecision(p *Precision, block Block) *Precision {
	vars := blockVariables(block)
	return p.Filter(func(loc MemoryLocation) bool {
		return inBlock(vars, loc)
	})
}

// ExpandPrecision joins the precision before entering block with the
// precision at its exit, so no location loses its eligibility.
func (Reducer) ExpandPrecision(root *Precision, block Block, reduced *Precision) *Precision {
	return root.Join(reduced)
}

// RebuildAfterCall delegates to the state.
func (Reducer) RebuildAfterCall(root, entry, expanded *AnalysisState, exit FunctionExit) *AnalysisState {
	return expanded.RebuildAfterCall(root, entry, exit)
}

// SummaryKey returns the cache key of a block analyzed from a reduced state
// with a reduced precision.
func (Reducer) SummaryKey(block Block, reduced *AnalysisState, prec *Precision) common.Hash {
	fp := reduced.Fingerprint()
	return crypto.Keccak256Hash([]byte(block.Name()), []byte{0}, fp[:], []byte(prec.String()))
}
