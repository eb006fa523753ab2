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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// SummaryCache remembers the exit states computed for blocks, keyed by
// Reducer.SummaryKey. It is safe for concurrent use.
type SummaryCache struct {
	numHits   uint64
	numMisses uint64

	entries *lru.Cache
}

// blockSummary is what the cache stores per key.
type blockSummary struct {
	block string
	exits []*AnalysisState
}

// NewSummaryCache creates a cache holding at most size summaries.
// A non-positive size selects the default.
func NewSummaryCache(size int) (*SummaryCache, error) {
	if size <= 0 {
		size = defaultSummaryCacheSize
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "could not create summary cache")
	}
	return &SummaryCache{entries: entries}, nil
}

// Put records the exit states of block for key.
func (c *SummaryCache) Put(key common.Hash, block Block, exits []*AnalysisState) {
	cp := make([]*AnalysisState, len(exits))
	copy(cp, exits)
	if evicted := c.entries.Add(key, blockSummary{block: block.Name(), exits: cp}); evicted {
		log.Debug("Evicted block summary", "size", c.entries.Len())
	}
}

// Get returns the exit states stored for key.
func (c *SummaryCache) Get(key common.Hash) ([]*AnalysisState, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		c.recordMiss()
		return nil, false
	}
	c.recordHit()
	sum := v.(blockSummary)
	log.Trace("Reusing block summary", "block", sum.block, "key", key)
	exits := make([]*AnalysisState, len(sum.exits))
	copy(exits, sum.exits)
	return exits, true
}

// Len returns the number of cached summaries.
func (c *SummaryCache) Len() int {
	return c.entries.Len()
}

func (c *SummaryCache) recordHit() {
	atomic.AddUint64(&c.numHits, 1)
}

func (c *SummaryCache) recordMiss() {
	atomic.AddUint64(&c.numMisses, 1)
}

func (c *SummaryCache) NumHits() uint64 {
	return atomic.LoadUint64(&c.numHits)
}

func (c *SummaryCache) NumMisses() uint64 {
	return atomic.LoadUint64(&c.numMisses)
}
