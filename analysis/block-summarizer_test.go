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

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestReduceExpand(t *testing.T) {
	var r Reducer
	block := NewBlockContext("loop", "main::x", "g")
	entry := stateOf(nil, map[MemoryLocation]Value{
		locX:               Int64Value(0),
		locX.WithOffset(8): Int64Value(1),
		locG:               Int64Value(10),
		locY:               Int64Value(5),
		locH:               Int64Value(6),
	})

	reduced := r.Reduce(entry, block)
	if diff := cmp.Diff("[g=10 (int), main::x=0 (int), main::x/8=1 (int)]", reduced.String()); diff != "" {
		t.Errorf("unexpected reduced state (-want +got):\n%s", diff)
	}
	if back := r.Expand(entry, block, reduced); !back.Equal(entry) {
		t.Errorf("expand(reduce(s)) = %v, want %v", back, entry)
	}

	exit := reduced.AssignConstant(locX, Int64Value(10), intType).Forget(locG)
	expanded := r.Expand(entry, block, exit)
	if diff := cmp.Diff("[h=6 (int), main::x=10 (int), main::x/8=1 (int), main::y=5 (int)]", expanded.String()); diff != "" {
		t.Errorf("unexpected expanded state (-want +got):\n%s", diff)
	}
}

func TestBlockVariablesAreSorted(t *testing.T) {
	block := NewBlockContext("b", "z", "main::x", "a", "z")
	if diff := cmp.Diff([]string{"a", "main::x", "z"}, block.Variables()); diff != "" {
		t.Errorf("unexpected variables (-want +got):\n%s", diff)
	}
}

func TestReduceExpandPrecision(t *testing.T) {
	var r Reducer
	block := NewBlockContext("loop", "main::x")
	prec := TrackOnly(locX, locY.WithOffset(4), locG)

	reduced := r.ReducePrecision(prec, block)
	if got := reduced.String(); got != "{main::x}" {
		t.Errorf("reduced precision = %s", got)
	}
	if r.ReducePrecision(TrackAll(), block).String() != "*" {
		t.Error("reducing the full precision lost locations")
	}

	expanded := r.ExpandPrecision(prec, block, TrackOnly(locX, locH))
	for _, loc := range []MemoryLocation{locX, locY, locG, locH} {
		if !expanded.IsTracking(loc) {
			t.Errorf("expanded precision does not track %v", loc)
		}
	}
	if expanded.IsTracking(locA) {
		t.Errorf("expanded precision tracks %v", locA)
	}
}

func TestRestrict(t *testing.T) {
	s := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1), locX.WithOffset(4): Int64Value(2), locG: Int64Value(3)})
	got := s.Restrict(TrackOnly(locX)).String()
	if diff := cmp.Diff("[main::x=1 (int), main::x/4=2 (int)]", got); diff != "" {
		t.Errorf("unexpected state (-want +got):\n%s", diff)
	}
}

func TestSummaryKey(t *testing.T) {
	var r Reducer
	block := NewBlockContext("loop", "main::x")
	s1 := r.Reduce(stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1), locY: Int64Value(1)}), block)
	s2 := r.Reduce(stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1), locY: Int64Value(2)}), block)

	if r.SummaryKey(block, s1, TrackAll()) != r.SummaryKey(block, s2, TrackAll()) {
		t.Error("states differing outside the block have different keys")
	}
	if r.SummaryKey(block, s1, TrackAll()) == r.SummaryKey(NewBlockContext("other", "main::x"), s1, TrackAll()) {
		t.Error("different blocks share a key")
	}
	if r.SummaryKey(block, s1, TrackAll()) == r.SummaryKey(block, s1, TrackOnly(locX)) {
		t.Error("different precisions share a key")
	}
}

func TestSummaryCache(t *testing.T) {
	c, err := NewSummaryCache(1)
	if err != nil {
		t.Fatal(err)
	}
	block := NewBlockContext("b")
	k1, k2 := common.HexToHash("0x01"), common.HexToHash("0x02")
	exits := []*AnalysisState{NewAnalysisState(nil)}

	c.Put(k1, block, exits)
	if got, ok := c.Get(k1); !ok || len(got) != 1 || got[0] != exits[0] {
		t.Errorf("Get(k1) = %v, %v", got, ok)
	}
	c.Put(k2, block, exits)
	if _, ok := c.Get(k1); ok {
		t.Error("k1 was not evicted")
	}
	if c.Len() != 1 || c.NumHits() != 1 || c.NumMisses() != 1 {
		t.Errorf("len=%d hits=%d misses=%d", c.Len(), c.NumHits(), c.NumMisses())
	}
}

func TestDomainSummarizeReusesExits(t *testing.T) {
	d, err := NewDomain(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	block := NewBlockContext("inc", "main::x")
	calls := 0
	analyze := func(reduced *AnalysisState, _ *Precision) ([]*AnalysisState, error) {
		calls++
		v, _ := AsIntegral(reduced.ValueFor(locX), intType)
		return []*AnalysisState{reduced.AssignConstant(locX, Int64Value(v.Int64()+1), intType)}, nil
	}

	s1 := d.InitialState().AssignConstant(locX, Int64Value(1), intType).AssignConstant(locG, Int64Value(7), intType)
	s2 := d.InitialState().AssignConstant(locX, Int64Value(1), intType).AssignConstant(locG, Int64Value(8), intType)

	for _, tt := range []struct {
		entry *AnalysisState
		want  string
	}{
		{s1, "[g=7 (int), main::x=2 (int)]"},
		{s2, "[g=8 (int), main::x=2 (int)]"},
	} {
		exits, err := d.Summarize(block, tt.entry, TrackAll(), analyze)
		if err != nil {
			t.Fatal(err)
		}
		if len(exits) != 1 || exits[0].String() != tt.want {
			t.Errorf("got %v, want %s", exits, tt.want)
		}
	}
	if calls != 1 || d.NumSummarized() != 1 || d.NumReused() != 1 {
		t.Errorf("calls=%d summarized=%d reused=%d", calls, d.NumSummarized(), d.NumReused())
	}
}

func TestDomainSummarizeError(t *testing.T) {
	d, err := NewDomain(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	_, err = d.Summarize(NewBlockContext("b"), d.InitialState(), TrackAll(), func(*AnalysisState, *Precision) ([]*AnalysisState, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped %v", err, boom)
	}
	if d.NumErrors() != 1 || d.Summaries.Len() != 0 {
		t.Errorf("errors=%d cached=%d", d.NumErrors(), d.Summaries.Len())
	}
}
