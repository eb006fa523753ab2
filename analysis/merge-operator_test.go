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

import "testing"

func TestParseMergeMode(t *testing.T) {
	for in, want := range map[string]MergeMode{"sep": MergeSep, "overwrite": MergeSep, "": MergeSep, "join": MergeJoin} {
		got, err := ParseMergeMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMergeMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMergeMode("widen"); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestMergeSep(t *testing.T) {
	m := NewMergeOperator(MergeSep)
	s := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1)})
	reached := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(2)})
	if m.Merge(s, reached) != reached {
		t.Error("sep merge did not return the reached state")
	}
}

func TestMergeJoin(t *testing.T) {
	m := NewMergeOperator(MergeJoin)
	s := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1), locG: Int64Value(1)})
	reached := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(2), locG: Int64Value(1)})

	merged := m.Merge(s, reached)
	if !IsUnknown(merged.ValueFor(locX)) || merged.ValueFor(locG).String() != "1" {
		t.Errorf("unexpected merge %v", merged)
	}
	if again := m.Merge(s, merged); again != merged {
		t.Errorf("merging into a covering state went up: %v", again)
	}
}

func TestMergeEdgeStates(t *testing.T) {
	m := NewMergeOperator(MergeJoin)
	edge := NewValueDiff(Binding{Loc: locG, TypedValue: TypedValue{Value: Int64Value(3), Type: intType}})
	base := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1)})

	s := WithEdge(base, edge)
	reached := WithEdge(stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1)}), edge)
	if got := m.MergeEdgeStates(s, reached); got != reached {
		t.Errorf("equal edge states merged into %v", got)
	}

	other := WithEdge(base, EmptyEdge{})
	merged := m.MergeEdgeStates(other, reached)
	d, ok := merged.Edge().(*ValueDiff)
	if !ok {
		t.Fatalf("merged edge is %v", merged.Edge())
	}
	if tv, _ := d.Get(locG); !IsUnknown(tv.Value) {
		t.Errorf("edge entry of one side only survived: %v", d)
	}

	if got := NewMergeOperator(MergeSep).MergeEdgeStates(other, reached); got != reached {
		t.Errorf("sep merge returned %v", got)
	}
}

func TestIsCovered(t *testing.T) {
	s := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1), locG: Int64Value(2)})
	reached := []*AnalysisState{
		stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(2)}),
		stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(2)}),
	}
	if !IsCovered(s, reached) {
		t.Error("state should be covered by the second reached state")
	}
	if IsCovered(s, reached[:1]) {
		t.Error("state should not be covered by the first reached state")
	}
	if IsCovered(s, nil) {
		t.Error("nothing covers a state without reached states")
	}
}
