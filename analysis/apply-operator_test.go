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

	"github.com/google/go-cmp/cmp"
)

func edgeString(e AbstractEdge) string {
	switch e := e.(type) {
	case *ValueDiff:
		return e.String()
	case EmptyEdge:
		return e.String()
	}
	return "<nil>"
}

func TestProject(t *testing.T) {
	var op ApplyOperator
	parent := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1), locG: Int64Value(1), locH: Int64Value(2)})

	unknownG := parent.AssignConstant(locG, Unknown, intType)

	tests := []struct {
		name   string
		parent *AnalysisState
		child  *AnalysisState
		want   string
	}{
		{"unchanged", nil, parent, "{}"},
		{"only locals changed", nil, parent.AssignConstant(locX, Int64Value(5), intType).AssignConstant(locA, Int64Value(1), intType), "{}"},
		{"global changed", nil, parent.AssignConstant(locG, Int64Value(3), intType), "{g=3 (int)}"},
		{"global forgotten", nil, parent.Forget(locH), "{h=UNKNOWN (int)}"},
		{"global added", nil, parent.AssignConstant(GlobalLocation("k"), Int64Value(0), intType), "{k=0 (int)}"},
		{"global bound to unknown", nil, unknownG, "{g=UNKNOWN (int)}"},
		{"global bound to unknown then forgotten", unknownG, unknownG.Forget(locG), "{g=UNKNOWN (int)}"},
		{"unknown global kept", unknownG, unknownG.AssignConstant(locX, Int64Value(7), intType), "{}"},
	}
	for _, tt := range tests {
		from := parent
		if tt.parent != nil {
			from = tt.parent
		}
		got := op.Project(from, tt.child)
		if diff := cmp.Diff(tt.want, edgeString(got)); diff != "" {
			t.Errorf("%s: unexpected edge (-want +got):\n%s", tt.name, diff)
		}
		if tt.want == "{}" && !got.IsEmpty() {
			t.Errorf("%s: edge is not empty", tt.name)
		}
	}
}

func TestProjectThenApplyTo(t *testing.T) {
	var op ApplyOperator
	parent := stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(1), locH: Int64Value(2)})
	child := parent.AssignConstant(locG, Int64Value(3), intType).Forget(locH)

	diff, ok := op.Project(parent, child).(*ValueDiff)
	if !ok {
		t.Fatal("expected a value diff")
	}
	if got := diff.ApplyTo(parent); !got.Equal(child) {
		t.Errorf("applying the projection gave %v, want %v", got, child)
	}
}

func TestProjectForgottenUnknownGlobal(t *testing.T) {
	var op ApplyOperator
	parent := stateOf(nil, map[MemoryLocation]Value{locX: Int64Value(1)}).AssignConstant(locG, Unknown, intType)
	edge := op.Project(parent, parent.Forget(locG))
	diff, ok := edge.(*ValueDiff)
	if !ok {
		t.Fatalf("got edge %v, want a diff forgetting g", edgeString(edge))
	}
	other := stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(5)})
	if got := diff.ApplyTo(other); got.Contains(locG) {
		t.Errorf("applying the edge kept g: %v", got)
	}
}

func TestApply(t *testing.T) {
	var op ApplyOperator
	edge := NewValueDiff(Binding{Loc: locG, TypedValue: TypedValue{Value: Int64Value(9), Type: intType}})
	s2 := WithEdge(stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(1), locA: Int64Value(4)}), edge)

	s1 := stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(1), locX: Int64Value(7)})
	res, ok := op.Apply(s1, s2)
	if !ok {
		t.Fatal("states agreeing outside the stack could not be combined")
	}
	if res.AnalysisState != s1 || !EdgesEqual(res.Edge(), edge) {
		t.Errorf("got %v", res)
	}

	for _, s := range []*AnalysisState{
		stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(2)}),
		stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(1), locH: Int64Value(0)}),
		NewAnalysisState(nil),
	} {
		if _, ok := op.Apply(s, s2); ok {
			t.Errorf("%v and %v disagree on globals but were combined", s, s2.AnalysisState)
		}
	}
}

func TestApplyOperatorPredicates(t *testing.T) {
	var op ApplyOperator
	if !op.IsInvariantToEffects(NewAnalysisState(nil)) {
		t.Error("empty state should be invariant")
	}
	if op.IsInvariantToEffects(stateOf(nil, map[MemoryLocation]Value{locG: Int64Value(1)})) {
		t.Error("non-empty state should not be invariant")
	}
	if !op.CanBeAnythingApplied() {
		t.Error("CanBeAnythingApplied should hold")
	}
}

func TestJoinEdges(t *testing.T) {
	bind := func(loc MemoryLocation, v Value) Binding {
		return Binding{Loc: loc, TypedValue: TypedValue{Value: v, Type: intType}}
	}
	e1 := NewValueDiff(bind(locG, Int64Value(1)), bind(locH, Int64Value(2)))
	e2 := NewValueDiff(bind(locG, Int64Value(1)), bind(GlobalLocation("k"), Int64Value(3)))

	tests := []struct {
		a, b AbstractEdge
		want string
	}{
		{EmptyEdge{}, EmptyEdge{}, "{}"},
		{e1, e1, "{g=1 (int), h=2 (int)}"},
		{e1, e2, "{g=1 (int), h=UNKNOWN (int), k=UNKNOWN (int)}"},
		{e1, EmptyEdge{}, "{g=UNKNOWN (int), h=UNKNOWN (int)}"},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, edgeString(JoinEdges(tt.a, tt.b))); diff != "" {
			t.Errorf("JoinEdges(%v, %v) (-want +got):\n%s", edgeString(tt.a), edgeString(tt.b), diff)
		}
	}
}
