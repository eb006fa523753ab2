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

// ApplyOperator computes and applies block summaries expressed as abstract
// edges.
type ApplyOperator struct{}

// Apply combines a state with an edge state. It succeeds only if both
// states hold the same bindings for all locations outside the stack; the
// result is s1 carrying the edge of s2.
func (ApplyOperator) Apply(s1 *AnalysisState, s2 *EdgeState) (*EdgeState, bool) {
	if !agreeOutsideStack(s1, s2.AnalysisState) {
		return nil, false
	}
	return WithEdge(s1, s2.edge), true
}

// agreeOutsideStack reports whether no binding of a global location is in
// the symmetric difference of the bindings of s1 and s2.
func agreeOutsideStack(s1, s2 *AnalysisState) bool {
	agree := true
	check := func(a, b *AnalysisState) {
		a.each(func(loc MemoryLocation, tv TypedValue) {
			if !agree || loc.IsOnFunctionStack() {
				return
			}
			otv, ok := b.constants.Get(loc)
			agree = ok && tv.Equal(otv)
		})
	}
	check(s1, s2)
	check(s2, s1)
	return agree
}

// Project computes the edge from parent to child: the global locations
// whose binding changed, with the child's binding, and the global
// locations child forgot, as Unknown with the parent's type.
func (ApplyOperator) Project(parent, child *AnalysisState) AbstractEdge {
	diff := newValueMap()
	child.each(func(loc MemoryLocation, tv TypedValue) {
		if loc.IsOnFunctionStack() {
			return
		}
		if ptv, ok := parent.constants.Get(loc); !ok || !ptv.Equal(tv) {
			diff = diff.Set(loc, tv)
		}
	})
	parent.each(func(loc MemoryLocation, tv TypedValue) {
		if loc.IsOnFunctionStack() {
			return
		}
		if _, ok := child.constants.Get(loc); !ok {
			diff = diff.Set(loc, TypedValue{Value: Unknown, Type: tv.Type})
		}
	})
	if diff.Len() == 0 {
		return EmptyEdge{}
	}
	return &ValueDiff{diff: diff}
}

// IsInvariantToEffects reports whether the summary of s is the identity.
func (ApplyOperator) IsInvariantToEffects(s *AnalysisState) bool {
	return s.Size() == 0
}

// CanBeAnythingApplied reports whether any state is a valid left operand
// of Apply.
func (ApplyOperator) CanBeAnythingApplied() bool {
	return true
}
