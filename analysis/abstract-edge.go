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
	"fmt"
	"strings"
)

// AbstractEdge is the effect of a block on the memory outside the stack.
// It is either EmptyEdge or a *ValueDiff.
type AbstractEdge interface {
	IsEmpty() bool
	isAbstractEdge()
}

// EmptyEdge is the edge of a block without visible effects.
type EmptyEdge struct{}

func (EmptyEdge) IsEmpty() bool   { return true }
func (EmptyEdge) isAbstractEdge() {}
func (EmptyEdge) String() string  { return "{}" }

// ValueDiff maps the locations changed by a block to their new values.
// Unknown entries stand for locations the block forgot.
type ValueDiff struct {
	diff *valueMap
}

func (*ValueDiff) isAbstractEdge() {}

// NewValueDiff builds a diff from a list of bindings.
func NewValueDiff(bs ...Binding) *ValueDiff {
	m := newValueMap()
	for _, b := range bs {
		m = m.Set(b.Loc, b.TypedValue)
	}
	return &ValueDiff{diff: m}
}

func (d *ValueDiff) IsEmpty() bool {
	return d.diff.Len() == 0
}

func (d *ValueDiff) Len() int {
	return d.diff.Len()
}

// Get returns the entry for loc.
func (d *ValueDiff) Get(loc MemoryLocation) (TypedValue, bool) {
	return d.diff.Get(loc)
}

// Entries returns the entries in location order.
func (d *ValueDiff) Entries() []Binding {
	bs := make([]Binding, 0, d.diff.Len())
	eachBinding(d.diff, func(loc MemoryLocation, tv TypedValue) {
		bs = append(bs, Binding{Loc: loc, TypedValue: tv})
	})
	return bs
}

// ApplyTo replays the diff on s.
func (d *ValueDiff) ApplyTo(s *AnalysisState) *AnalysisState {
	constants := s.constants
	eachBinding(d.diff, func(loc MemoryLocation, tv TypedValue) {
		if IsUnknown(tv.Value) {
			constants = constants.Delete(loc)
		} else {
			constants = constants.Set(loc, tv)
		}
	})
	return s.withConstants(constants)
}

func (d *ValueDiff) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, b := range d.Entries() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v=%v", b.Loc, b.TypedValue)
	}
	sb.WriteString("}")
	return sb.String()
}

// EdgesEqual compares two edges by content.
func EdgesEqual(a, b AbstractEdge) bool {
	da, aok := a.(*ValueDiff)
	db, bok := b.(*ValueDiff)
	switch {
	case !aok && !bok:
		return true
	case aok && bok:
		return mapsEqual(da.diff, db.diff)
	}
	return false
}

// JoinEdges joins two edges: entries present in only one diff become
// Unknown, entries present in both are kept if equal and become Unknown
// otherwise. Like AnalysisState.Join it panics on conflicting types.
func JoinEdges(e1, e2 AbstractEdge) AbstractEdge {
	d1, ok1 := e1.(*ValueDiff)
	d2, ok2 := e2.(*ValueDiff)
	if !ok1 && !ok2 {
		return EmptyEdge{}
	}
	joined := newValueMap()
	if ok1 {
		eachBinding(d1.diff, func(loc MemoryLocation, tv TypedValue) {
			var other TypedValue
			found := false
			if ok2 {
				other, found = d2.diff.Get(loc)
			}
			if !found {
				joined = joined.Set(loc, TypedValue{Value: Unknown, Type: tv.Type})
				return
			}
			jtv, _ := joinTypedValues(loc, tv, other)
			joined = joined.Set(loc, jtv)
		})
	}
	if ok2 {
		eachBinding(d2.diff, func(loc MemoryLocation, tv TypedValue) {
			if _, done := joined.Get(loc); !done {
				joined = joined.Set(loc, TypedValue{Value: Unknown, Type: tv.Type})
			}
		})
	}
	return &ValueDiff{diff: joined}
}

// EdgeState is an analysis state annotated with the abstract edge leading
// to it.
type EdgeState struct {
	*AnalysisState
	edge AbstractEdge
}

// WithEdge attaches edge to s. A nil edge is the empty edge.
func WithEdge(s *AnalysisState, edge AbstractEdge) *EdgeState {
	if edge == nil {
		edge = EmptyEdge{}
	}
	return &EdgeState{AnalysisState: s, edge: edge}
}

// Edge returns the attached edge.
func (s *EdgeState) Edge() AbstractEdge {
	return s.edge
}

// Equal compares states and edges.
func (s *EdgeState) Equal(o *EdgeState) bool {
	return s == o || (s.AnalysisState.Equal(o.AnalysisState) && EdgesEqual(s.edge, o.edge))
}

func (s *EdgeState) String() string {
	return fmt.Sprintf("%v with edge %v", s.AnalysisState, s.edge)
}
