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

	"github.com/benbjohnson/immutable"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/practical-formal-methods/valan/machine"
)

// TypedValue is a value together with the static type it was stored with.
type TypedValue struct {
	Value Value
	Type  machine.Type
}

// Equal compares value and type.
func (tv TypedValue) Equal(o TypedValue) bool {
	return tv.Type == o.Type && ValuesEqual(tv.Value, o.Value)
}

func (tv TypedValue) String() string {
	return fmt.Sprintf("%v (%v)", tv.Value, tv.Type)
}

// Binding is one entry of an analysis state.
type Binding struct {
	Loc MemoryLocation
	TypedValue
}

type valueMap = immutable.SortedMap[MemoryLocation, TypedValue]

func newValueMap() *valueMap {
	return immutable.NewSortedMap[MemoryLocation, TypedValue](locationComparer{})
}

// AnalysisState maps memory locations to their abstract values.
// A state is never modified after construction: every update returns a new
// state sharing structure with the old one, so states can be handed to
// concurrent workers freely.
type AnalysisState struct {
	constants *valueMap
	// counter is shared by all states of one analysis run.
	counter *NondetCounter
	// randomChoice is set once a value was drawn by random sampling.
	randomChoice bool
}

// NewAnalysisState returns an empty state using the given shared counter.
// A nil counter gets replaced by a fresh one.
func NewAnalysisState(counter *NondetCounter) *AnalysisState {
	if counter == nil {
		counter = &NondetCounter{}
	}
	return &AnalysisState{
		constants: newValueMap(),
		counter:   counter,
	}
}

// withConstants creates a new state with the given bindings and the flags of s.
func (s *AnalysisState) withConstants(constants *valueMap) *AnalysisState {
	return &AnalysisState{
		constants:    constants,
		counter:      s.counter,
		randomChoice: s.randomChoice,
	}
}

// Counter returns the nondeterministic call counter shared by this run.
func (s *AnalysisState) Counter() *NondetCounter {
	return s.counter
}

// UsedRandomChoice reports whether some value of the state was drawn randomly.
func (s *AnalysisState) UsedRandomChoice() bool {
	return s.randomChoice
}

// WithRandomChoice returns a copy of s with the random-choice marker set.
func (s *AnalysisState) WithRandomChoice() *AnalysisState {
	if s.randomChoice {
		return s
	}
	ns := s.withConstants(s.constants)
	ns.randomChoice = true
	return ns
}

// AssignConstant binds loc to v of type t.
func (s *AnalysisState) AssignConstant(loc MemoryLocation, v Value, t machine.Type) *AnalysisState {
	return s.withConstants(s.constants.Set(loc, TypedValue{Value: v, Type: t}))
}

// Forget removes the binding of loc.
func (s *AnalysisState) Forget(loc MemoryLocation) *AnalysisState {
	if _, ok := s.constants.Get(loc); !ok {
		return s
	}
	return s.withConstants(s.constants.Delete(loc))
}

// ForgetAll removes the bindings of all locations accepted by drop.
func (s *AnalysisState) ForgetAll(drop func(MemoryLocation) bool) *AnalysisState {
	constants := s.constants
	s.each(func(loc MemoryLocation, _ TypedValue) {
		if drop(loc) {
			constants = constants.Delete(loc)
		}
	})
	if constants == s.constants {
		return s
	}
	return s.withConstants(constants)
}

// DropFrame forgets all locals of function fn.
func (s *AnalysisState) DropFrame(fn string) *AnalysisState {
	return s.ForgetAll(func(loc MemoryLocation) bool {
		return loc.IsOnFunctionStackOf(fn)
	})
}

func (s *AnalysisState) Contains(loc MemoryLocation) bool {
	_, ok := s.constants.Get(loc)
	return ok
}

// Lookup returns the binding of loc.
func (s *AnalysisState) Lookup(loc MemoryLocation) (TypedValue, bool) {
	return s.constants.Get(loc)
}

// ValueFor returns the value of loc, or Unknown if loc is not tracked.
func (s *AnalysisState) ValueFor(loc MemoryLocation) Value {
	if tv, ok := s.constants.Get(loc); ok {
		return tv.Value
	}
	return Unknown
}

// TypeFor returns the type loc was stored with.
func (s *AnalysisState) TypeFor(loc MemoryLocation) (machine.Type, bool) {
	tv, ok := s.constants.Get(loc)
	return tv.Type, ok
}

// Size returns the number of tracked locations.
func (s *AnalysisState) Size() int {
	return s.constants.Len()
}

// TrackedLocations returns the tracked locations in order.
func (s *AnalysisState) TrackedLocations() []MemoryLocation {
	locs := make([]MemoryLocation, 0, s.Size())
	s.each(func(loc MemoryLocation, _ TypedValue) {
		locs = append(locs, loc)
	})
	return locs
}

// Constants returns all bindings in location order.
func (s *AnalysisState) Constants() []Binding {
	bs := make([]Binding, 0, s.Size())
	s.each(func(loc MemoryLocation, tv TypedValue) {
		bs = append(bs, Binding{Loc: loc, TypedValue: tv})
	})
	return bs
}

func (s *AnalysisState) each(fn func(MemoryLocation, TypedValue)) {
	eachBinding(s.constants, fn)
}

func eachBinding(m *valueMap, fn func(MemoryLocation, TypedValue)) {
	itr := m.Iterator()
	for !itr.Done() {
		loc, tv, _ := itr.Next()
		fn(loc, tv)
	}
}

// Join computes the value-wise join of s and reached.
// Locations bound in both states with equal values keep their binding,
// locations bound to different values become Unknown, and locations bound on
// one side only are dropped. If the result equals reached, reached itself is
// returned.
//
// Join panics with a *TypeMismatchError if the two states disagree on the
// type of a location.
func (s *AnalysisState) Join(reached *AnalysisState) *AnalysisState {
	joined := newValueMap()
	changed := s.randomChoice && !reached.randomChoice
	reached.each(func(loc MemoryLocation, rtv TypedValue) {
		tv, ok := s.constants.Get(loc)
		if !ok {
			changed = true
			return
		}
		jtv, wentUp := joinTypedValues(loc, tv, rtv)
		changed = changed || wentUp
		joined = joined.Set(loc, jtv)
	})
	if !changed {
		return reached
	}
	ns := reached.withConstants(joined)
	ns.randomChoice = s.randomChoice || reached.randomChoice
	return ns
}

// joinTypedValues joins two bindings of loc.
// It also returns a boolean indicating whether we went up with respect to the second binding.
func joinTypedValues(loc MemoryLocation, tv, reached TypedValue) (TypedValue, bool) {
	typ := reconcileTypes(loc, tv.Type, reached.Type)
	if ValuesEqual(tv.Value, reached.Value) {
		return reached, false
	}
	return TypedValue{Value: Unknown, Type: typ}, IsExplicitlyKnown(reached.Value)
}

// reconcileTypes returns the common type of two bindings of loc.
// Types of a location are stable during an analysis, so any disagreement is
// a bug in the caller.
func reconcileTypes(loc MemoryLocation, t1, t2 machine.Type) machine.Type {
	if t1 != t2 {
		panic(&TypeMismatchError{Loc: loc, Left: t1, Right: t2})
	}
	return t1
}

// IsLessOrEqual reports whether s is covered by other: every binding of
// other that is not Unknown is present with the same value in s.
func (s *AnalysisState) IsLessOrEqual(other *AnalysisState) bool {
	if s == other {
		return true
	}
	covered := true
	other.each(func(loc MemoryLocation, otv TypedValue) {
		if !covered || IsUnknown(otv.Value) {
			return
		}
		tv, ok := s.constants.Get(loc)
		if !ok || !ValuesEqual(tv.Value, otv.Value) {
			covered = false
		}
	})
	return covered
}

// Equal reports whether both states hold the same bindings and flags.
func (s *AnalysisState) Equal(other *AnalysisState) bool {
	if s == other {
		return true
	}
	return s.randomChoice == other.randomChoice && mapsEqual(s.constants, other.constants)
}

func mapsEqual(a, b *valueMap) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	eachBinding(a, func(loc MemoryLocation, tv TypedValue) {
		if !equal {
			return
		}
		otv, ok := b.Get(loc)
		equal = ok && tv.Equal(otv)
	})
	return equal
}

// RebuildAfterCall builds the state after returning from a function call.
// s is the state at the function exit, root is the state before the call
// and entry the state at the function entry.
// Locals of all callers are restored from root, globals are taken from s,
// and the return variable of the called function is carried over from s.
func (s *AnalysisState) RebuildAfterCall(root, entry *AnalysisState, exit FunctionExit) *AnalysisState {
	rebuilt := newValueMap()
	root.each(func(loc MemoryLocation, tv TypedValue) {
		if loc.IsOnFunctionStack() {
			rebuilt = rebuilt.Set(loc, tv)
		}
	})
	retVar := exit.ReturnVariable()
	s.each(func(loc MemoryLocation, tv TypedValue) {
		if !loc.IsOnFunctionStack() || loc.WithoutOffset() == retVar {
			rebuilt = rebuilt.Set(loc, tv)
		}
	})
	ns := root.withConstants(rebuilt)
	ns.randomChoice = root.randomChoice || entry.randomChoice || s.randomChoice
	return ns
}

// FunctionExit is the exit point of a function body.
type FunctionExit struct {
	Function string
}

// ReturnVariable returns the location the function's result is stored in.
func (e FunctionExit) ReturnVariable() MemoryLocation {
	return LocalLocation(e.Function, returnVariableName)
}

// Fingerprint returns a hash of the bindings of s.
func (s *AnalysisState) Fingerprint() common.Hash {
	var buf []byte
	s.each(func(loc MemoryLocation, tv TypedValue) {
		buf = append(buf, loc.String()...)
		buf = append(buf, 0)
		buf = append(buf, tv.Type.String()...)
		buf = append(buf, 0)
		buf = appendValue(buf, tv.Value)
	})
	return crypto.Keccak256Hash(buf)
}

func (s *AnalysisState) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, b := range s.Constants() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v=%v", b.Loc, b.TypedValue)
	}
	sb.WriteString("]")
	return sb.String()
}
