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
	"context"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Atom is the formula loc == Value, or loc != Value if Negated.
type Atom struct {
	Loc     MemoryLocation
	Value   Value
	Negated bool
}

func (a Atom) String() string {
	op := "=="
	if a.Negated {
		op = "!="
	}
	return a.Loc.String() + " " + op + " " + a.Value.String()
}

// Conjunction is the formula type of EqualitySolver.
type Conjunction []Atom

func (c Conjunction) String() string {
	if len(c) == 0 {
		return "true"
	}
	parts := make([]string, len(c))
	for i, a := range c {
		parts[i] = a.String()
	}
	return strings.Join(parts, " && ")
}

// EqualitySolver decides conjunctions of equalities and disequalities
// between locations and constants. It accepts analysis states, edge states
// and Conjunctions as approximations.
type EqualitySolver struct {
	busy int32
}

func NewEqualitySolver() *EqualitySolver {
	return &EqualitySolver{}
}

// FormulaFor encodes approximation as a Conjunction. Unknown bindings are
// unconstrained and produce no atom.
func (s *EqualitySolver) FormulaFor(approximation interface{}) (Formula, error) {
	switch a := approximation.(type) {
	case nil:
		return Conjunction{}, nil
	case *AnalysisState:
		return stateConjunction(a), nil
	case *EdgeState:
		return stateConjunction(a.AnalysisState), nil
	case Conjunction:
		return append(Conjunction(nil), a...), nil
	case []Atom:
		return append(Conjunction(nil), a...), nil
	}
	return nil, errors.Errorf("cannot encode %T as a formula", approximation)
}

func stateConjunction(s *AnalysisState) Conjunction {
	c := make(Conjunction, 0, s.Size())
	s.each(func(loc MemoryLocation, tv TypedValue) {
		if IsExplicitlyKnown(tv.Value) {
			c = append(c, Atom{Loc: loc, Value: tv.Value})
		}
	})
	return c
}

// CheckConjunction decides the conjunction of the given formulas.
// Atoms over symbolic values cannot be decided; if any are present and no
// contradiction was found the verdict is Indeterminate.
func (s *EqualitySolver) CheckConjunction(ctx context.Context, formulas ...Formula) (Satisfiability, error) {
	if !atomic.CompareAndSwapInt32(&s.busy, 0, 1) {
		return Indeterminate, ErrConcurrentSession
	}
	defer atomic.StoreInt32(&s.busy, 0)

	eq := map[MemoryLocation]Value{}
	var neq []Atom
	undecided := false
	scanned := 0
	for _, f := range formulas {
		c, ok := f.(Conjunction)
		if !ok {
			return Indeterminate, errors.Errorf("foreign formula %T", f)
		}
		for _, atom := range c {
			if scanned%solverPollInterval == 0 {
				if err := ctx.Err(); err != nil {
					return Indeterminate, errors.Wrap(ErrInterrupted, err.Error())
				}
			}
			scanned++
			if _, sym := atom.Value.(SymbolicValue); sym || IsUnknown(atom.Value) {
				undecided = true
				continue
			}
			if atom.Negated {
				neq = append(neq, atom)
				continue
			}
			if prev, ok := eq[atom.Loc]; ok && !ValuesEqual(prev, atom.Value) {
				return Unsatisfiable, nil
			}
			eq[atom.Loc] = atom.Value
		}
	}
	for _, atom := range neq {
		if v, ok := eq[atom.Loc]; ok && ValuesEqual(v, atom.Value) {
			return Unsatisfiable, nil
		}
	}
	if undecided {
		return Indeterminate, nil
	}
	return Satisfiable, nil
}
