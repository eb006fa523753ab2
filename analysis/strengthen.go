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
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

// Formula is a boolean formula owned by a solver session.
type Formula interface{}

// Satisfiability is the verdict of a satisfiability check.
type Satisfiability int

const (
	Indeterminate Satisfiability = iota
	Satisfiable
	Unsatisfiable
)

func (s Satisfiability) String() string {
	switch s {
	case Satisfiable:
		return "sat"
	case Unsatisfiable:
		return "unsat"
	}
	return "unknown"
}

// SolverSession is the interface to the solving engine. A session is not
// reentrant; concurrent workers must use separate sessions.
type SolverSession interface {
	// FormulaFor encodes an approximation, such as an analysis state, as a
	// boolean formula.
	FormulaFor(approximation interface{}) (Formula, error)
	// CheckConjunction decides whether the conjunction of formulas is
	// satisfiable. It should return promptly once ctx is done.
	CheckConjunction(ctx context.Context, formulas ...Formula) (Satisfiability, error)
}

// Strengthener prunes states that are infeasible together with the
// approximation of the block they belong to. It never changes a state.
// The counters may be read and updated from concurrent workers.
type Strengthener struct {
	// Accessed atomically; kept first for 64-bit alignment.
	numChecks      uint64
	numPruned      uint64
	numInterrupted uint64

	session SolverSession
}

func NewStrengthener(session SolverSession) *Strengthener {
	return &Strengthener{session: session}
}

// Strengthen returns nil if state contradicts block, and a slice holding
// only state otherwise. Cancellation is reported as ErrInterrupted and
// failures of the solver as ErrSolverFailure.
func (s *Strengthener) Strengthen(ctx context.Context, state *AnalysisState, block interface{}) ([]*AnalysisState, error) {
	if err := ctx.Err(); err != nil {
		atomic.AddUint64(&s.numInterrupted, 1)
		return nil, errors.Wrap(ErrInterrupted, err.Error())
	}
	atomic.AddUint64(&s.numChecks, 1)

	stateFormula, err := s.session.FormulaFor(state)
	if err != nil {
		return nil, s.solverError(ctx, err, "encoding state")
	}
	formulas := []Formula{stateFormula}
	if block != nil {
		blockFormula, err := s.session.FormulaFor(block)
		if err != nil {
			return nil, s.solverError(ctx, err, "encoding block approximation")
		}
		formulas = append(formulas, blockFormula)
	}

	res, err := s.session.CheckConjunction(ctx, formulas...)
	if err != nil {
		return nil, s.solverError(ctx, err, "checking satisfiability")
	}
	if res == Unsatisfiable {
		atomic.AddUint64(&s.numPruned, 1)
		log.Debug("Pruned infeasible state", "state", state)
		return nil, nil
	}
	return []*AnalysisState{state}, nil
}

func (s *Strengthener) solverError(ctx context.Context, err error, what string) error {
	if isInterruption(err) || ctx.Err() != nil {
		atomic.AddUint64(&s.numInterrupted, 1)
		return errors.Wrapf(ErrInterrupted, "%s: %v", what, err)
	}
	return errors.Wrapf(ErrSolverFailure, "%s: %v", what, err)
}

func isInterruption(err error) bool {
	return errors.Is(err, ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (s *Strengthener) NumChecks() uint64 {
	return atomic.LoadUint64(&s.numChecks)
}

func (s *Strengthener) NumPruned() uint64 {
	return atomic.LoadUint64(&s.numPruned)
}

func (s *Strengthener) NumInterrupted() uint64 {
	return atomic.LoadUint64(&s.numInterrupted)
}

func (s *Strengthener) String() string {
	return fmt.Sprintf("checks=%d pruned=%d interrupted=%d", s.NumChecks(), s.NumPruned(), s.NumInterrupted())
}
