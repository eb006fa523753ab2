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

	"github.com/pkg/errors"

	"github.com/practical-formal-methods/valan/machine"
)

var (
	// ErrInterrupted is returned when an operation observed cancellation.
	// It is never returned for a satisfiable or unsatisfiable verdict.
	ErrInterrupted = errors.New("analysis interrupted")
	// ErrSolverFailure wraps failures of the solving collaborator.
	ErrSolverFailure = errors.New("solver failure")
	// ErrMissingReplayValue is returned by the replay strategy when the
	// recording has no value for a call and such calls reject the branch.
	ErrMissingReplayValue = errors.New("no recorded value for nondeterministic call")
	// ErrUnsupportedType is returned when a value cannot be drawn for a type.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrConcurrentSession is returned when a solver session is used by
	// two callers at once.
	ErrConcurrentSession = errors.New("concurrent use of solver session")
)

// TypeMismatchError is the panic value raised when two states disagree on
// the type of a location.
type TypeMismatchError struct {
	Loc         MemoryLocation
	Left, Right machine.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("conflicting types for %v: %v and %v", e.Loc, e.Left, e.Right)
}
