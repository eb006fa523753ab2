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

import "fmt"

// MergeMode selects how states reaching the same program point are combined.
type MergeMode int

const (
	// MergeSep keeps the reached state untouched.
	MergeSep MergeMode = iota
	// MergeJoin joins the new state into the reached state.
	MergeJoin
)

func (m MergeMode) String() string {
	switch m {
	case MergeSep:
		return "sep"
	case MergeJoin:
		return "join"
	}
	return fmt.Sprintf("MergeMode(%d)", int(m))
}

// ParseMergeMode parses the configuration name of a merge mode.
func ParseMergeMode(s string) (MergeMode, error) {
	switch s {
	case "sep", "overwrite", "":
		return MergeSep, nil
	case "join":
		return MergeJoin, nil
	}
	return 0, fmt.Errorf("unknown merge mode %q", s)
}

// MergeOperator combines a new state with a reached state.
// Whenever the combination equals the reached state, the reached state
// itself is returned so callers can detect a fixpoint by identity.
type MergeOperator struct {
	mode MergeMode
}

func NewMergeOperator(mode MergeMode) MergeOperator {
	return MergeOperator{mode: mode}
}

func (m MergeOperator) Mode() MergeMode {
	return m.mode
}

// Merge combines s with reached.
func (m MergeOperator) Merge(s, reached *AnalysisState) *AnalysisState {
	if m.mode == MergeSep {
		return reached
	}
	return s.Join(reached)
}

// MergeEdgeStates combines two edge states: the states are joined and the
// edges are joined with JoinEdges.
func (m MergeOperator) MergeEdgeStates(s, reached *EdgeState) *EdgeState {
	if m.mode == MergeSep {
		return reached
	}
	merged := WithEdge(s.AnalysisState.Join(reached.AnalysisState), JoinEdges(s.edge, reached.edge))
	switch {
	case merged.Equal(reached):
		return reached
	case merged.Equal(s):
		return s
	}
	return merged
}

// IsCovered reports whether s is subsumed by one of the reached states and
// can therefore be discarded.
func IsCovered(s *AnalysisState, reached []*AnalysisState) bool {
	for _, r := range reached {
		if s.IsLessOrEqual(r) {
			return true
		}
	}
	return false
}
