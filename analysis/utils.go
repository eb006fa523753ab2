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

// The Magic* helpers mark tunable constants of the analysis. They are the
// identity, but give every knob a single place to be found by grep.

func MagicInt(n int) int {
	return n
}

func MagicBool(b bool) bool {
	return b
}

func MagicString(s string) string {
	return s
}

// defaultNondetPrefix is the name prefix of functions returning arbitrary values.
var defaultNondetPrefix = MagicString("__VERIFIER_nondet_")

// returnVariableName is the identifier a function's return value is stored under.
var returnVariableName = MagicString("__retval__")

// defaultSummaryCacheSize bounds the number of cached block summaries.
var defaultSummaryCacheSize = MagicInt(1024)

// solverPollInterval is the number of atoms scanned between cancellation checks.
var solverPollInterval = MagicInt(64)

// sampleRetryLimit bounds rejection sampling when drawing random integers.
var sampleRetryLimit = MagicInt(1 << 16)

// defaultSymbolicValues makes reads of untracked locations symbolic.
var defaultSymbolicValues = MagicBool(false)
