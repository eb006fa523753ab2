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

import "sync/atomic"

// NondetCounter counts the nondeterministic calls resolved so far. One
// counter is shared by all states and workers of an analysis run.
type NondetCounter struct {
	n int64
}

// Next increments the counter and returns its previous value.
func (c *NondetCounter) Next() int {
	return int(atomic.AddInt64(&c.n, 1) - 1)
}

// Load returns the number of calls consumed so far.
func (c *NondetCounter) Load() int {
	return int(atomic.LoadInt64(&c.n))
}
