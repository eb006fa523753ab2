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
	"strings"

	"github.com/benbjohnson/immutable"
)

type locationSet = immutable.SortedMap[MemoryLocation, struct{}]

// Precision decides which locations are eligible to be tracked.
type Precision struct {
	all     bool
	tracked *locationSet
}

// TrackAll returns the precision that tracks every location.
func TrackAll() *Precision {
	return &Precision{all: true, tracked: newLocationSet()}
}

// TrackOnly returns a precision tracking exactly the given locations
// (offsets are ignored).
func TrackOnly(locs ...MemoryLocation) *Precision {
	set := newLocationSet()
	for _, loc := range locs {
		set = set.Set(loc.WithoutOffset(), struct{}{})
	}
	return &Precision{tracked: set}
}

func newLocationSet() *locationSet {
	return immutable.NewSortedMap[MemoryLocation, struct{}](locationComparer{})
}

// IsTracking reports whether loc may be tracked.
func (p *Precision) IsTracking(loc MemoryLocation) bool {
	if p.all {
		return true
	}
	_, ok := p.tracked.Get(loc.WithoutOffset())
	return ok
}

// TracksAll reports whether p tracks every location.
func (p *Precision) TracksAll() bool {
	return p.all
}

// Locations returns the explicitly tracked locations.
func (p *Precision) Locations() []MemoryLocation {
	locs := make([]MemoryLocation, 0, p.tracked.Len())
	itr := p.tracked.Iterator()
	for !itr.Done() {
		loc, _, _ := itr.Next()
		locs = append(locs, loc)
	}
	return locs
}

// Filter returns a precision keeping only the tracked locations accepted by keep.
func (p *Precision) Filter(keep func(MemoryLocation) bool) *Precision {
	if p.all {
		return p
	}
	set := p.tracked
	for _, loc := range p.Locations() {
		if !keep(loc) {
			set = set.Delete(loc)
		}
	}
	if set == p.tracked {
		return p
	}
	return &Precision{tracked: set}
}

// Join returns the precision tracking everything tracked by either side.
func (p *Precision) Join(o *Precision) *Precision {
	if p.all || o.all {
		return TrackAll()
	}
	set := p.tracked
	for _, loc := range o.Locations() {
		if _, ok := set.Get(loc); !ok {
			set = set.Set(loc, struct{}{})
		}
	}
	if set == p.tracked {
		return p
	}
	return &Precision{tracked: set}
}

// Restrict forgets every binding of s that p does not track.
func (s *AnalysisState) Restrict(p *Precision) *AnalysisState {
	if p.all {
		return s
	}
	return s.ForgetAll(func(loc MemoryLocation) bool {
		return !p.IsTracking(loc)
	})
}

func (p *Precision) String() string {
	if p.all {
		return "*"
	}
	names := make([]string, 0, p.tracked.Len())
	for _, loc := range p.Locations() {
		names = append(names, loc.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
