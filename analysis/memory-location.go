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
	"strconv"
	"strings"
)

const functionSeparator = "::"

// MemoryLocation identifies a tracked variable, struct field or array slot.
// Locations are compared by their qualified name and optional offset.
type MemoryLocation struct {
	function   string
	identifier string
	offset     int64
	hasOffset  bool
}

// LocalLocation returns the location of a variable on the stack of function fn.
func LocalLocation(fn, identifier string) MemoryLocation {
	return MemoryLocation{function: fn, identifier: identifier}
}

// GlobalLocation returns the location of a global variable.
func GlobalLocation(identifier string) MemoryLocation {
	return MemoryLocation{identifier: identifier}
}

// ParseLocation parses the representation produced by String.
func ParseLocation(s string) (MemoryLocation, error) {
	var loc MemoryLocation
	if i := strings.LastIndex(s, "/"); i >= 0 {
		off, err := strconv.ParseInt(s[i+1:], 10, 64)
		if err != nil {
			return MemoryLocation{}, fmt.Errorf("invalid offset in memory location %q", s)
		}
		loc.offset, loc.hasOffset = off, true
		s = s[:i]
	}
	if i := strings.Index(s, functionSeparator); i >= 0 {
		loc.function = s[:i]
		s = s[i+len(functionSeparator):]
	}
	if s == "" {
		return MemoryLocation{}, fmt.Errorf("empty identifier in memory location")
	}
	loc.identifier = s
	return loc, nil
}

// WithOffset returns the location of the sub-object at offset off.
func (l MemoryLocation) WithOffset(off int64) MemoryLocation {
	l.offset, l.hasOffset = off, true
	return l
}

// WithoutOffset returns the location of the enclosing variable.
func (l MemoryLocation) WithoutOffset() MemoryLocation {
	l.offset, l.hasOffset = 0, false
	return l
}

func (l MemoryLocation) Offset() (int64, bool) {
	return l.offset, l.hasOffset
}

func (l MemoryLocation) FunctionName() string {
	return l.function
}

func (l MemoryLocation) Identifier() string {
	return l.identifier
}

// IsOnFunctionStack reports whether l is local to some function.
func (l MemoryLocation) IsOnFunctionStack() bool {
	return l.function != ""
}

// IsOnFunctionStackOf reports whether l is local to function fn.
func (l MemoryLocation) IsOnFunctionStackOf(fn string) bool {
	return l.function == fn && fn != ""
}

// QualifiedName returns the name of the variable, ignoring any offset.
func (l MemoryLocation) QualifiedName() string {
	if l.function == "" {
		return l.identifier
	}
	return l.function + functionSeparator + l.identifier
}

func (l MemoryLocation) String() string {
	if !l.hasOffset {
		return l.QualifiedName()
	}
	return l.QualifiedName() + "/" + strconv.FormatInt(l.offset, 10)
}

func compareLocations(a, b MemoryLocation) int {
	if c := strings.Compare(a.QualifiedName(), b.QualifiedName()); c != 0 {
		return c
	}
	switch {
	case a.hasOffset == b.hasOffset:
	case !a.hasOffset:
		return -1
	default:
		return 1
	}
	switch {
	case a.offset < b.offset:
		return -1
	case a.offset > b.offset:
		return 1
	}
	return 0
}

// locationComparer orders locations for the persistent maps.
type locationComparer struct{}

func (locationComparer) Compare(a, b MemoryLocation) int {
	return compareLocations(a, b)
}
