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

// Package machine describes the static types the value analysis reasons
// about and the machine models that give those types a width, a signedness
// and a representable range.
package machine

// Kind enumerates the type shapes known to the analysis.
type Kind uint8

const (
	Invalid Kind = iota

	Bool
	Char
	SignedChar
	UnsignedChar
	Short
	UnsignedShort
	Int
	UnsignedInt
	Long
	UnsignedLong
	LongLong
	UnsignedLongLong
	Int128
	UnsignedInt128

	Float
	Double
	LongDouble

	Pointer
	Enum
	Struct
	Array
	Function
	Void

	numKinds
)

var kindNames = [numKinds]string{
	Invalid:          "invalid",
	Bool:             "_Bool",
	Char:             "char",
	SignedChar:       "signed char",
	UnsignedChar:     "unsigned char",
	Short:            "short",
	UnsignedShort:    "unsigned short",
	Int:              "int",
	UnsignedInt:      "unsigned int",
	Long:             "long",
	UnsignedLong:     "unsigned long",
	LongLong:         "long long",
	UnsignedLongLong: "unsigned long long",
	Int128:           "__int128",
	UnsignedInt128:   "unsigned __int128",
	Float:            "float",
	Double:           "double",
	LongDouble:       "long double",
	Pointer:          "pointer",
	Enum:             "enum",
	Struct:           "struct",
	Array:            "array",
	Function:         "function",
	Void:             "void",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind returns the kind with the given C spelling.
func ParseKind(name string) (Kind, bool) {
	for k := Bool; k < numKinds; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return Invalid, false
}

// Type is a static type as seen by the value analysis.
// Only the kind matters for value semantics; the name distinguishes
// different enums, structs and pointer targets.
type Type struct {
	Kind Kind
	Name string
}

// Typ holds the unnamed basic types, indexed by kind.
var Typ = func() [numKinds]Type {
	var ts [numKinds]Type
	for k := Kind(0); k < numKinds; k++ {
		ts[k] = Type{Kind: k}
	}
	return ts
}()

// Named returns a type of the given kind carrying a name, e.g. an enum or a
// struct tag.
func Named(k Kind, name string) Type {
	return Type{Kind: k, Name: name}
}

func (t Type) String() string {
	if t.Name == "" {
		return t.Kind.String()
	}
	switch t.Kind {
	case Enum, Struct:
		return t.Kind.String() + " " + t.Name
	}
	return t.Name
}

// IsBool reports whether t is the boolean type.
func (t Type) IsBool() bool {
	return t.Kind == Bool
}

// IsIntegral reports whether values of t are integers (booleans and enums
// included).
func (t Type) IsIntegral() bool {
	return (Bool <= t.Kind && t.Kind <= UnsignedInt128) || t.Kind == Enum
}

// IsFloating reports whether t is a binary floating-point type.
func (t Type) IsFloating() bool {
	return Float <= t.Kind && t.Kind <= LongDouble
}

// IsArithmetic reports whether t takes part in the usual arithmetic
// conversions.
func (t Type) IsArithmetic() bool {
	return t.IsIntegral() || t.IsFloating()
}

// IsPrimitive reports whether t is a builtin scalar type that values can be
// drawn for without further type information.
func (t Type) IsPrimitive() bool {
	return Bool <= t.Kind && t.Kind <= LongDouble
}
