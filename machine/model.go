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

package machine

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// primitive describes how one kind is laid out on the target.
type primitive struct {
	// bits is the storage width.
	bits int
	// signed tells whether the most significant bit is a sign bit.
	signed bool
	// mantissa and exponent describe floating formats, including the
	// implicit bit in the mantissa.
	mantissa int
	exponent int
	// valid is true if the kind has a layout on this target.
	valid bool
}

// modelTable contains the layout of every kind for one target.
type modelTable [numKinds]primitive

// Model is a machine model: the widths and signedness of the primitive types.
type Model struct {
	name  string
	table modelTable
}

var (
	linux32Model = &Model{name: "LINUX32", table: newLinux32Table()}
	linux64Model = &Model{name: "LINUX64", table: newLinux64Table()}
)

// Linux32 returns the model of a 32 bit Linux target (ILP32).
func Linux32() *Model {
	return linux32Model
}

// Linux64 returns the model of a 64 bit Linux target (LP64).
func Linux64() *Model {
	return linux64Model
}

// ByName looks up a model by its configuration name.
func ByName(name string) (*Model, error) {
	switch strings.ToUpper(name) {
	case "LINUX32":
		return Linux32(), nil
	case "LINUX64", "":
		return Linux64(), nil
	}
	return nil, fmt.Errorf("unknown machine model %q", name)
}

func integral(bits int, signed bool) primitive {
	return primitive{bits: bits, signed: signed, valid: true}
}

func floating(bits, mantissa, exponent int) primitive {
	return primitive{bits: bits, signed: true, mantissa: mantissa, exponent: exponent, valid: true}
}

// newLinux64Table returns the LINUX32 table with the LP64 changes applied.
func newLinux64Table() modelTable {
	table := newLinux32Table()
	table[Long] = integral(64, true)
	table[UnsignedLong] = integral(64, false)
	table[Pointer] = integral(64, false)
	table[LongDouble] = floating(128, 64, 15)
	return table
}

// newLinux32Table returns the layout used by gcc on 32 bit x86 Linux.
func newLinux32Table() modelTable {
	return modelTable{
		Bool:             integral(8, false),
		Char:             integral(8, true),
		SignedChar:       integral(8, true),
		UnsignedChar:     integral(8, false),
		Short:            integral(16, true),
		UnsignedShort:    integral(16, false),
		Int:              integral(32, true),
		UnsignedInt:      integral(32, false),
		Long:             integral(32, true),
		UnsignedLong:     integral(32, false),
		LongLong:         integral(64, true),
		UnsignedLongLong: integral(64, false),
		Int128:           integral(128, true),
		UnsignedInt128:   integral(128, false),

		Float:      floating(32, 24, 8),
		Double:     floating(64, 53, 11),
		LongDouble: floating(96, 64, 15),

		Pointer: integral(32, false),
		Enum:    integral(32, true),
	}
}

func (m *Model) String() string {
	return m.name
}

func (m *Model) lookup(t Type) (primitive, bool) {
	if t.Kind >= numKinds {
		return primitive{}, false
	}
	p := m.table[t.Kind]
	return p, p.valid
}

// SizeofInBits returns the storage width of t.
func (m *Model) SizeofInBits(t Type) (int, bool) {
	p, ok := m.lookup(t)
	return p.bits, ok
}

// IsSigned reports whether t is a signed integer or floating type.
func (m *Model) IsSigned(t Type) bool {
	p, ok := m.lookup(t)
	return ok && p.signed
}

// MinValue returns the smallest integer representable by the integral type t.
func (m *Model) MinValue(t Type) (*big.Int, bool) {
	p, ok := m.lookup(t)
	if !ok || !t.IsIntegral() {
		return nil, false
	}
	if t.IsBool() || !p.signed {
		return new(big.Int), true
	}
	min := new(big.Int).Lsh(big.NewInt(1), uint(p.bits-1))
	return min.Neg(min), true
}

// MaxValue returns the largest integer representable by the integral type t.
func (m *Model) MaxValue(t Type) (*big.Int, bool) {
	p, ok := m.lookup(t)
	if !ok || !t.IsIntegral() {
		return nil, false
	}
	if t.IsBool() {
		return big.NewInt(1), true
	}
	bits := p.bits
	if p.signed {
		bits--
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return max.Sub(max, big.NewInt(1)), true
}

// FloatFormat returns the mantissa width (including the implicit bit) and
// the exponent width of the floating type t.
func (m *Model) FloatFormat(t Type) (mantissa, exponent int, ok bool) {
	p, ok := m.lookup(t)
	if !ok || !t.IsFloating() {
		return 0, 0, false
	}
	return p.mantissa, p.exponent, true
}

// MaxFloat returns the largest finite value of the floating type t.
// Formats wider than double are capped to the double range.
func (m *Model) MaxFloat(t Type) (float64, bool) {
	mant, _, ok := m.FloatFormat(t)
	if !ok {
		return 0, false
	}
	if mant <= 24 {
		return math.MaxFloat32, true
	}
	return math.MaxFloat64, true
}
