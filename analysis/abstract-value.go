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
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/big"

	"github.com/practical-formal-methods/valan/machine"
)

// Value is an abstract value. It is one of UnknownValue, NumericValue,
// SymbolicValue, EnumConstantValue, NullValue and FunctionValue.
// Unknown is the top of the per-location lattice: the location may hold
// anything its static type can represent.
type Value interface {
	fmt.Stringer
	isValue()
}

type UnknownValue struct{}

// NumericValue is an explicitly known number. Integers are kept with
// arbitrary precision; floating values carry the precision of the format
// they were computed in.
type NumericValue struct {
	i   *big.Int
	f   *big.Float
	nan bool
}

// SymbolicValue is a value described by an expression over other locations.
type SymbolicValue struct {
	Expr Expr
}

// EnumConstantValue is a named constant of an enum type.
type EnumConstantValue struct {
	DeclaringType string
	Name          string
}

type NullValue struct{}

// FunctionValue is a reference to a function.
type FunctionValue struct {
	Name string
}

func (UnknownValue) isValue()      {}
func (NumericValue) isValue()      {}
func (SymbolicValue) isValue()     {}
func (EnumConstantValue) isValue() {}
func (NullValue) isValue()         {}
func (FunctionValue) isValue()     {}

// Unknown is the top value.
var Unknown Value = UnknownValue{}

// Null is the null reference.
var Null Value = NullValue{}

// IntValue returns a numeric value holding the integer i.
func IntValue(i *big.Int) NumericValue {
	return NumericValue{i: new(big.Int).Set(i)}
}

// Int64Value returns a numeric value holding the integer n.
func Int64Value(n int64) NumericValue {
	return NumericValue{i: big.NewInt(n)}
}

// FloatValue returns a numeric value holding f.
func FloatValue(f float64) NumericValue {
	if math.IsNaN(f) {
		return NumericValue{nan: true}
	}
	return NumericValue{f: big.NewFloat(f)}
}

// BigFloatValue returns a numeric value holding a copy of f.
func BigFloatValue(f *big.Float) NumericValue {
	return NumericValue{f: new(big.Float).Copy(f)}
}

// NaN returns the not-a-number value.
func NaN() NumericValue {
	return NumericValue{nan: true}
}

func (UnknownValue) String() string { return "UNKNOWN" }
func (NullValue) String() string    { return "NULL" }

func (v NumericValue) String() string {
	switch {
	case v.nan:
		return "NaN"
	case v.i != nil:
		return v.i.String()
	}
	return v.f.Text('g', -1)
}

func (v SymbolicValue) String() string {
	return "SymbolicValue(" + v.Expr.String() + ")"
}

func (v EnumConstantValue) String() string {
	return v.DeclaringType + "::" + v.Name
}

func (v FunctionValue) String() string {
	return "&" + v.Name
}

// IsInteger reports whether v holds an integer.
func (v NumericValue) IsInteger() bool {
	return v.i != nil
}

// IsNaN reports whether v is the floating not-a-number value.
func (v NumericValue) IsNaN() bool {
	return v.nan
}

// IsInf reports whether v is an infinite floating value.
func (v NumericValue) IsInf() bool {
	return v.f != nil && v.f.IsInf()
}

// BigInt returns a copy of the integer held by v. Floating values are
// truncated toward zero; NaN and infinities report false.
func (v NumericValue) BigInt() (*big.Int, bool) {
	switch {
	case v.i != nil:
		return new(big.Int).Set(v.i), true
	case v.nan || v.f.IsInf():
		return nil, false
	}
	i, _ := v.f.Int(nil)
	return i, true
}

// BigFloat returns v as a floating value.
func (v NumericValue) BigFloat() (*big.Float, bool) {
	switch {
	case v.nan:
		return nil, false
	case v.i != nil:
		return new(big.Float).SetInt(v.i), true
	}
	return new(big.Float).Copy(v.f), true
}

// Float64 returns the nearest float64 to v.
func (v NumericValue) Float64() float64 {
	switch {
	case v.nan:
		return math.NaN()
	case v.i != nil:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f
	}
	f, _ := v.f.Float64()
	return f
}

// IsZero reports whether v is numerically zero.
func (v NumericValue) IsZero() bool {
	switch {
	case v.nan:
		return false
	case v.i != nil:
		return v.i.Sign() == 0
	}
	return v.f.Sign() == 0
}

// Negate returns -v.
func (v NumericValue) Negate() NumericValue {
	switch {
	case v.nan:
		return v
	case v.i != nil:
		return NumericValue{i: new(big.Int).Neg(v.i)}
	}
	return NumericValue{f: new(big.Float).Neg(v.f)}
}

// AsNumeric returns v as a numeric value if it is one.
func AsNumeric(v Value) (NumericValue, bool) {
	n, ok := v.(NumericValue)
	return n, ok
}

// AsIntegral returns the integer held by v if v is numeric and t is an
// integral type. The result is not cast into the range of t.
func AsIntegral(v Value, t machine.Type) (*big.Int, bool) {
	n, ok := v.(NumericValue)
	if !ok || !t.IsIntegral() {
		return nil, false
	}
	return n.BigInt()
}

// IsExplicitlyKnown reports whether v is anything but Unknown.
func IsExplicitlyKnown(v Value) bool {
	_, unknown := v.(UnknownValue)
	return v != nil && !unknown
}

// IsUnknown reports whether v is the top value.
func IsUnknown(v Value) bool {
	return !IsExplicitlyKnown(v)
}

// Negate returns the negation of v. Symbolic values are negated by
// subtraction from zero; values without a sign become Unknown.
func Negate(v Value, t machine.Type) Value {
	switch v := v.(type) {
	case NumericValue:
		return v.Negate()
	case SymbolicValue:
		zero := &ConstantExpr{Value: Int64Value(0), Type: t}
		return SymbolicValue{Expr: &BinaryOpExpr{Op: Minus, Left: zero, Right: v.Expr, Type: t, CalcType: t}}
	}
	return Unknown
}

// ValuesEqual compares two values structurally.
func ValuesEqual(a, b Value) bool {
	switch a := a.(type) {
	case UnknownValue:
		_, ok := b.(UnknownValue)
		return ok
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case NumericValue:
		b, ok := b.(NumericValue)
		return ok && a.equal(b)
	case SymbolicValue:
		b, ok := b.(SymbolicValue)
		return ok && ExprEqual(a.Expr, b.Expr)
	case EnumConstantValue:
		b, ok := b.(EnumConstantValue)
		return ok && a == b
	case FunctionValue:
		b, ok := b.(FunctionValue)
		return ok && a == b
	}
	return false
}

func (v NumericValue) equal(o NumericValue) bool {
	switch {
	case v.nan || o.nan:
		return v.nan == o.nan
	case v.i != nil || o.i != nil:
		return v.i != nil && o.i != nil && v.i.Cmp(o.i) == 0
	}
	return v.f.Cmp(o.f) == 0 && v.f.Signbit() == o.f.Signbit()
}

// valueTag distinguishes the variants when hashing.
func valueTag(v Value) byte {
	switch v := v.(type) {
	case UnknownValue:
		return 0
	case NumericValue:
		if v.IsInteger() {
			return 1
		}
		return 2
	case SymbolicValue:
		return 3
	case EnumConstantValue:
		return 4
	case NullValue:
		return 5
	case FunctionValue:
		return 6
	}
	return 0xff
}

// HashValue returns a hash consistent with ValuesEqual.
func HashValue(v Value) uint64 {
	h := fnv.New64a()
	h.Write([]byte{valueTag(v)})
	h.Write([]byte(v.String()))
	return h.Sum64()
}

func appendValue(buf []byte, v Value) []byte {
	buf = append(buf, valueTag(v))
	s := v.String()
	var n [binary.MaxVarintLen64]byte
	buf = append(buf, n[:binary.PutUvarint(n[:], uint64(len(s)))]...)
	return append(buf, s...)
}
