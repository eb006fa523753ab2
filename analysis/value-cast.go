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
	"math"
	"math/big"

	emath "github.com/ethereum/go-ethereum/common/math"

	"github.com/practical-formal-methods/valan/machine"
)

// CastInteger wraps v into an integer of the given width and signedness
// using two's complement: R = v mod 2^bits in [0, 2^bits), and R - 2^bits
// if the result is signed and R >= 2^(bits-1).
func CastInteger(v *big.Int, bits int, signed bool) *big.Int {
	mod := emath.BigPow(2, int64(bits))
	r := new(big.Int).Mod(v, mod)
	if signed {
		half := new(big.Int).Rsh(mod, 1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, mod)
		}
	}
	return r
}

// CastValue converts v to the static type t as a C cast would.
// Values that are not numeric are returned unchanged; numeric values that
// cannot be represented in t (NaN or infinities cast to an integer) become
// Unknown.
func CastValue(v Value, t machine.Type, m *machine.Model) Value {
	n, ok := v.(NumericValue)
	if !ok {
		return v
	}
	switch {
	case t.IsBool():
		if n.IsZero() {
			return Int64Value(0)
		}
		return Int64Value(1)
	case t.IsIntegral():
		bits, ok := m.SizeofInBits(t)
		if !ok {
			return Unknown
		}
		i, ok := n.BigInt()
		if !ok {
			return Unknown
		}
		return NumericValue{i: CastInteger(i, bits, m.IsSigned(t))}
	case t.IsFloating():
		if n.IsNaN() {
			return n
		}
		f, _ := n.BigFloat()
		return NumericValue{f: roundToFormat(f, t, m)}
	}
	return v
}

// roundToFormat rounds f to the nearest value of the floating type t.
// Values beyond the range of float and double become infinite.
func roundToFormat(f *big.Float, t machine.Type, m *machine.Model) *big.Float {
	mant, _, ok := m.FloatFormat(t)
	switch {
	case !ok || f.IsInf():
		return f
	case mant <= 24:
		f32, _ := f.Float32()
		return big.NewFloat(float64(f32))
	case mant <= 53:
		f64, _ := f.Float64()
		return big.NewFloat(f64)
	}
	return new(big.Float).SetPrec(uint(mant)).Set(f)
}

// precisionOf returns the mantissa precision used for computations in t.
func precisionOf(t machine.Type, m *machine.Model) uint {
	if mant, _, ok := m.FloatFormat(t); ok && mant > 53 {
		return uint(mant)
	}
	return 53
}

// Calculate applies op to two numeric values. Operands are converted to
// calcType first and the result is cast to resultType. Operations without a
// defined result (division by zero, shifts out of range, bitwise operators
// on floating values) yield Unknown, as does any non-numeric operand.
func Calculate(op BinaryOperator, left, right Value, calcType, resultType machine.Type, m *machine.Model) Value {
	l, lok := left.(NumericValue)
	r, rok := right.(NumericValue)
	if !lok || !rok {
		return Unknown
	}
	var res Value
	if calcType.IsFloating() || (!calcType.IsIntegral() && (!l.IsInteger() || !r.IsInteger())) {
		res = calculateFloating(op, l, r, calcType, m)
	} else {
		res = calculateIntegral(op, l, r, calcType, m)
	}
	if op.IsRelational() {
		return res
	}
	return CastValue(res, resultType, m)
}

func calculateIntegral(op BinaryOperator, l, r NumericValue, calcType machine.Type, m *machine.Model) Value {
	lv, ok := AsIntegral(CastValue(l, calcType, m), calcType)
	if !ok {
		return Unknown
	}
	rv, ok := AsIntegral(CastValue(r, calcType, m), calcType)
	if !ok {
		return Unknown
	}
	res := new(big.Int)
	switch op {
	case Plus:
		res.Add(lv, rv)
	case Minus:
		res.Sub(lv, rv)
	case Multiply:
		res.Mul(lv, rv)
	case Divide:
		if rv.Sign() == 0 {
			return Unknown
		}
		res.Quo(lv, rv)
	case Modulo:
		if rv.Sign() == 0 {
			return Unknown
		}
		res.Rem(lv, rv)
	case ShiftLeft, ShiftRight:
		bits, _ := m.SizeofInBits(calcType)
		if rv.Sign() < 0 || rv.Cmp(big.NewInt(int64(bits))) >= 0 {
			return Unknown
		}
		if op == ShiftLeft {
			res.Lsh(lv, uint(rv.Uint64()))
		} else {
			res.Rsh(lv, uint(rv.Uint64()))
		}
	case BinaryAnd:
		res.And(lv, rv)
	case BinaryOr:
		res.Or(lv, rv)
	case BinaryXor:
		res.Xor(lv, rv)
	default:
		return truthValue(compareResult(op, lv.Cmp(rv)))
	}
	return NumericValue{i: res}
}

func calculateFloating(op BinaryOperator, l, r NumericValue, calcType machine.Type, m *machine.Model) Value {
	if l.IsNaN() || r.IsNaN() {
		switch {
		case op == NotEquals:
			return truthValue(true)
		case op.IsRelational():
			return truthValue(false)
		case op <= Divide:
			return NaN()
		}
		return Unknown
	}
	lf, _ := l.BigFloat()
	rf, _ := r.BigFloat()
	if op.IsRelational() {
		return truthValue(compareResult(op, lf.Cmp(rf)))
	}

	prec := precisionOf(calcType, m)
	res := new(big.Float).SetPrec(prec)
	switch op {
	case Plus:
		if lf.IsInf() && rf.IsInf() && lf.Sign() != rf.Sign() {
			return NaN()
		}
		res.Add(lf, rf)
	case Minus:
		if lf.IsInf() && rf.IsInf() && lf.Sign() == rf.Sign() {
			return NaN()
		}
		res.Sub(lf, rf)
	case Multiply:
		if (lf.IsInf() && rf.Sign() == 0) || (rf.IsInf() && lf.Sign() == 0) {
			return NaN()
		}
		res.Mul(lf, rf)
	case Divide:
		switch {
		case rf.Sign() == 0 && lf.Sign() == 0, lf.IsInf() && rf.IsInf():
			return NaN()
		case rf.Sign() == 0:
			return FloatValue(math.Inf(lf.Sign() * signOf(rf)))
		}
		res.Quo(lf, rf)
	default:
		return Unknown
	}
	if calcType.IsFloating() {
		return NumericValue{f: roundToFormat(res, calcType, m)}
	}
	return NumericValue{f: res}
}

// signOf returns the sign of f taking negative zero into account.
func signOf(f *big.Float) int {
	if f.Signbit() {
		return -1
	}
	return 1
}

func compareResult(op BinaryOperator, cmp int) bool {
	switch op {
	case Equals:
		return cmp == 0
	case NotEquals:
		return cmp != 0
	case LessThan:
		return cmp < 0
	case LessEqual:
		return cmp <= 0
	case GreaterThan:
		return cmp > 0
	case GreaterEqual:
		return cmp >= 0
	}
	return false
}

func truthValue(b bool) NumericValue {
	if b {
		return Int64Value(1)
	}
	return Int64Value(0)
}
