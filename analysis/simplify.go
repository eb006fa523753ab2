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

// Simplify rewrites an expression tree bottom-up.
//
// The only rewrite is x - x => 0 for a numeric result type. Other nodes are
// rebuilt from their simplified operands. A single pass is not guaranteed to
// reach a fixpoint.
func Simplify(e Expr) Expr {
	bin, ok := e.(*BinaryOpExpr)
	if !ok {
		return e
	}
	left := Simplify(bin.Left)
	right := Simplify(bin.Right)

	if bin.Op == Minus && bin.Type.IsArithmetic() {
		l, lok := left.(*SymbolExpr)
		r, rok := right.(*SymbolExpr)
		if lok && rok && l.Loc == r.Loc {
			return &ConstantExpr{Value: Int64Value(0), Type: bin.Type}
		}
	}

	if left == bin.Left && right == bin.Right {
		return bin
	}
	return &BinaryOpExpr{
		Op:       bin.Op,
		Left:     left,
		Right:    right,
		Type:     bin.Type,
		CalcType: bin.CalcType,
	}
}
