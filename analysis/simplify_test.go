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
	"testing"

	"github.com/practical-formal-methods/valan/machine"
)

func TestSimplify(t *testing.T) {
	x := &SymbolExpr{Loc: locX, Type: intType}
	y := &SymbolExpr{Loc: locY, Type: intType}
	one := &ConstantExpr{Value: Int64Value(1), Type: intType}
	ptr := machine.Typ[machine.Pointer]

	tests := []struct {
		name string
		in   Expr
		want string
	}{
		{"x - x", &BinaryOpExpr{Op: Minus, Left: x, Right: x, Type: intType, CalcType: intType}, "0"},
		{"x - y", &BinaryOpExpr{Op: Minus, Left: x, Right: y, Type: intType, CalcType: intType}, "($main::x - $main::y)"},
		{"x + x", &BinaryOpExpr{Op: Plus, Left: x, Right: x, Type: intType, CalcType: intType}, "($main::x + $main::x)"},
		{"pointer difference", &BinaryOpExpr{Op: Minus, Left: x, Right: x, Type: ptr, CalcType: ptr}, "($main::x - $main::x)"},
		{"nested", &BinaryOpExpr{
			Op:       Plus,
			Left:     &BinaryOpExpr{Op: Minus, Left: y, Right: y, Type: intType, CalcType: intType},
			Right:    one,
			Type:     intType,
			CalcType: intType,
		}, "(0 + 1)"},
		{"leaf", x, "$main::x"},
	}
	for _, tt := range tests {
		if got := Simplify(tt.in).String(); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestSimplifyKeepsUnchangedTrees(t *testing.T) {
	e := &BinaryOpExpr{
		Op:    Multiply,
		Left:  &SymbolExpr{Loc: locX, Type: intType},
		Right: &ConstantExpr{Value: Int64Value(2), Type: intType},
		Type:  intType,
	}
	if Simplify(e) != Expr(e) {
		t.Error("simplifying a tree without rewrites allocated a new tree")
	}
}

func TestSimplifiedZeroHasResultType(t *testing.T) {
	long := machine.Typ[machine.Long]
	x := &SymbolExpr{Loc: locX, Type: long}
	got, ok := Simplify(&BinaryOpExpr{Op: Minus, Left: x, Right: x, Type: long, CalcType: long}).(*ConstantExpr)
	if !ok {
		t.Fatal("x - x was not folded")
	}
	if got.Type != long {
		t.Errorf("folded constant has type %v, want %v", got.Type, long)
	}
}
