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
	"github.com/practical-formal-methods/valan/machine"
)

// BinaryOperator is an arithmetic, bitwise or relational C operator.
type BinaryOperator uint8

const (
	Plus BinaryOperator = iota
	Minus
	Multiply
	Divide
	Modulo
	ShiftLeft
	ShiftRight
	BinaryAnd
	BinaryOr
	BinaryXor
	Equals
	NotEquals
	LessThan
	LessEqual
	GreaterThan
	GreaterEqual
)

var operatorSymbols = [...]string{
	Plus:         "+",
	Minus:        "-",
	Multiply:     "*",
	Divide:       "/",
	Modulo:       "%",
	ShiftLeft:    "<<",
	ShiftRight:   ">>",
	BinaryAnd:    "&",
	BinaryOr:     "|",
	BinaryXor:    "^",
	Equals:       "==",
	NotEquals:    "!=",
	LessThan:     "<",
	LessEqual:    "<=",
	GreaterThan:  ">",
	GreaterEqual: ">=",
}

func (op BinaryOperator) String() string {
	if int(op) < len(operatorSymbols) {
		return operatorSymbols[op]
	}
	return "?"
}

// ParseBinaryOperator returns the operator spelled sym.
func ParseBinaryOperator(sym string) (BinaryOperator, bool) {
	for op, s := range operatorSymbols {
		if s == sym {
			return BinaryOperator(op), true
		}
	}
	return 0, false
}

// IsRelational reports whether op yields a truth value.
func (op BinaryOperator) IsRelational() bool {
	return op >= Equals
}

// Expr is a node of a symbolic expression tree: a ConstantExpr, a SymbolExpr
// or a BinaryOpExpr. Trees are immutable.
type Expr interface {
	String() string
	ExprType() machine.Type
	isExpr()
}

// ConstantExpr is a leaf holding a known value.
type ConstantExpr struct {
	Value Value
	Type  machine.Type
}

// SymbolExpr is a leaf standing for the unknown content of a location.
type SymbolExpr struct {
	Loc  MemoryLocation
	Type machine.Type
}

// BinaryOpExpr applies Op to its operands. Operands are converted to
// CalcType before the operation; the result has type Type.
type BinaryOpExpr struct {
	Op          BinaryOperator
	Left, Right Expr
	Type        machine.Type
	CalcType    machine.Type
}

func (*ConstantExpr) isExpr() {}
func (*SymbolExpr) isExpr()   {}
func (*BinaryOpExpr) isExpr() {}

func (e *ConstantExpr) ExprType() machine.Type { return e.Type }
func (e *SymbolExpr) ExprType() machine.Type   { return e.Type }
func (e *BinaryOpExpr) ExprType() machine.Type { return e.Type }

func (e *ConstantExpr) String() string { return e.Value.String() }
func (e *SymbolExpr) String() string   { return "$" + e.Loc.String() }

func (e *BinaryOpExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// ExprEqual compares two expression trees structurally.
func ExprEqual(a, b Expr) bool {
	switch a := a.(type) {
	case *ConstantExpr:
		b, ok := b.(*ConstantExpr)
		return ok && a.Type == b.Type && ValuesEqual(a.Value, b.Value)
	case *SymbolExpr:
		b, ok := b.(*SymbolExpr)
		return ok && a.Type == b.Type && a.Loc == b.Loc
	case *BinaryOpExpr:
		b, ok := b.(*BinaryOpExpr)
		return ok && a.Op == b.Op && a.Type == b.Type && a.CalcType == b.CalcType &&
			ExprEqual(a.Left, b.Left) && ExprEqual(a.Right, b.Right)
	}
	return false
}
