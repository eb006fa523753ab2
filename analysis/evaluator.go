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

// Expression is a side-effect free program expression: an IDExpression, a
// LiteralExpression, a BinaryExpression, a CastExpression or a
// CallExpression.
type Expression interface {
	ExpressionType() machine.Type
	isExpression()
}

// IDExpression reads a memory location.
type IDExpression struct {
	Loc  MemoryLocation
	Type machine.Type
}

// LiteralExpression is a constant of the program text.
type LiteralExpression struct {
	Value Value
	Type  machine.Type
}

// BinaryExpression applies Op after converting both operands to CalcType.
type BinaryExpression struct {
	Op          BinaryOperator
	Left, Right Expression
	Type        machine.Type
	CalcType    machine.Type
}

// CastExpression converts its operand to Type.
type CastExpression struct {
	Operand Expression
	Type    machine.Type
}

// CallExpression calls a function by name. Type is the result type.
type CallExpression struct {
	Function string
	Args     []Expression
	Type     machine.Type
}

func (*IDExpression) isExpression()      {}
func (*LiteralExpression) isExpression() {}
func (*BinaryExpression) isExpression()  {}
func (*CastExpression) isExpression()    {}
func (*CallExpression) isExpression()    {}

func (e *IDExpression) ExpressionType() machine.Type      { return e.Type }
func (e *LiteralExpression) ExpressionType() machine.Type { return e.Type }
func (e *BinaryExpression) ExpressionType() machine.Type  { return e.Type }
func (e *CastExpression) ExpressionType() machine.Type    { return e.Type }
func (e *CallExpression) ExpressionType() machine.Type    { return e.Type }

// Evaluator evaluates expressions in analysis states.
type Evaluator struct {
	Model *machine.Model
	// Resolver handles calls of nondeterministic functions. A nil resolver
	// evaluates them like any other call.
	Resolver NondetResolver
	// SymbolicValues makes reads of untracked locations symbolic.
	SymbolicValues bool
}

// Visitor returns a visitor evaluating expressions in s.
func (e Evaluator) Visitor(s *AnalysisState) *ValueVisitor {
	return &ValueVisitor{
		state:    s,
		model:    e.Model,
		resolver: e.Resolver,
		symbolic: e.SymbolicValues,
	}
}

// Assign evaluates rhs in s and binds the result, cast to t, to loc.
// Unknown results forget loc. If a value was drawn randomly the resulting
// state carries the random-choice marker.
func (e Evaluator) Assign(s *AnalysisState, loc MemoryLocation, t machine.Type, rhs Expression) (*AnalysisState, error) {
	v := e.Visitor(s)
	val, err := v.Evaluate(rhs)
	if err != nil {
		return nil, err
	}
	val = CastValue(val, t, e.Model)
	var ns *AnalysisState
	if IsUnknown(val) {
		ns = s.Forget(loc)
	} else {
		ns = s.AssignConstant(loc, val, t)
	}
	if v.UsedRandomChoice() {
		ns = ns.WithRandomChoice()
	}
	return ns, nil
}

// ValueVisitor evaluates expressions in one state.
type ValueVisitor struct {
	state      *AnalysisState
	model      *machine.Model
	resolver   NondetResolver
	symbolic   bool
	usedRandom bool
}

// UsedRandomChoice reports whether some evaluation drew a random value.
func (v *ValueVisitor) UsedRandomChoice() bool {
	return v.usedRandom
}

// Evaluate returns the abstract value of e.
func (v *ValueVisitor) Evaluate(e Expression) (Value, error) {
	switch e := e.(type) {
	case *IDExpression:
		if tv, ok := v.state.Lookup(e.Loc); ok && IsExplicitlyKnown(tv.Value) {
			return tv.Value, nil
		}
		if v.symbolic && e.Type.IsArithmetic() {
			return SymbolicValue{Expr: &SymbolExpr{Loc: e.Loc, Type: e.Type}}, nil
		}
		return Unknown, nil
	case *LiteralExpression:
		return CastValue(e.Value, e.Type, v.model), nil
	case *CastExpression:
		val, err := v.Evaluate(e.Operand)
		if err != nil {
			return nil, err
		}
		return CastValue(val, e.Type, v.model), nil
	case *BinaryExpression:
		return v.evaluateBinary(e)
	case *CallExpression:
		return v.evaluateCall(e)
	}
	return Unknown, nil
}

func (v *ValueVisitor) evaluateBinary(e *BinaryExpression) (Value, error) {
	left, err := v.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := v.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	_, lnum := left.(NumericValue)
	_, rnum := right.(NumericValue)
	if lnum && rnum {
		return Calculate(e.Op, left, right, e.CalcType, e.Type, v.model), nil
	}
	if !v.symbolic {
		return Unknown, nil
	}
	l, lok := symbolicOperand(left, e.Left.ExpressionType())
	r, rok := symbolicOperand(right, e.Right.ExpressionType())
	if !lok || !rok {
		return Unknown, nil
	}
	simplified := Simplify(&BinaryOpExpr{Op: e.Op, Left: l, Right: r, Type: e.Type, CalcType: e.CalcType})
	if c, ok := simplified.(*ConstantExpr); ok {
		return CastValue(c.Value, e.Type, v.model), nil
	}
	return SymbolicValue{Expr: simplified}, nil
}

// symbolicOperand turns an operand value into an expression tree.
func symbolicOperand(val Value, t machine.Type) (Expr, bool) {
	switch val := val.(type) {
	case NumericValue:
		return &ConstantExpr{Value: val, Type: t}, true
	case SymbolicValue:
		return val.Expr, true
	}
	return nil, false
}

func (v *ValueVisitor) evaluateCall(e *CallExpression) (Value, error) {
	if v.resolver == nil {
		return Unknown, nil
	}
	val, handled, err := v.resolver.Resolve(e)
	if err != nil {
		return nil, err
	}
	if !handled {
		return Unknown, nil
	}
	if _, ok := v.resolver.(*RandomResolver); ok {
		v.usedRandom = true
	}
	return val, nil
}
