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

package main

import (
	"fmt"
	"math/big"
	"strconv"

	emath "github.com/ethereum/go-ethereum/common/math"

	"github.com/practical-formal-methods/valan/analysis"
	"github.com/practical-formal-methods/valan/machine"
)

// Step_msg assigns the value of Expr to Target.
type Step_msg struct {
	Target string
	Type   string
	Expr   *Expr_msg
}

// Expr_msg is one node of a source expression. Exactly one of ID, Literal,
// Call, Op and Cast is set.
type Expr_msg struct {
	Type    string
	ID      string    `json:",omitempty"`
	Literal string    `json:",omitempty"`
	Call    string    `json:",omitempty"`
	Op      string    `json:",omitempty"`
	Left    *Expr_msg `json:",omitempty"`
	Right   *Expr_msg `json:",omitempty"`
	Cast    *Expr_msg `json:",omitempty"`
}

func parseType(name string) (machine.Type, error) {
	k, ok := machine.ParseKind(name)
	if !ok {
		return machine.Type{}, fmt.Errorf("unknown type %q", name)
	}
	return machine.Typ[k], nil
}

func parseLiteral(lit string, t machine.Type) (analysis.Value, error) {
	if t.IsFloating() {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, err
		}
		return analysis.FloatValue(f), nil
	}
	neg := len(lit) > 0 && lit[0] == '-'
	if neg {
		lit = lit[1:]
	}
	i, ok := emath.ParseBig256(lit)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", lit)
	}
	if neg {
		i = new(big.Int).Neg(i)
	}
	return analysis.IntValue(i), nil
}

func (e *Expr_msg) expression() (analysis.Expression, error) {
	if e == nil {
		return nil, fmt.Errorf("missing expression")
	}
	t, err := parseType(e.Type)
	if err != nil {
		return nil, err
	}
	switch {
	case e.ID != "":
		loc, err := analysis.ParseLocation(e.ID)
		if err != nil {
			return nil, err
		}
		return &analysis.IDExpression{Loc: loc, Type: t}, nil
	case e.Literal != "":
		v, err := parseLiteral(e.Literal, t)
		if err != nil {
			return nil, err
		}
		return &analysis.LiteralExpression{Value: v, Type: t}, nil
	case e.Call != "":
		return &analysis.CallExpression{Function: e.Call, Type: t}, nil
	case e.Cast != nil:
		operand, err := e.Cast.expression()
		if err != nil {
			return nil, err
		}
		return &analysis.CastExpression{Operand: operand, Type: t}, nil
	case e.Op != "":
		op, ok := analysis.ParseBinaryOperator(e.Op)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", e.Op)
		}
		left, err := e.Left.expression()
		if err != nil {
			return nil, err
		}
		right, err := e.Right.expression()
		if err != nil {
			return nil, err
		}
		// Comparisons are computed in the operand type.
		calc := t
		if op.IsRelational() {
			calc = left.ExpressionType()
		}
		return &analysis.BinaryExpression{Op: op, Left: left, Right: right, Type: t, CalcType: calc}, nil
	}
	return nil, fmt.Errorf("empty expression")
}

// execute runs steps from the initial state of d.
func execute(d *analysis.Domain, steps []Step_msg) (*analysis.AnalysisState, error) {
	eval := d.Evaluator()
	s := d.InitialState()
	for i, step := range steps {
		loc, err := analysis.ParseLocation(step.Target)
		if err != nil {
			return nil, fmt.Errorf("step %d: %v", i, err)
		}
		t, err := parseType(step.Type)
		if err != nil {
			return nil, fmt.Errorf("step %d: %v", i, err)
		}
		rhs, err := step.Expr.expression()
		if err != nil {
			return nil, fmt.Errorf("step %d: %v", i, err)
		}
		if s, err = eval.Assign(s, loc, t, rhs); err != nil {
			return nil, fmt.Errorf("step %d: %v", i, err)
		}
	}
	return s, nil
}
