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
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"

	emath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/practical-formal-methods/valan/machine"
)

// NondetResolver supplies values for calls of nondeterministic functions.
type NondetResolver interface {
	// Resolve returns the value of call. If handled is false the call is
	// not a nondeterministic call and must be evaluated as usual.
	Resolve(call *CallExpression) (v Value, handled bool, err error)
}

// NondetStrategy selects how nondeterministic calls are resolved.
type NondetStrategy int

const (
	// StrategyDefault treats nondeterministic calls as unknown reads.
	StrategyDefault NondetStrategy = iota
	// StrategyReplay returns the values of a recorded test case.
	StrategyReplay
	// StrategyRandom draws random values.
	StrategyRandom
)

func (s NondetStrategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyReplay:
		return "replay"
	case StrategyRandom:
		return "random"
	}
	return fmt.Sprintf("NondetStrategy(%d)", int(s))
}

func ParseNondetStrategy(s string) (NondetStrategy, error) {
	switch s {
	case "default", "":
		return StrategyDefault, nil
	case "replay":
		return StrategyReplay, nil
	case "random":
		return StrategyRandom, nil
	}
	return 0, fmt.Errorf("unknown nondeterminism strategy %q", s)
}

// MissingReplayPolicy decides what happens when a recording has no value
// for a call.
type MissingReplayPolicy int

const (
	// FallbackToUnknown resolves this and every later call to Unknown.
	FallbackToUnknown MissingReplayPolicy = iota
	// RejectBranch fails the evaluation with ErrMissingReplayValue.
	RejectBranch
)

func ParseMissingReplayPolicy(s string) (MissingReplayPolicy, error) {
	switch s {
	case "unknown", "":
		return FallbackToUnknown, nil
	case "reject":
		return RejectBranch, nil
	}
	return 0, fmt.Errorf("unknown missing-value policy %q", s)
}

// nondetMarker recognizes nondeterministic functions by their name prefix.
type nondetMarker struct {
	prefix string
}

func (m nondetMarker) matches(call *CallExpression) bool {
	return strings.HasPrefix(call.Function, m.prefix)
}

// UnknownResolver resolves nothing; nondeterministic calls are unknown
// reads like any other call.
type UnknownResolver struct{}

func (UnknownResolver) Resolve(*CallExpression) (Value, bool, error) {
	return nil, false, nil
}

// ReplayResolver resolves nondeterministic calls with the values of a
// recorded test case, in call order.
type ReplayResolver struct {
	nondetMarker
	cursor *ReplayCursor
	policy MissingReplayPolicy
	model  *machine.Model

	exhausted int32
}

// NewReplayResolver creates a resolver consuming table along counter.
func NewReplayResolver(prefix string, table ReplayTable, counter *NondetCounter, policy MissingReplayPolicy, model *machine.Model) *ReplayResolver {
	return &ReplayResolver{
		nondetMarker: nondetMarker{prefix: prefix},
		cursor:       NewReplayCursor(table, counter),
		policy:       policy,
		model:        model,
	}
}

// Exhausted reports whether the resolver fell back to Unknown.
func (r *ReplayResolver) Exhausted() bool {
	return atomic.LoadInt32(&r.exhausted) != 0
}

func (r *ReplayResolver) Resolve(call *CallExpression) (Value, bool, error) {
	if !r.matches(call) {
		return nil, false, nil
	}
	// Every qualifying call consumes a position, also after exhaustion.
	s, pos, ok := r.cursor.Remove()
	if r.Exhausted() {
		return Unknown, true, nil
	}
	if !ok {
		if r.policy == RejectBranch {
			return nil, true, errors.Wrapf(ErrMissingReplayValue, "call %s at position %d", call.Function, pos)
		}
		if atomic.CompareAndSwapInt32(&r.exhausted, 0, 1) {
			log.Warn("No recorded value, treating remaining nondeterministic calls as unknown", "call", call.Function, "position", pos)
		}
		return Unknown, true, nil
	}
	return parseRecordedValue(s, call.Type, r.model), true, nil
}

// parseRecordedValue interprets a recorded value as a value of type t.
// Values that cannot be interpreted become Unknown.
func parseRecordedValue(s string, t machine.Type, m *machine.Model) Value {
	s = strings.TrimSpace(s)
	switch {
	case t.IsBool():
		if s == "0" {
			return Int64Value(0)
		}
		return Int64Value(1)
	case t.IsIntegral():
		bits, _ := m.SizeofInBits(t)
		switch bits {
		case 8, 16, 32, 64:
		default:
			log.Warn("Unsupported width for recorded value", "value", s, "type", t, "bits", bits)
			return Unknown
		}
		i, ok := parseIntegerLiteral(s)
		if !ok {
			log.Warn("Could not parse recorded value", "value", s, "type", t)
			return Unknown
		}
		return NumericValue{i: CastInteger(i, bits, m.IsSigned(t))}
	case t.IsFloating():
		mant, _, _ := m.FloatFormat(t)
		bitSize := 64
		if mant <= 24 {
			bitSize = 32
		}
		f, err := strconv.ParseFloat(trimFloatSuffix(s), bitSize)
		if err != nil {
			log.Warn("Could not parse recorded value", "value", s, "type", t, "err", err)
			return Unknown
		}
		return CastValue(FloatValue(f), t, m)
	}
	log.Warn("Unsupported type for recorded value", "value", s, "type", t)
	return Unknown
}

// trimFloatSuffix removes a single C float suffix following a digit or
// a decimal point.
func trimFloatSuffix(s string) string {
	if len(s) < 2 || !strings.ContainsAny(s[len(s)-1:], "fFlL") {
		return s
	}
	if c := s[len(s)-2]; c == '.' || ('0' <= c && c <= '9') {
		return s[:len(s)-1]
	}
	return s
}

// parseIntegerLiteral parses decimal and hexadecimal literals with an
// optional sign and C suffixes, and quoted character literals.
func parseIntegerLiteral(s string) (*big.Int, bool) {
	if len(s) >= 3 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err != nil || tail != "" {
			return nil, false
		}
		return big.NewInt(int64(r)), true
	}
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	s = strings.TrimRight(s, "uUlL")
	if s == "" {
		return nil, false
	}
	i, ok := emath.ParseBig256(s)
	if !ok {
		return nil, false
	}
	if neg {
		i.Neg(i)
	}
	return i, true
}

// RandomResolver resolves nondeterministic calls with random values.
type RandomResolver struct {
	nondetMarker
	sampler *Sampler
}

func NewRandomResolver(prefix string, sampler *Sampler) *RandomResolver {
	return &RandomResolver{nondetMarker: nondetMarker{prefix: prefix}, sampler: sampler}
}

func (r *RandomResolver) Resolve(call *CallExpression) (Value, bool, error) {
	if !r.matches(call) {
		return nil, false, nil
	}
	v, err := r.sampler.Sample(call.Type)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}
