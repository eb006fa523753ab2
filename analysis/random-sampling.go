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
	"math/big"
	"math/rand"
	"sync"

	emath "github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/practical-formal-methods/valan/machine"
)

// Sampler draws random values of primitive types. It is safe for
// concurrent use.
type Sampler struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	model *machine.Model
}

// NewSampler returns a sampler seeded with seed.
func NewSampler(seed int64, model *machine.Model) *Sampler {
	return &Sampler{
		rnd:   rand.New(rand.NewSource(seed)),
		model: model,
	}
}

// Sample draws a value of type t.
func (s *Sampler) Sample(t machine.Type) (Value, error) {
	if !t.IsPrimitive() {
		return nil, errors.Wrapf(ErrUnsupportedType, "cannot draw a random %v", t)
	}
	switch {
	case t.IsBool():
		s.mu.Lock()
		b := s.rnd.Intn(2)
		s.mu.Unlock()
		return Int64Value(int64(b)), nil
	case t.IsIntegral():
		min, _ := s.model.MinValue(t)
		max, _ := s.model.MaxValue(t)
		i, err := s.SampleInteger(min, max)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot draw a random %v", t)
		}
		return NumericValue{i: i}, nil
	}
	return s.SampleFloat(t)
}

// SampleInteger draws an integer for the range [min, max].
//
// A candidate c of ceil(log2(max-min)) random bits is drawn until
// min < c < max holds, and c+min is returned. The comparison is done on
// the candidate before min is added, so the drawn values are not uniform
// over [min, max]: for a signed range they lie in [min, min+max-1], and the
// bounds themselves are never returned.
func (s *Sampler) SampleInteger(min, max *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(max, min)
	bits := 0
	if span.Sign() > 0 {
		bits = new(big.Int).Sub(span, big.NewInt(1)).BitLen()
	}
	limit := emath.BigPow(2, int64(bits))

	// Reject ranges in which no candidate can ever be accepted.
	lo := emath.BigMax(new(big.Int).Add(min, big.NewInt(1)), new(big.Int))
	hi := emath.BigMin(new(big.Int).Sub(max, big.NewInt(1)), new(big.Int).Sub(limit, big.NewInt(1)))
	if lo.Cmp(hi) > 0 {
		return nil, errors.Errorf("no candidate in range [%v, %v]", min, max)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < sampleRetryLimit; i++ {
		c := new(big.Int).Rand(s.rnd, limit)
		if c.Cmp(max) >= 0 || c.Cmp(min) <= 0 {
			continue
		}
		return c.Add(c, min), nil
	}
	return nil, errors.Errorf("gave up drawing from [%v, %v]", min, max)
}

// SampleFloat draws a value uniformly from [-m, m] where m is the largest
// finite value of the floating type t.
func (s *Sampler) SampleFloat(t machine.Type) (Value, error) {
	max, ok := s.model.MaxFloat(t)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "no floating format for %v", t)
	}
	s.mu.Lock()
	u := s.rnd.Float64()
	s.mu.Unlock()
	return CastValue(FloatValue((2*u-1)*max), t, s.model), nil
}
