// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lpmodel

import (
	"fmt"
	"math"
)

// Inf returns positive infinity, suitable for an absent upper bound.
func Inf() float64 {
	return math.Inf(1)
}

// NegInf returns negative infinity, suitable for an absent lower bound.
func NegInf() float64 {
	return math.Inf(-1)
}

// Bounds stores the closed interval `[Lower,Upper]` a variable may take. Either end may be
// infinite. The zero value is the fixed interval `[0,0]`; use NonNegative for the default
// variable domain.
type Bounds struct {
	Lower float64
	Upper float64
}

// NonNegative returns the default variable domain `[0,+inf)`.
func NonNegative() Bounds {
	return Bounds{Lower: 0, Upper: math.Inf(1)}
}

// NewBounds creates the interval `[lower,upper]`. It returns an error wrapping
// ErrInvalidBounds if either end is NaN, if `lower` is +inf, if `upper` is -inf, or if
// `lower > upper`.
func NewBounds(lower, upper float64) (Bounds, error) {
	b := Bounds{Lower: lower, Upper: upper}
	if err := b.validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// Free returns the unrestricted interval `(-inf,+inf)`.
func Free() Bounds {
	return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

func (b Bounds) validate() error {
	switch {
	case math.IsNaN(b.Lower) || math.IsNaN(b.Upper):
		return fmt.Errorf("bounds [%v,%v] contain NaN: %w", b.Lower, b.Upper, ErrInvalidBounds)
	case math.IsInf(b.Lower, 1):
		return fmt.Errorf("lower bound must not be +inf: %w", ErrInvalidBounds)
	case math.IsInf(b.Upper, -1):
		return fmt.Errorf("upper bound must not be -inf: %w", ErrInvalidBounds)
	case b.Lower > b.Upper:
		return fmt.Errorf("lower bound %v is greater than upper bound %v: %w", b.Lower, b.Upper, ErrInvalidBounds)
	}
	return nil
}

// HasLower reports whether the lower bound is finite.
func (b Bounds) HasLower() bool {
	return !math.IsInf(b.Lower, -1)
}

// HasUpper reports whether the upper bound is finite.
func (b Bounds) HasUpper() bool {
	return !math.IsInf(b.Upper, 1)
}

// IsFixed reports whether the interval holds a single value.
func (b Bounds) IsFixed() bool {
	return b.Lower == b.Upper
}

// Contains reports whether `v` lies in the interval, allowing a violation of at most `tol`
// on either side.
func (b Bounds) Contains(v, tol float64) bool {
	return v >= b.Lower-tol && v <= b.Upper+tol
}

// String returns the interval as `[lower,upper]`.
func (b Bounds) String() string {
	return fmt.Sprintf("[%v,%v]", b.Lower, b.Upper)
}
