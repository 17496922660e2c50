// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package vcd

import (
	"fmt"
	"strings"
)

// Value represents one of the four states a single bit can take in a
// simulation trace.
type Value uint8

const (
	// V0 is a driven logic zero.
	V0 Value = iota
	// V1 is a driven logic one.
	V1
	// X is an unknown value.
	X
	// Z is a high-impedance value.
	Z
)

// ParseValue converts a single VCD value character into a Value.  Both upper
// and lower case are accepted for the unknown and high-impedance states.
func ParseValue(c byte) (Value, error) {
	switch c {
	case '0':
		return V0, nil
	case '1':
		return V1, nil
	case 'x', 'X':
		return X, nil
	case 'z', 'Z':
		return Z, nil
	}
	//
	return X, fmt.Errorf("invalid logic value '%c'", c)
}

func (v Value) String() string {
	switch v {
	case V0:
		return "0"
	case V1:
		return "1"
	case X:
		return "x"
	default:
		return "z"
	}
}

// Vector is a multi-bit value, most significant bit first.
type Vector []Value

// NewVector constructs a vector of the given width with every bit set to v.
func NewVector(width uint, v Value) Vector {
	vec := make(Vector, width)
	//
	for i := range vec {
		vec[i] = v
	}
	//
	return vec
}

// ParseVector parses the digits of a VCD vector change (i.e. the text after
// the leading 'b').
func ParseVector(digits string) (Vector, error) {
	vec := make(Vector, len(digits))
	//
	for i := 0; i < len(digits); i++ {
		v, err := ParseValue(digits[i])
		if err != nil {
			return nil, err
		}
		//
		vec[i] = v
	}
	//
	return vec, nil
}

// Width returns the number of bits in this vector.
func (v Vector) Width() uint {
	return uint(len(v))
}

// Extend left-extends this vector to a given width following the VCD rule:
// a leading 0 or 1 is padded with 0, whilst a leading x or z is padded with
// itself.  Vectors already at (or beyond) the given width are returned as is.
func (v Vector) Extend(width uint) Vector {
	if v.Width() >= width {
		return v
	}
	//
	pad := V0
	if len(v) > 0 && (v[0] == X || v[0] == Z) {
		pad = v[0]
	}
	//
	ext := NewVector(width-v.Width(), pad)
	//
	return append(ext, v...)
}

// Uint32 decodes this vector as an unsigned integer.  Bits which are x or z
// contribute nothing, as though they were 0.  Vectors are expected to be no
// wider than 32 bits; any higher bits are shifted out.
func (v Vector) Uint32() uint32 {
	var (
		n   = len(v)
		ret uint32
	)
	//
	for i, b := range v {
		if b == V1 {
			ret |= 1 << (n - i - 1)
		}
	}
	//
	return ret
}

func (v Vector) String() string {
	var builder strings.Builder
	//
	for _, b := range v {
		builder.WriteString(b.String())
	}
	//
	return builder.String()
}
