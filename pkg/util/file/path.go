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
package file

import (
	"slices"
	"strings"
)

// Path describes a route through a hierarchical namespace, such as the scopes
// of a simulation trace.  All but the last segment name enclosing scopes,
// whilst the last segment names the item (e.g. a variable) being identified.
type Path struct {
	segments []string
}

// NewPath constructs a new path from the given segments, outermost first.
func NewPath(segments ...string) Path {
	return Path{segments}
}

// Depth returns the number of segments in this path (a.k.a its depth).
func (p Path) Depth() uint {
	return uint(len(p.segments))
}

// Head returns the first (i.e. outermost) segment in this path.
func (p Path) Head() string {
	return p.segments[0]
}

// Dehead removes the head from this path, returning an otherwise identical
// path.
func (p Path) Dehead() Path {
	return Path{p.segments[1:]}
}

// Tail returns the last (i.e. innermost) segment in this path.
func (p Path) Tail() string {
	n := len(p.segments) - 1
	return p.segments[n]
}

// Get returns the nth segment of this path.
func (p Path) Get(nth uint) string {
	return p.segments[nth]
}

// Segments returns a copy of the segments making up this path.
func (p Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Equals determines whether two paths are the same.
func (p Path) Equals(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// PrefixOf checks whether this path is a prefix of the other.
func (p Path) PrefixOf(other Path) bool {
	if len(p.segments) > len(other.segments) {
		return false
	}
	//
	return slices.Equal(p.segments, other.segments[:len(p.segments)])
}

// Parent returns the parent of this path.
func (p Path) Parent() Path {
	n := len(p.segments) - 1
	return Path{p.segments[0:n]}
}

// Extend returns this path extended with one or more new innermost segments.
// The original path is unaffected.
func (p Path) Extend(tail ...string) Path {
	segments := make([]string, 0, len(p.segments)+len(tail))
	segments = append(segments, p.segments...)
	//
	return Path{append(segments, tail...)}
}

// String returns a dotted representation of this path, such as
// "TOP.core.clk".
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}
