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
	"github.com/consensys/go-vcdstep/pkg/util/file"
)

// IdCode is the short identifier code which a trace header assigns to each
// declared variable.  Value changes in the trace body refer to variables only
// by their code.  Codes are meaningful within a single trace file only.
type IdCode string

// Var is a variable declared in a trace header.
type Var struct {
	// Kind of variable (e.g. "wire", "reg").
	Kind string
	// Number of bits in this variable.
	Width uint
	// Identifier code used in value changes.
	Code IdCode
	// Name of this variable within its enclosing scope (e.g. "regfile[3]").
	Reference string
	// Bit range following the reference, if any (e.g. "[4:0]").
	Index string
}

// Scope is a named level in the hierarchical namespace of a trace.
type Scope struct {
	// Kind of scope (e.g. "module", "begin").
	Kind string
	// Name of this scope.
	Name string
	// Nested scopes, in declaration order.
	Scopes []*Scope
	// Variables declared directly in this scope, in declaration order.
	Vars []*Var
}

// FindScope returns the immediately nested scope with a given name, or nil.
func (p *Scope) FindScope(name string) *Scope {
	for _, s := range p.Scopes {
		if s.Name == name {
			return s
		}
	}
	//
	return nil
}

// FindVar returns the variable declared directly in this scope with a given
// reference, or nil.
func (p *Scope) FindVar(reference string) *Var {
	for _, v := range p.Vars {
		if v.Reference == reference {
			return v
		}
	}
	//
	return nil
}

// Header captures everything declared before the "$enddefinitions" keyword of
// a trace file.
type Header struct {
	Date      string
	Version   string
	Timescale string
	Comments  []string
	// Outermost scopes, in declaration order.
	Scopes []*Scope
}

// FindScope resolves a path of scope names, starting from the outermost
// scopes, or returns nil if some segment does not exist.
func (p *Header) FindScope(path file.Path) *Scope {
	var scope *Scope
	//
	for i := uint(0); i < path.Depth(); i++ {
		if i == 0 {
			scope = p.root(path.Head())
		} else {
			scope = scope.FindScope(path.Get(i))
		}
		//
		if scope == nil {
			return nil
		}
	}
	//
	return scope
}

// FindVar resolves a variable path (i.e. enclosing scopes followed by the
// variable's reference), or returns nil if no such variable exists.
func (p *Header) FindVar(path file.Path) *Var {
	if path.Depth() < 2 {
		return nil
	} else if scope := p.FindScope(path.Parent()); scope != nil {
		return scope.FindVar(path.Tail())
	}
	//
	return nil
}

// Walk visits every variable in this header along with its full path.  Within
// a scope, its own variables are visited before those of nested scopes.
func (p *Header) Walk(fn func(file.Path, *Var)) {
	for _, s := range p.Scopes {
		walk(file.NewPath(s.Name), s, fn)
	}
}

// NumVars returns the total number of variables declared in this header.
func (p *Header) NumVars() uint {
	var n uint
	//
	p.Walk(func(file.Path, *Var) { n++ })
	//
	return n
}

func (p *Header) root(name string) *Scope {
	for _, s := range p.Scopes {
		if s.Name == name {
			return s
		}
	}
	//
	return nil
}

func walk(path file.Path, scope *Scope, fn func(file.Path, *Var)) {
	for _, v := range scope.Vars {
		fn(path.Extend(v.Reference), v)
	}
	//
	for _, s := range scope.Scopes {
		walk(path.Extend(s.Name), s, fn)
	}
}
