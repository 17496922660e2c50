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
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-vcdstep/pkg/uarch"
	"github.com/consensys/go-vcdstep/pkg/util/file"
	"github.com/consensys/go-vcdstep/pkg/vcd"
)

// TraceBuilder produces the text of a synthetic trace declaring the signals of
// a catalog, for use in tests.  The header is generated from the catalog,
// whilst the body is built up from the changes given.
type TraceBuilder struct {
	catalog *uarch.Catalog
	// Extra (untracked) variables to declare
	extra []file.Path
	// Paths left out of the header
	omitted map[string]bool
	// Width overrides
	widths map[string]uint
	// Identifier code of each declared path
	codes map[string]vcd.IdCode
	body  strings.Builder
}

// NewTraceBuilder constructs a builder declaring every signal of a catalog,
// along with an untracked variable "TOP.core.pc".
func NewTraceBuilder(catalog *uarch.Catalog) *TraceBuilder {
	return &TraceBuilder{
		catalog: catalog,
		extra:   []file.Path{uarch.Core.Extend("pc")},
		omitted: make(map[string]bool),
		widths:  make(map[string]uint),
	}
}

// DefaultWidth returns the declared width of a given field in synthetic traces.
func DefaultWidth(field uarch.Field) uint {
	switch {
	case field.IsFlag():
		return 1
	case field == uarch.PhysReg || field == uarch.IsqOp1Data || field == uarch.IsqOp2Data:
		return 32
	case field == uarch.RobArchRd || field == uarch.IsqAluCmd:
		return 5
	case field == uarch.IsqOp2Type || field == uarch.IsqBankAddr:
		return 1
	case field == uarch.IsqRobAddr:
		return 4
	default:
		return 6
	}
}

// Omit leaves a given path out of the header.
func (p *TraceBuilder) Omit(path file.Path) *TraceBuilder {
	p.omitted[path.String()] = true
	return p
}

// Width overrides the declared width of a given path.
func (p *TraceBuilder) Width(path file.Path, width uint) *TraceBuilder {
	p.widths[path.String()] = width
	return p
}

// Time appends a timestamp.
func (p *TraceBuilder) Time(t uint64) *TraceBuilder {
	return p.Raw(fmt.Sprintf("#%d", t))
}

// Clock appends a change of the clock.
func (p *TraceBuilder) Clock(value string) *TraceBuilder {
	return p.Scalar(p.catalog.Clock().Path, value)
}

// Scalar appends a single bit change of a given variable.
func (p *TraceBuilder) Scalar(path file.Path, value string) *TraceBuilder {
	return p.Raw(fmt.Sprintf("%s%s", value, p.code(path)))
}

// Vector appends a multi-bit change of a given variable.
func (p *TraceBuilder) Vector(path file.Path, bits string) *TraceBuilder {
	return p.Raw(fmt.Sprintf("b%s %s", bits, p.code(path)))
}

// Raw appends a line of text to the body.
func (p *TraceBuilder) Raw(line string) *TraceBuilder {
	p.body.WriteString(line)
	p.body.WriteString("\n")
	//
	return p
}

// String returns the text of the trace built so far.
func (p *TraceBuilder) String() string {
	p.assignCodes()
	//
	var (
		builder strings.Builder
		root    = p.tree()
	)
	//
	builder.WriteString("$date today $end\n$version synthetic $end\n$timescale 1ps $end\n")
	root.write(&builder)
	builder.WriteString("$enddefinitions $end\n")
	builder.WriteString(p.body.String())
	//
	return builder.String()
}

// WriteFile writes the trace built so far into a temporary directory, returning
// its filename.
func (p *TraceBuilder) WriteFile(t *testing.T) string {
	t.Helper()
	//
	filename := filepath.Join(t.TempDir(), "trace.vcd")
	//
	if err := os.WriteFile(filename, []byte(p.String()), 0600); err != nil {
		t.Fatal(err)
	}
	//
	return filename
}

// Identifier code assigned to a given path.
func (p *TraceBuilder) code(path file.Path) vcd.IdCode {
	p.assignCodes()
	//
	if code, ok := p.codes[path.String()]; ok {
		return code
	}
	//
	panic(fmt.Sprintf("unknown path %s", path.String()))
}

func (p *TraceBuilder) paths() []file.Path {
	var paths []file.Path
	//
	for _, e := range p.catalog.Entries {
		paths = append(paths, e.Path)
	}
	//
	return append(paths, p.extra...)
}

func (p *TraceBuilder) width(path file.Path, field uarch.Field) uint {
	if w, ok := p.widths[path.String()]; ok {
		return w
	}
	//
	return DefaultWidth(field)
}

// Codes are assigned once, in catalog order, using the printable characters
// from '!' to '~' as digits.
func (p *TraceBuilder) assignCodes() {
	if p.codes != nil {
		return
	}
	//
	p.codes = make(map[string]vcd.IdCode)
	//
	for i, path := range p.paths() {
		p.codes[path.String()] = encodeCode(uint(i))
	}
}

func encodeCode(n uint) vcd.IdCode {
	var code []byte
	//
	for {
		code = append(code, byte('!'+n%94))
		n /= 94
		//
		if n == 0 {
			return vcd.IdCode(code)
		}
		//
		n--
	}
}

type scopeNode struct {
	name   string
	scopes []*scopeNode
	vars   []string
}

func (p *scopeNode) child(name string) *scopeNode {
	for _, s := range p.scopes {
		if s.name == name {
			return s
		}
	}
	//
	s := &scopeNode{name: name}
	p.scopes = append(p.scopes, s)
	//
	return s
}

// Construct the scope tree of all declared paths.  Each variable is recorded
// as its declaration line.
func (p *TraceBuilder) tree() *scopeNode {
	var (
		root   = &scopeNode{}
		fields = make(map[string]uarch.Field)
	)
	//
	for _, e := range p.catalog.Entries {
		fields[e.Path.String()] = e.Role.Field
	}
	//
	for _, path := range p.paths() {
		if p.omitted[path.String()] {
			continue
		}
		//
		node := root
		//
		for i := uint(0); i+1 < path.Depth(); i++ {
			node = node.child(path.Get(i))
		}
		//
		field, tracked := fields[path.String()]
		width := uint(32)
		//
		if tracked {
			width = p.width(path, field)
		}
		//
		decl := fmt.Sprintf("$var wire %d %s %s $end", width, p.codes[path.String()], path.Tail())
		node.vars = append(node.vars, decl)
	}
	//
	return root
}

func (p *scopeNode) write(builder *strings.Builder) {
	for _, v := range p.vars {
		builder.WriteString(v)
		builder.WriteString("\n")
	}
	//
	for _, s := range p.scopes {
		fmt.Fprintf(builder, "$scope module %s $end\n", s.name)
		s.write(builder)
		builder.WriteString("$upscope $end\n")
	}
}
