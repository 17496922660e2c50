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
	"io"
	"strconv"
	"strings"
)

// CommandKind identifies the kind of a command found in the body of a trace.
type CommandKind uint8

const (
	// Timestamp advances simulation time.
	Timestamp CommandKind = iota
	// ChangeScalar assigns a single bit value to a variable.
	ChangeScalar
	// ChangeVector assigns a multi-bit value to a variable.
	ChangeVector
	// ChangeReal assigns a real value to a variable.
	ChangeReal
	// Directive is a simulation keyword such as "$dumpvars".
	Directive
)

// Command is a single entry in the body of a trace.  Which fields are
// meaningful depends upon the kind.
type Command struct {
	Kind CommandKind
	// Line on which this command started.
	Line int
	// Simulation time (Timestamp only).
	Time uint64
	// Variable being changed (changes only).
	Code IdCode
	// New value (ChangeScalar only).
	Value Value
	// New value (ChangeVector only).
	Vector Vector
	// New value (ChangeReal only).
	Real float64
	// Keyword, without its leading '$' (Directive only).
	Keyword string
}

// Parser reads a trace file: first its header, then its body one command at a
// time.  The body is never held in memory as a whole.
type Parser struct {
	scanner *scanner
	header  *Header
}

// NewParser constructs a parser reading from a given source.
func NewParser(r io.Reader) *Parser {
	return &Parser{newScanner(r), nil}
}

// ParseHeader reads all declarations up to and including "$enddefinitions".
// This must be called exactly once, before any call to Next.
func (p *Parser) ParseHeader() (*Header, error) {
	var (
		header Header
		// Stack of currently open scopes
		stack []*Scope
	)
	//
	for {
		word, err := p.scanner.Next()
		if err == io.EOF {
			return nil, p.scanner.errorf("missing $enddefinitions")
		} else if err != nil {
			return nil, err
		}
		//
		switch word {
		case "$date", "$version", "$timescale", "$comment":
			text, err := p.scanner.Until("$end")
			if err != nil {
				return nil, err
			}
			//
			header.setText(word, strings.Join(text, " "))
		case "$scope":
			scope, err := p.parseScope()
			if err != nil {
				return nil, err
			} else if len(stack) == 0 {
				header.Scopes = append(header.Scopes, scope)
			} else {
				parent := stack[len(stack)-1]
				parent.Scopes = append(parent.Scopes, scope)
			}
			//
			stack = append(stack, scope)
		case "$upscope":
			if len(stack) == 0 {
				return nil, p.scanner.errorf("unbalanced $upscope")
			} else if err := p.expectEnd(); err != nil {
				return nil, err
			}
			//
			stack = stack[:len(stack)-1]
		case "$var":
			v, err := p.parseVar()
			if err != nil {
				return nil, err
			} else if len(stack) == 0 {
				return nil, p.scanner.errorf("variable %s declared outside of any scope", v.Reference)
			}
			//
			scope := stack[len(stack)-1]
			scope.Vars = append(scope.Vars, v)
		case "$enddefinitions":
			if err := p.expectEnd(); err != nil {
				return nil, err
			} else if len(stack) != 0 {
				return nil, p.scanner.errorf("scope %s not closed", stack[len(stack)-1].Name)
			}
			//
			p.header = &header
			//
			return p.header, nil
		default:
			return nil, p.scanner.errorf("unexpected \"%s\" in header", word)
		}
	}
}

// Next reads the next command from the body of the trace, returning io.EOF
// once the body is exhausted.
func (p *Parser) Next() (Command, error) {
	for {
		word, err := p.scanner.Next()
		if err != nil {
			return Command{}, err
		}
		//
		line := p.scanner.start
		//
		switch word[0] {
		case '#':
			ts, err := strconv.ParseUint(word[1:], 10, 64)
			if err != nil {
				return Command{}, p.scanner.errorf("invalid timestamp \"%s\"", word)
			}
			//
			return Command{Kind: Timestamp, Line: line, Time: ts}, nil
		case '0', '1', 'x', 'X', 'z', 'Z':
			// Value and code are written without separation, as in "1!".
			if len(word) < 2 {
				return Command{}, p.scanner.errorf("scalar change \"%s\" is missing an identifier", word)
			}
			//
			value, _ := ParseValue(word[0])
			//
			return Command{Kind: ChangeScalar, Line: line, Code: IdCode(word[1:]), Value: value}, nil
		case 'b', 'B':
			vec, err := ParseVector(word[1:])
			if err != nil {
				return Command{}, p.scanner.errorf("vector change \"%s\": %s", word, err.Error())
			}
			//
			code, err := p.scanner.Expect("identifier")
			if err != nil {
				return Command{}, err
			}
			//
			return Command{Kind: ChangeVector, Line: line, Code: IdCode(code), Vector: vec}, nil
		case 'r', 'R':
			val, err := strconv.ParseFloat(word[1:], 64)
			if err != nil {
				return Command{}, p.scanner.errorf("invalid real value \"%s\"", word)
			}
			//
			code, err := p.scanner.Expect("identifier")
			if err != nil {
				return Command{}, err
			}
			//
			return Command{Kind: ChangeReal, Line: line, Code: IdCode(code), Real: val}, nil
		case '$':
			switch word {
			case "$dumpvars", "$dumpall", "$dumpon", "$dumpoff":
				return Command{Kind: Directive, Line: line, Keyword: word[1:]}, nil
			case "$end":
				// Closes a directive block
				continue
			case "$comment":
				if _, err := p.scanner.Until("$end"); err != nil {
					return Command{}, err
				}
				//
				continue
			}
		}
		//
		return Command{}, p.scanner.errorf("unexpected \"%s\" in trace body", word)
	}
}

// Header returns the header read by ParseHeader, or nil if it has not been
// read yet.
func (p *Parser) Header() *Header {
	return p.header
}

// Parse "$scope <kind> <name> $end", where the "$scope" keyword has already
// been consumed.
func (p *Parser) parseScope() (*Scope, error) {
	words, err := p.scanner.Until("$end")
	if err != nil {
		return nil, err
	} else if len(words) != 2 {
		return nil, p.scanner.errorf("malformed scope declaration \"%s\"", strings.Join(words, " "))
	}
	// Any kind is accepted, including non-standard ones such as "interface"
	// or "struct".
	return &Scope{Kind: words[0], Name: words[1]}, nil
}

// Parse "$var <kind> <width> <code> <reference> [index] $end", where the
// "$var" keyword has already been consumed.
func (p *Parser) parseVar() (*Var, error) {
	words, err := p.scanner.Until("$end")
	if err != nil {
		return nil, err
	} else if len(words) < 4 {
		return nil, p.scanner.errorf("malformed variable declaration \"%s\"", strings.Join(words, " "))
	}
	//
	width, err := strconv.ParseUint(words[1], 10, 32)
	if err != nil || width == 0 {
		return nil, p.scanner.errorf("invalid width \"%s\" for variable %s", words[1], words[3])
	}
	//
	return &Var{
		Kind:      words[0],
		Width:     uint(width),
		Code:      IdCode(words[2]),
		Reference: words[3],
		Index:     strings.Join(words[4:], ""),
	}, nil
}

func (p *Parser) expectEnd() error {
	word, err := p.scanner.Expect("$end")
	if err != nil {
		return err
	} else if word != "$end" {
		return p.scanner.errorf("expected $end, found \"%s\"", word)
	}
	//
	return nil
}

func (p *Header) setText(keyword string, text string) {
	switch keyword {
	case "$date":
		p.Date = text
	case "$version":
		p.Version = text
	case "$timescale":
		p.Timescale = text
	default:
		p.Comments = append(p.Comments, text)
	}
}
