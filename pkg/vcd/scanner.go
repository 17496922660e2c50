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
	"bufio"
	"fmt"
	"io"
)

// SyntaxError is a structured error which retains the line of the trace file
// on which an error occurred, along with an error message.
type SyntaxError struct {
	// Line number (counting from 1) where the error arose.
	Line int
	// Error message being reported
	Msg string
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Msg)
}

// scanner splits a trace into whitespace separated words, whilst keeping track
// of line numbers.  Words are read lazily from the underlying reader.
type scanner struct {
	reader *bufio.Reader
	// Current line number (counting from 1).
	line int
	// Line on which the most recently returned word started.
	start int
}

func newScanner(r io.Reader) *scanner {
	return &scanner{bufio.NewReader(r), 1, 1}
}

// Next returns the next word, or io.EOF when the input is exhausted.
func (p *scanner) Next() (string, error) {
	var word []byte
	// Skip leading whitespace
	for {
		c, err := p.reader.ReadByte()
		if err != nil {
			return "", err
		} else if !isSpace(c) {
			word = append(word, c)
			break
		} else if c == '\n' {
			p.line++
		}
	}
	//
	p.start = p.line
	// Read until whitespace or EOF
	for {
		c, err := p.reader.ReadByte()
		if err == io.EOF {
			return string(word), nil
		} else if err != nil {
			return "", err
		} else if isSpace(c) {
			if c == '\n' {
				p.line++
			}
			//
			return string(word), nil
		}
		//
		word = append(word, c)
	}
}

// Expect reads the next word, reporting a syntax error if the input ends
// prematurely.
func (p *scanner) Expect(what string) (string, error) {
	word, err := p.Next()
	if err == io.EOF {
		return "", p.errorf("unexpected end of file, expected %s", what)
	}
	//
	return word, err
}

// Until reads words up to (and including) a given terminator, returning the
// words read before it.
func (p *scanner) Until(terminator string) ([]string, error) {
	var words []string
	//
	for {
		word, err := p.Expect(terminator)
		if err != nil {
			return nil, err
		} else if word == terminator {
			return words, nil
		}
		//
		words = append(words, word)
	}
}

func (p *scanner) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{p.start, fmt.Sprintf(format, args...)}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
