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
package termio

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal determines whether a given file (e.g. os.Stdout) is attached to a
// terminal, in which case ANSI escapes can be used.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width (in characters) of the terminal attached to a
// given file, or a fallback width if it is not attached to a terminal.
func TerminalWidth(f *os.File, fallback uint) uint {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return uint(w)
	}
	//
	return fallback
}
