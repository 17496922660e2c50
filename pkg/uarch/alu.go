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
package uarch

import "fmt"

var aluCmds = []string{"ADD", "SUB", "XOR", "OR", "AND", "SRL", "SRA", "SLL", "EQ", "NE", "LT", "GE", "LTU", "GEU",
	"BIT_C", "SLT", "SLTU", "ILL"}

// AluCmdName returns the mnemonic of an ALU command held in an issue queue
// entry, such as "ADD".  Unknown commands are shown numerically.
func AluCmdName(cmd uint32) string {
	if cmd < uint32(len(aluCmds)) {
		return aluCmds[cmd]
	}
	//
	return fmt.Sprintf("#%d", cmd)
}

// OpTypeName returns the kind of the second operand of an issue queue entry,
// which is either a register or an immediate.
func OpTypeName(op uint32) string {
	switch op {
	case 0:
		return "REG"
	case 1:
		return "IMM"
	}
	//
	return fmt.Sprintf("#%d", op)
}
