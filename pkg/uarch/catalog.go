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

import (
	"fmt"

	"github.com/consensys/go-vcdstep/pkg/util/file"
)

// Field identifies the role a tracked signal plays within a Step.
type Field uint8

const (
	// Clock is the signal whose rising edges delimit steps.
	Clock Field = iota
	// CommitMap is an entry of the commit map table.
	CommitMap
	// RenameMap is an entry of the rename map table.
	RenameMap
	// PhysReg is an entry of the physical register file.
	PhysReg
	// RobEntryValid and the following fields belong to a reorder buffer entry.
	RobEntryValid
	RobPhysRd
	RobArchRd
	RobCommitReady
	// IsqEntryValid and the following fields belong to an issue queue entry.
	IsqEntryValid
	IsqAluCmd
	IsqOp1Valid
	IsqOp1Data
	IsqOp2Valid
	IsqOp2Type
	IsqOp2Data
	IsqPhysRd
	IsqBankAddr
	IsqRobAddr
)

// MaxWidth is the widest signal which can be decoded into a Step field.
const MaxWidth = 32

// IsFlag determines whether this field holds a single bit, rather than a
// multi-bit word.
func (f Field) IsFlag() bool {
	switch f {
	case Clock, RobEntryValid, RobCommitReady, IsqEntryValid, IsqOp1Valid, IsqOp2Valid:
		return true
	}
	//
	return false
}

func (f Field) String() string {
	switch f {
	case Clock:
		return "clk"
	case CommitMap:
		return "commit_map_table"
	case RenameMap:
		return "rename_map_table"
	case PhysReg:
		return "phys_regfile"
	case RobEntryValid, IsqEntryValid:
		return "entry_valid"
	case RobPhysRd, IsqPhysRd:
		return "phys_rd"
	case RobArchRd:
		return "arch_rd"
	case RobCommitReady:
		return "commit_ready"
	case IsqAluCmd:
		return "alu_cmd"
	case IsqOp1Valid:
		return "op1_valid"
	case IsqOp1Data:
		return "op1_data"
	case IsqOp2Valid:
		return "op2_valid"
	case IsqOp2Type:
		return "op2_type"
	case IsqOp2Data:
		return "op2_data"
	case IsqBankAddr:
		return "bank_addr"
	case IsqRobAddr:
		return "rob_addr"
	}
	//
	return fmt.Sprintf("field(%d)", uint8(f))
}

// Role locates a signal within a Step: its field, the table index (or reorder
// buffer row) and, for the reorder buffer, its bank.
type Role struct {
	Field Field
	Index uint
	Bank  uint
}

// Set assigns a decoded value to the slot of a step identified by this role.
// Flags are true exactly when the word is 1.  Setting the clock has no effect.
func (r Role) Set(step *Step, word uint32) {
	flag := word == 1
	//
	switch r.Field {
	case CommitMap:
		step.Regfiles.CommitMapTable[r.Index] = word
	case RenameMap:
		step.Regfiles.RenameMapTable[r.Index] = word
	case PhysReg:
		step.Regfiles.PhysicalRegfile[r.Index] = word
	case RobEntryValid:
		step.Rob[r.Index][r.Bank].EntryValid = flag
	case RobPhysRd:
		step.Rob[r.Index][r.Bank].PhysRd = word
	case RobArchRd:
		step.Rob[r.Index][r.Bank].ArchRd = word
	case RobCommitReady:
		step.Rob[r.Index][r.Bank].CommitReady = flag
	case IsqEntryValid:
		step.Isq[r.Index].EntryValid = flag
	case IsqAluCmd:
		step.Isq[r.Index].AluCmd = word
	case IsqOp1Valid:
		step.Isq[r.Index].Op1Valid = flag
	case IsqOp1Data:
		step.Isq[r.Index].Op1Data = word
	case IsqOp2Valid:
		step.Isq[r.Index].Op2Valid = flag
	case IsqOp2Type:
		step.Isq[r.Index].Op2Type = word
	case IsqOp2Data:
		step.Isq[r.Index].Op2Data = word
	case IsqPhysRd:
		step.Isq[r.Index].PhysRd = word
	case IsqBankAddr:
		step.Isq[r.Index].BankAddr = word
	case IsqRobAddr:
		step.Isq[r.Index].RobAddr = word
	}
}

func (r Role) String() string {
	switch {
	case r.Field == Clock:
		return r.Field.String()
	case r.Field <= PhysReg:
		return fmt.Sprintf("%s[%d]", r.Field, r.Index)
	case r.Field <= RobCommitReady:
		return fmt.Sprintf("rob[%d][%d].%s", r.Index, r.Bank, r.Field)
	default:
		return fmt.Sprintf("isq[%d].%s", r.Index, r.Field)
	}
}

// Entry binds the path of a signal in a trace to its role.
type Entry struct {
	Path file.Path
	Role Role
}

// Catalog describes the fixed set of signals to track in a trace, and the
// dimensions of the steps built from them.
type Catalog struct {
	Shape Shape
	// Every tracked signal, with the clock first.
	Entries []Entry
}

// Sizes of the tables in the processor being traced.
const (
	NumArchRegs   = 32
	NumPhysRegs   = 64
	NumRobRows    = 16
	NumRobBanks   = 2
	NumIsqEntries = 32
)

// Root is the outermost scope of a trace, which declares the clock.
var Root = file.NewPath("TOP")

// Core is the scope of the processor core.
var Core = Root.Extend("core")

var robFields = []Field{RobEntryValid, RobPhysRd, RobArchRd, RobCommitReady}

var isqFields = []Field{IsqEntryValid, IsqAluCmd, IsqOp1Valid, IsqOp1Data, IsqOp2Valid, IsqOp2Type,
	IsqOp2Data, IsqPhysRd, IsqBankAddr, IsqRobAddr}

// RegfileCatalog tracks the clock, both map tables and the physical register
// file only.
func RegfileCatalog() *Catalog {
	c := &Catalog{}
	c.Entries = append(c.Entries, Entry{Root.Extend("clk"), Role{Field: Clock}})
	c.Shape.CommitMap = c.addTable(CommitMap, NumArchRegs)
	c.Shape.RenameMap = c.addTable(RenameMap, NumArchRegs)
	c.Shape.PhysRegs = c.addTable(PhysReg, NumPhysRegs)
	//
	return c
}

// FullCatalog tracks everything in RegfileCatalog, along with the reorder
// buffer and the issue queue.
func FullCatalog() *Catalog {
	c := RegfileCatalog()
	c.addRob(NumRobRows, NumRobBanks)
	c.addIssueQueue(NumIsqEntries)
	//
	return c
}

// Clock returns the catalog entry for the clock.
func (p *Catalog) Clock() Entry {
	return p.Entries[0]
}

// Register tables are arrays of "regfile[i]" variables within a scope named
// after the table.
func (p *Catalog) addTable(field Field, n uint) uint {
	scope := Core.Extend(field.String())
	//
	for i := uint(0); i < n; i++ {
		path := scope.Extend(fmt.Sprintf("regfile[%d]", i))
		p.Entries = append(p.Entries, Entry{path, Role{Field: field, Index: i}})
	}
	//
	return n
}

func (p *Catalog) addRob(rows, banks uint) {
	for i := uint(0); i < rows; i++ {
		for b := uint(0); b < banks; b++ {
			scope := Core.Extend("rob", fmt.Sprintf("rob_entry[%d][%d]", i, b))
			//
			for _, f := range robFields {
				p.Entries = append(p.Entries, Entry{scope.Extend(f.String()), Role{f, i, b}})
			}
		}
	}
	//
	p.Shape.RobRows, p.Shape.RobBanks = rows, banks
}

func (p *Catalog) addIssueQueue(n uint) {
	for i := uint(0); i < n; i++ {
		scope := Core.Extend("issue_queue", fmt.Sprintf("issue_queue[%d]", i))
		//
		for _, f := range isqFields {
			p.Entries = append(p.Entries, Entry{scope.Extend(f.String()), Role{Field: f, Index: i}})
		}
	}
	//
	p.Shape.IsqEntries = n
}
