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

// Regfiles holds the register renaming tables and the physical register file
// as observed at a single clock edge.
type Regfiles struct {
	CommitMapTable  []uint32 `json:"commit_map_table"`
	RenameMapTable  []uint32 `json:"rename_map_table"`
	PhysicalRegfile []uint32 `json:"physical_regfile"`
}

// RobEntry is one entry of the reorder buffer.
type RobEntry struct {
	EntryValid  bool   `json:"entry_valid"`
	PhysRd      uint32 `json:"phys_rd"`
	ArchRd      uint32 `json:"arch_rd"`
	CommitReady bool   `json:"commit_ready"`
}

// IsqEntry is one entry of the issue queue.
type IsqEntry struct {
	EntryValid bool   `json:"entry_valid"`
	AluCmd     uint32 `json:"alu_cmd"`
	Op1Valid   bool   `json:"op1_valid"`
	Op1Data    uint32 `json:"op1_data"`
	Op2Valid   bool   `json:"op2_valid"`
	Op2Type    uint32 `json:"op2_type"`
	Op2Data    uint32 `json:"op2_data"`
	PhysRd     uint32 `json:"phys_rd"`
	BankAddr   uint32 `json:"bank_addr"`
	RobAddr    uint32 `json:"rob_addr"`
}

// Step is the state of the processor reconstructed at one rising clock edge.
// The reorder buffer is indexed by row and then bank.  Tables which the
// catalog does not track are left nil.
type Step struct {
	// Simulation time of the edge which produced this step.
	Time     uint64       `json:"-"`
	Regfiles Regfiles     `json:"regfiles"`
	Rob      [][]RobEntry `json:"rob,omitempty"`
	Isq      []IsqEntry   `json:"isq,omitempty"`
}

// Shape determines the dimensions of every table in a Step.  A dimension of
// zero means the corresponding table is not tracked.
type Shape struct {
	CommitMap  uint
	RenameMap  uint
	PhysRegs   uint
	RobRows    uint
	RobBanks   uint
	IsqEntries uint
}

// NewStep constructs a step of this shape where every register holds zero,
// and every flag is false.
func (p Shape) NewStep() Step {
	var step Step
	//
	step.Regfiles.CommitMapTable = make([]uint32, p.CommitMap)
	step.Regfiles.RenameMapTable = make([]uint32, p.RenameMap)
	step.Regfiles.PhysicalRegfile = make([]uint32, p.PhysRegs)
	//
	if p.RobRows > 0 {
		step.Rob = make([][]RobEntry, p.RobRows)
		//
		for i := range step.Rob {
			step.Rob[i] = make([]RobEntry, p.RobBanks)
		}
	}
	//
	if p.IsqEntries > 0 {
		step.Isq = make([]IsqEntry, p.IsqEntries)
	}
	//
	return step
}

// History is the sequence of steps reconstructed from a trace, one per rising
// clock edge, in chronological order.
type History []Step
