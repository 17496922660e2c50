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
package decode

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tu "github.com/consensys/go-vcdstep/pkg/test/util"
	"github.com/consensys/go-vcdstep/pkg/uarch"
	"github.com/consensys/go-vcdstep/pkg/util/file"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	robEntry = func(i, b int) file.Path {
		return uarch.Core.Extend("rob", fmt.Sprintf("rob_entry[%d][%d]", i, b))
	}
	isqEntry = func(i int) file.Path {
		return uarch.Core.Extend("issue_queue", fmt.Sprintf("issue_queue[%d]", i))
	}
	commitMap = func(i int) file.Path {
		return uarch.Core.Extend("commit_map_table", fmt.Sprintf("regfile[%d]", i))
	}
	renameMap = func(i int) file.Path {
		return uarch.Core.Extend("rename_map_table", fmt.Sprintf("regfile[%d]", i))
	}
	physReg = func(i int) file.Path {
		return uarch.Core.Extend("phys_regfile", fmt.Sprintf("regfile[%d]", i))
	}
	pc = uarch.Core.Extend("pc")
)

// A single register set before the first edge.
func TestDecode_00(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").Vector(commitMap(5), "00101").
		Time(5).Clock("1")
	//
	history, _ := checkDecode(t, tb)
	require.Len(t, history, 1)
	//
	step := history[0]
	//
	for i, v := range step.Regfiles.CommitMapTable {
		if i == 5 {
			assert.Equal(t, uint32(5), v)
		} else {
			assert.Equal(t, uint32(0), v, "commit_map_table[%d]", i)
		}
	}
	//
	for _, e := range step.Isq {
		assert.False(t, e.EntryValid)
	}
	//
	for _, row := range step.Rob {
		for _, e := range row {
			assert.False(t, e.EntryValid)
		}
	}
	// Everything else is zero
	expected := uarch.FullCatalog().Shape.NewStep()
	expected.Time = 5
	expected.Regfiles.CommitMapTable[5] = 5
	assert.Equal(t, expected, step)
}

// Rising edges of the clock sequence 0,1,0,1,0,1.
func TestDecode_01(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog())
	//
	for i := 0; i < 6; i++ {
		tb.Time(uint64(i * 5)).Clock(fmt.Sprint(i % 2))
	}
	//
	history, stats := checkDecode(t, tb)
	require.Len(t, history, 3)
	assert.Equal(t, uint64(5), history[0].Time)
	assert.Equal(t, uint64(15), history[1].Time)
	assert.Equal(t, uint64(25), history[2].Time)
	assert.Equal(t, uint(6), stats.Applied)
	assert.Equal(t, uint64(25), stats.EndTime)
}

// No edges at all.
func TestDecode_02(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").Vector(physReg(1), "1")
	//
	history, _ := checkDecode(t, tb)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

// An empty body has no edges either.
func TestDecode_03(t *testing.T) {
	history, stats := checkDecode(t, tu.NewTraceBuilder(uarch.FullCatalog()))
	assert.Empty(t, history)
	assert.Equal(t, Stats{}, stats)
}

// The clock starts out unknown, hence an initial 1 is not a rising edge, and
// neither are transitions through x or z.
func TestDecode_04(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("1").
		Time(5).Clock("x").
		Time(10).Clock("1").
		Time(15).Clock("z").
		Time(20).Clock("0").
		Time(25).Clock("1").
		Time(30).Clock("1")
	//
	history, _ := checkDecode(t, tb)
	require.Len(t, history, 1)
	assert.Equal(t, uint64(25), history[0].Time)
}

// Changes before the edge within the same timestep are seen at that edge,
// whilst changes after it are only seen at the next edge.
func TestDecode_05(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").
		Time(5).Vector(renameMap(1), "11").Clock("1").Vector(renameMap(2), "10").
		Time(10).Clock("0").
		Time(15).Clock("1")
	//
	history, _ := checkDecode(t, tb)
	require.Len(t, history, 2)
	assert.Equal(t, uint32(3), history[0].Regfiles.RenameMapTable[1])
	assert.Equal(t, uint32(0), history[0].Regfiles.RenameMapTable[2])
	assert.Equal(t, uint32(3), history[1].Regfiles.RenameMapTable[1])
	assert.Equal(t, uint32(2), history[1].Regfiles.RenameMapTable[2])
}

// Reorder buffer and issue queue fields land in the right slots.
func TestDecode_06(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").
		Scalar(robEntry(3, 1).Extend("entry_valid"), "1").
		Vector(robEntry(3, 1).Extend("phys_rd"), "101010").
		Vector(robEntry(3, 1).Extend("arch_rd"), "11111").
		Scalar(robEntry(3, 1).Extend("commit_ready"), "1").
		Scalar(robEntry(3, 0).Extend("commit_ready"), "1").
		Scalar(isqEntry(7).Extend("entry_valid"), "1").
		Vector(isqEntry(7).Extend("alu_cmd"), "01101").
		Scalar(isqEntry(7).Extend("op1_valid"), "1").
		Vector(isqEntry(7).Extend("op1_data"), "11111111111111111111111111111111").
		Scalar(isqEntry(7).Extend("op2_valid"), "0").
		Vector(isqEntry(7).Extend("op2_type"), "1").
		Vector(isqEntry(7).Extend("op2_data"), "1000").
		Vector(isqEntry(7).Extend("phys_rd"), "111111").
		Vector(isqEntry(7).Extend("bank_addr"), "1").
		Vector(isqEntry(7).Extend("rob_addr"), "1001").
		Time(5).Clock("1")
	//
	history, _ := checkDecode(t, tb)
	require.Len(t, history, 1)
	//
	step := history[0]
	assert.Equal(t, uarch.RobEntry{EntryValid: true, PhysRd: 42, ArchRd: 31, CommitReady: true}, step.Rob[3][1])
	assert.Equal(t, uarch.RobEntry{CommitReady: true}, step.Rob[3][0])
	assert.Equal(t, uarch.IsqEntry{
		EntryValid: true,
		AluCmd:     13,
		Op1Valid:   true,
		Op1Data:    0xffffffff,
		Op2Valid:   false,
		Op2Type:    1,
		Op2Data:    8,
		PhysRd:     63,
		BankAddr:   1,
		RobAddr:    9,
	}, step.Isq[7])
	assert.Equal(t, uarch.IsqEntry{}, step.Isq[6])
}

// Unknown bits decode as zero, and unknown flags as false.
func TestDecode_07(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").
		Vector(physReg(0), "x1z1").
		Scalar(isqEntry(0).Extend("entry_valid"), "x").
		Scalar(robEntry(0, 0).Extend("entry_valid"), "z").
		Time(5).Clock("1")
	//
	history, _ := checkDecode(t, tb)
	require.Len(t, history, 1)
	assert.Equal(t, uint32(5), history[0].Regfiles.PhysicalRegfile[0])
	assert.False(t, history[0].Isq[0].EntryValid)
	assert.False(t, history[0].Rob[0][0].EntryValid)
}

// Values persist across edges until changed, and a flag can be cleared.
func TestDecode_08(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").Scalar(isqEntry(2).Extend("entry_valid"), "1").Vector(physReg(9), "1001").
		Time(5).Clock("1").
		Time(10).Clock("0").Scalar(isqEntry(2).Extend("entry_valid"), "0").
		Time(15).Clock("1").
		Time(20).Clock("0").
		Time(25).Clock("1")
	//
	history, _ := checkDecode(t, tb)
	require.Len(t, history, 3)
	assert.True(t, history[0].Isq[2].EntryValid)
	assert.False(t, history[1].Isq[2].EntryValid)
	assert.False(t, history[2].Isq[2].EntryValid)
	//
	for _, step := range history {
		assert.Equal(t, uint32(9), step.Regfiles.PhysicalRegfile[9])
	}
}

// Untracked signals, real changes to them and simulation directives are
// ignored.
func TestDecode_09(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Raw("$dumpvars").Clock("0").Vector(pc, "1111").Raw("$end").
		Raw("$comment nothing to see $end").
		Raw("r1.25 " + "~~~~").
		Raw("b1 ~~~").
		Time(5).Clock("1")
	//
	history, stats := checkDecode(t, tb)
	require.Len(t, history, 1)
	assert.Equal(t, uint(2), stats.Applied)
	assert.Equal(t, uint(3), stats.Ignored)
}

// The clock may also change by way of a one bit vector.
func TestDecode_10(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Vector(uarch.Root.Extend("clk"), "0").
		Time(5).Vector(uarch.Root.Extend("clk"), "1")
	//
	history, _ := checkDecode(t, tb)
	assert.Len(t, history, 1)
}

// Short vectors are extended following the leading bit.
func TestDecode_11(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").Vector(physReg(0), "1").Vector(physReg(1), "x1").
		Time(5).Clock("1")
	//
	history, _ := checkDecode(t, tb)
	require.Len(t, history, 1)
	assert.Equal(t, uint32(1), history[0].Regfiles.PhysicalRegfile[0])
	assert.Equal(t, uint32(1), history[0].Regfiles.PhysicalRegfile[1])
}

// Register file only catalog, against both a matching and a complete trace.
func TestDecode_12(t *testing.T) {
	for _, traceCatalog := range []*uarch.Catalog{uarch.RegfileCatalog(), uarch.FullCatalog()} {
		tb := tu.NewTraceBuilder(traceCatalog).
			Time(0).Clock("0").Vector(commitMap(31), "11111").
			Time(5).Clock("1")
		//
		history, _, err := DecodeFile(tb.WriteFile(t), uarch.RegfileCatalog())
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, uint32(31), history[0].Regfiles.CommitMapTable[31])
		assert.Nil(t, history[0].Rob)
		assert.Nil(t, history[0].Isq)
	}
}

// Decoding the same trace twice gives identical results.
func TestDecode_13(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog())
	//
	for i := 0; i < 20; i++ {
		tb.Time(uint64(i*10)).Clock("0").
			Vector(physReg(i), fmt.Sprintf("%b", i*7)).
			Scalar(isqEntry(i).Extend("entry_valid"), fmt.Sprint(i%2)).
			Time(uint64(i*10 + 5)).Clock("1")
	}
	//
	filename := tb.WriteFile(t)
	first, _, err1 := DecodeFile(filename, uarch.FullCatalog())
	second, _, err2 := DecodeFile(filename, uarch.FullCatalog())
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Len(t, first, 20)
	//
	b1, err1 := json.Marshal(first)
	b2, err2 := json.Marshal(second)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, b1, b2)
}

// Encoded steps use the field names expected by downstream consumers.
func TestDecode_14(t *testing.T) {
	var decoded []map[string]any
	//
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Time(0).Clock("0").Time(5).Clock("1")
	history, _ := checkDecode(t, tb)
	//
	bytes, err := json.Marshal(history)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bytes, &decoded))
	require.Len(t, decoded, 1)
	//
	step := decoded[0]
	assert.ElementsMatch(t, []string{"regfiles", "rob", "isq"}, keys(step))
	assert.ElementsMatch(t, []string{"commit_map_table", "rename_map_table", "physical_regfile"},
		keys(step["regfiles"].(map[string]any)))
	//
	rob := step["rob"].([]any)
	require.Len(t, rob, 16)
	require.Len(t, rob[0].([]any), 2)
	assert.ElementsMatch(t, []string{"entry_valid", "phys_rd", "arch_rd", "commit_ready"},
		keys(rob[0].([]any)[1].(map[string]any)))
	//
	isq := step["isq"].([]any)
	require.Len(t, isq, 32)
	assert.ElementsMatch(t, []string{"entry_valid", "alu_cmd", "op1_valid", "op1_data", "op2_valid", "op2_type",
		"op2_data", "phys_rd", "bank_addr", "rob_addr"}, keys(isq[31].(map[string]any)))
}

// Scopes of non-standard kinds alongside the tracked signals do not prevent a
// decode.
func TestDecode_15(t *testing.T) {
	text := `$scope module top $end
$var wire 1 ! clk $end
$scope interface bus_if $end
$var wire 1 " req $end
$upscope $end
$scope module left $end
$var wire 4 a x $end
$var wire 4 b y $end
$upscope $end
$scope struct right $end
$var wire 3 a x $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
0!
1"
#1
1!
b101 a
#2
0!
#3
1!
`
	history, stats, err := Decode(strings.NewReader(text), aliasCatalog())
	require.NoError(t, err)
	//
	require.Len(t, history, 2)
	assert.Equal(t, []uint32{0, 0}, history[0].Regfiles.CommitMapTable)
	assert.Equal(t, []uint32{5, 0}, history[1].Regfiles.CommitMapTable)
	assert.Equal(t, []uint32{5}, history[1].Regfiles.RenameMapTable)
	assert.Equal(t, uint(1), stats.Ignored)
}

func TestDecodeInvalid_00(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Omit(uarch.Root.Extend("clk")).
		Time(0).Vector(physReg(0), "1")
	//
	err := checkDecodeError(t, tb, MissingSignal)
	assert.Equal(t, "TOP.clk", err.Path)
}

func TestDecodeInvalid_01(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Omit(isqEntry(4).Extend("rob_addr")).
		Omit(robEntry(0, 1).Extend("arch_rd"))
	//
	err := checkDecodeError(t, tb, MissingSignal)
	// Catalog order puts the reorder buffer first
	assert.Equal(t, "TOP.core.rob.rob_entry[0][1].arch_rd", err.Path)
	assert.Contains(t, err.Error(), "TOP.core.issue_queue.issue_queue[4].rob_addr (isq[4].rob_addr)")
	assert.Contains(t, err.Error(), "(rob[0][1].arch_rd) not declared")
}

// A trace missing the reorder buffer is fine for the register file catalog.
func TestDecodeInvalid_02(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Omit(robEntry(0, 0).Extend("entry_valid"))
	//
	_, _, err := DecodeFile(tb.WriteFile(t), uarch.RegfileCatalog())
	require.NoError(t, err)
}

func TestDecodeInvalid_03(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Width(physReg(3), 33)
	//
	err := checkDecodeError(t, tb, HeaderMalformed)
	assert.Equal(t, "TOP.core.phys_regfile.regfile[3]", err.Path)
}

func TestDecodeInvalid_04(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Width(robEntry(1, 1).Extend("commit_ready"), 2)
	//
	err := checkDecodeError(t, tb, HeaderMalformed)
	assert.Equal(t, "TOP.core.rob.rob_entry[1][1].commit_ready", err.Path)
	assert.Contains(t, err.Error(), "expected 1 bit for rob[1][1].commit_ready, declared 2 bits")
}

func TestDecodeInvalid_05(t *testing.T) {
	_, _, err := Decode(strings.NewReader("$scope module TOP $end\n"), uarch.FullCatalog())
	assert.True(t, IsKind(err, HeaderMalformed), err)
}

// Vector wider than its declaration.
func TestDecodeInvalid_06(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).
		Time(0).Clock("0").Time(5).Clock("1").
		Time(10).Vector(commitMap(0), "1010101")
	//
	err := checkDecodeError(t, tb, TraceCorrupt)
	assert.Equal(t, "TOP.core.commit_map_table.regfile[0]", err.Path)
	assert.Contains(t, err.Error(), "7-bit value assigned to 6-bit signal (commit_map_table[0])")
}

// Scalar assigned to a multi-bit signal.
func TestDecodeInvalid_07(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Time(0).Scalar(commitMap(0), "1")
	checkDecodeError(t, tb, TraceCorrupt)
}

// Real assigned to a tracked signal.
func TestDecodeInvalid_08(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Time(0).Raw("r0.5 !")
	err := checkDecodeError(t, tb, TraceCorrupt)
	assert.Contains(t, err.Error(), "real value assigned to 1-bit signal (clk)")
}

// Malformed body.
func TestDecodeInvalid_09(t *testing.T) {
	tb := tu.NewTraceBuilder(uarch.FullCatalog()).Time(0).Clock("0").Time(5).Clock("1").Raw("#five")
	checkDecodeError(t, tb, TraceCorrupt)
}

func TestDecodeInvalid_10(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "missing.vcd")
	history, _, err := DecodeFile(filename, uarch.FullCatalog())
	//
	assert.Nil(t, history)
	assert.True(t, IsKind(err, FileUnavailable), err)
	assert.Contains(t, err.Error(), "missing.vcd")
}

func checkDecode(t *testing.T, tb *tu.TraceBuilder) (uarch.History, Stats) {
	t.Helper()
	//
	history, stats, err := DecodeFile(tb.WriteFile(t), uarch.FullCatalog())
	require.NoError(t, err)
	//
	return history, stats
}

func checkDecodeError(t *testing.T, tb *tu.TraceBuilder, kind ErrorKind) *Error {
	t.Helper()
	//
	var derr *Error
	//
	history, _, err := DecodeFile(tb.WriteFile(t), uarch.FullCatalog())
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, kind, derr.Kind, err.Error())
	assert.Nil(t, history)
	//
	return derr
}

func keys(m map[string]any) []string {
	var ks []string
	//
	for k := range m {
		ks = append(ks, k)
	}
	//
	return ks
}
